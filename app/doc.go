/*
Package app initializes and serves a sik app.

# App

The main entrypoint to package app is [New], constructing an [*App] from a [Config].
A [Config] names the root directory of the project; [New] then:
  - validates the [Config]; in production, CookieSecret and SessionSecret are required
  - runs [middleware.MethodOverride] and, if configured, [middleware.CORS] ahead of routing
  - runs the standard middlewares on every request: request IDs, IP addresses, request logging,
    JSON and form bodies, signed cookies and sessions
  - in development, serves <Root>/public under /assets/ and <Root>/public/favicon.ico
  - loads every API module in <Root>/lib/api and mounts the endpoints they declare

API modules reference handlers by name.
Register those with [WithHandler] or [WithRegistry].

[*App.Guide] begins the web server.
Stop it with [*App.Shutdown] or by sending a signal [*App.Guide] listens for.

# Configuration

A [Config] can be built by hand, from environment variables with [ConfigFromEnv]
or from a YAML file with [LoadConfig].
Environment variables ought to be set in a file called ".env"
found at the same directory the application is executed from.

Here are the available environment variables.
  - API_PATH: the directory holding API modules; default: <APP_ROOT>/lib/api
  - APP_ROOT: the root directory of the project
  - COOKIE_SECRET: the secret signing cookies
  - ENVIRONMENT: the environment the application is running in; cf. [sik.Environment]
  - HOST: the host the application is running on; default: localhost
  - LOG_LEVEL: the level at which to begin logging; default: INFO; cf. [logger.LogLevel]
  - PORT: the port the application should listen on; default: 3000
  - PUBLIC_PATH: the directory holding static assets; default: <APP_ROOT>/public
  - REDIS_MAX_IDLE: the number of idle connections kept to Redis; default: 10
  - REDIS_PASSWORD: the password for authenticating to Redis
  - REDIS_URL: the Redis server holding sessions and idempotency keys, e.g., redis://localhost:6379
  - SENTRY_DSN: ships errors and panics to Sentry when set
  - SERVER_IDLE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for idling between requests when using keep-alives; default: 120s
  - SERVER_READ_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for reading HTTP requests; default: 5s
  - SERVER_WRITE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for writing HTTP responses; default: 5s
  - SESSION_NAME: the name of the session cookie; default: sik-session
  - SESSION_SECRET: the secret signing sessions
*/
package app
