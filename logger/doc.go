/*
Package logger provides logging functionality to a sik app by defining the required behavior in [Logger]
and providing an implementation of it with [StdLogger].

# Overview

The Logger interface outputs messages at certain levels of importance.
LogLevel is the type to use to represent those levels.
[StdLogger] accepts a [LogLevel],
and if initialized with [LogLevelWarn],
only [*StdLogger.Warn], [*StdLogger.Error], and [*StdLogger.Fatal] produce messages.

Log messages emitted by [StdLogger] are composed of a few parts:
  - timestamp
  - log level
  - call site
  - message
  - log context

Here's an example:

	2022/04/28 15:55:21 [INFO] app/app.go:143 'mounted API module test' log_context: {"data":{"routes":1}}

The log context is a JSON-encoded [*LogContext].
It carries data inessential to the message proper
but provides a fuller picture of the application state at the time of logging.

# SentryLogger

When SENTRY_DSN is set, [New] wraps the [StdLogger] in a [SentryLogger],
which ships any error found in a [*LogContext] at WARN and above to Sentry.
*/
package logger
