// Command sik serves a sik project.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/xy-planning-network/sik/app"
	"golang.org/x/time/rate"
)

// flags holds what was set on the command line.
type flags struct {
	config    string
	root      string
	api       string
	public    string
	env       string
	port      string
	cors      []string
	rateLimit float64
	rateBurst int
	routes    bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses args, builds the app they describe and either lists its routes to out or serves it.
func run(args []string, out io.Writer) error {
	f, err := parse(args)
	if err != nil {
		return err
	}

	cfg, err := f.configure()
	if err != nil {
		return err
	}

	a, err := app.New(cfg, f.options()...)
	if err != nil {
		return err
	}

	if f.routes {
		for _, ep := range a.Endpoints() {
			fmt.Fprintln(out, ep)
		}
		return nil
	}

	return a.Guide()
}

func parse(args []string) (flags, error) {
	var f flags
	cli := kingpin.New("sik", "Serve a sik project: static assets plus the API modules found in <root>/lib/api.")
	cli.Flag("config", "Path to YAML configuration file").StringVar(&f.config)
	cli.Flag("root", "Project root directory").StringVar(&f.root)
	cli.Flag("api", "Directory of API modules; default: <root>/lib/api").StringVar(&f.api)
	cli.Flag("public", "Directory of static assets; default: <root>/public").StringVar(&f.public)
	cli.Flag("env", "Environment to run in, e.g. DEVELOPMENT or PRODUCTION").StringVar(&f.env)
	cli.Flag("port", "HTTP port to listen on").StringVar(&f.port)
	cli.Flag("cors", "Origin allowed to make cross-origin requests; repeatable").StringsVar(&f.cors)
	cli.Flag("rate-limit", "Requests per second allowed per client (0 disables)").Default("0").Float64Var(&f.rateLimit)
	cli.Flag("rate-burst", "Burst capacity per client").Default("0").IntVar(&f.rateBurst)
	cli.Flag("routes", "List the mounted routes and exit").BoolVar(&f.routes)

	if _, err := cli.Parse(args); err != nil {
		return flags{}, err
	}

	return f, nil
}

// configure layers the config file, if any, over environment variables
// and the flags over both.
func (f flags) configure() (*app.Config, error) {
	cfg := app.ConfigFromEnv()
	if f.config != "" {
		var err error
		if cfg, err = app.LoadConfig(f.config); err != nil {
			return nil, err
		}
	}

	if f.root != "" {
		cfg.Root = f.root
	}

	if f.api != "" {
		cfg.Paths.API = f.api
	}

	if f.public != "" {
		cfg.Paths.Public = f.public
	}

	return cfg, nil
}

func (f flags) options() []app.Option {
	opts := []app.Option{app.WithEnv(f.env)}
	if f.port != "" {
		opts = append(opts, app.WithPort(f.port))
	}

	if len(f.cors) > 0 {
		opts = append(opts, app.WithCORS(f.cors...))
	}

	if f.rateLimit > 0 {
		opts = append(opts, app.WithRateLimit(rate.Limit(f.rateLimit), f.rateBurst))
	}

	return opts
}
