package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cattlecloud.net/go/finweb/market"
	"cattlecloud.net/go/finweb/views"
	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type serveCmd struct {
	listen string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the web interface" }
func (*serveCmd) Usage() string {
	return `finweb serve [-listen <address>]

  Serves the finance pages in the browser. The session is shared with the
  other commands through the token store.

  There is one session per process, not per browser: anyone who can reach
  the listen address acts as the signed in user. Keep it on a loopback
  address (the default is 127.0.0.1:7070).
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.listen, "listen", "", "Address to listen on, overriding the configuration")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	a, err := open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	if c.listen == "" {
		c.listen = a.cfg.Server.Listen
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := views.NewMetrics(registry)

	pages := views.New(views.Options{
		Authority:   a.manager,
		Client:      a.client,
		Destination: a.cfg.Guard.Destination,
		Fallback:    a.cfg.Guard.Fallback,
		Logger:      a.log.Named("guard"),
		Metrics:     metrics,
		Attempts:    a.cfg.Server.LoginAttempts,
		Proxied:     a.cfg.Server.Proxied,
	})
	defer pages.Close()

	go watch(ctx, a, metrics)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/", pages)

	server := &http.Server{
		Addr:              c.listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdown)
	}()

	if !loopback(c.listen) {
		a.log.Warn("listening beyond loopback; every visitor shares the signed in session", "address", c.listen)
	}
	a.log.Info("serving", "address", c.listen, "api", a.client.Endpoint())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.log.Error("server failed", "error", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// watch logs when the market opens or closes.
func watch(ctx context.Context, a *app, metrics *views.Metrics) {
	log := a.log.Named("market")
	first, previous := true, false
	market.Watch(ctx, market.DefaultInterval, time.Now, func(open bool) {
		metrics.Market(open)
		if first || open != previous {
			log.Info("market status", "open", open)
		}
		first, previous = false, open
	})
}

// loopback reports whether address only accepts local connections.
func loopback(address string) bool {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
