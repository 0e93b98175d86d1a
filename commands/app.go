// Package commands implements the finweb command line application.
package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"cattlecloud.net/go/finweb"
	"cattlecloud.net/go/finweb/api"
	"cattlecloud.net/go/finweb/config"
	"cattlecloud.net/go/finweb/session"
	"cattlecloud.net/go/finweb/tokens"
	"cattlecloud.net/go/scope"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/google/subcommands"
	"github.com/hashicorp/go-hclog"
	"github.com/shoenig/go-conceal"
	"golang.org/x/term"
)

// Register the subcommands.
// A main package will call Register() and then Execute() the one the user
// picked.
func Register(c *subcommands.Commander) {
	c.Register(&loginCmd{}, "session")
	c.Register(&logoutCmd{}, "session")
	c.Register(&registerCmd{}, "session")
	c.Register(&statusCmd{}, "session")

	c.Register(&dashboardCmd{}, "finance")
	c.Register(&portfolioCmd{}, "finance")
	c.Register(&assetsCmd{}, "finance")
	c.Register(&txCmd{}, "finance")

	c.Register(&predictCmd{}, "ai")
	c.Register(&adviseCmd{}, "ai")
	c.Register(&chatCmd{}, "ai")

	c.Register(&serveCmd{}, "web")
	c.Register(&configCmd{}, "setup")
}

// as a CLI application the lifecycle is short, so a global flag is fine.
var configPath = flag.String("config", config.Path(), "Path to the TOML configuration file")

var (
	errNoPassword = errors.New("commands: no password given")
	errMissing    = errors.New("commands: missing value")
)

// app is everything a command needs once the configuration is loaded.
type app struct {
	cfg     config.Config
	log     hclog.Logger
	store   *tokens.Resilient
	client  *api.Client
	manager *session.Manager
}

// open loads the configuration and resolves the session from the token
// store. It makes no network request.
func open() (*app, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}

	log := cfg.Logger()
	store := tokens.Open(cfg.Store.Path, finweb.OriginOf(cfg.API.BaseURL), log.Named("tokens"))

	var manager *session.Manager
	client := api.New(
		api.SetEndpoint(cfg.API.BaseURL),
		api.SetTokens(store),
		api.SetTimeout(cfg.API.Timeout.Duration),
		api.SetLogger(log.Named("api")),
		api.SetUnauthorized(func(rejected *conceal.Text) { manager.Invalidate(rejected) }),
	)
	manager = session.NewManager(store, client,
		session.WithLogger(log.Named("session")),
		session.WithExpiryCheck(cfg.Session.ExpiryCheck),
	)
	manager.Initialize()

	return &app{
		cfg:     cfg,
		log:     log,
		store:   store,
		client:  client,
		manager: manager,
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("failed to close token store", "error", err)
	}
}

// deadline bounds a single API call by the configured timeout.
func (a *app) deadline() (context.Context, context.CancelFunc) {
	return scope.TTL(a.cfg.API.Timeout.Duration)
}

// run opens the app and calls f when a user is signed in.
func run(f func(*app) subcommands.ExitStatus) subcommands.ExitStatus {
	a, err := open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	if !a.manager.Session().Active() {
		fmt.Fprintln(os.Stderr, "Not logged in, run: finweb login")
		return subcommands.ExitFailure
	}
	return f(a)
}

// report prints err for the user and picks the exit status.
func report(what string, err error) subcommands.ExitStatus {
	if errors.Is(err, api.ErrUnauthorized) {
		fmt.Fprintln(os.Stderr, "Your session has expired, run: finweb login")
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Error %s: %s\n", what, api.Message(err, err.Error()))
	return subcommands.ExitFailure
}

func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// field is a value the user types in, prompted for when it is empty.
type field struct {
	title string
	value *string
}

// prompt fills in the empty fields and asks for a secret titled secretTitle.
// On a terminal this is a form; otherwise every field must already be set
// and the secret is one line of stdin.
func prompt(secretTitle string, fields ...field) (*conceal.Text, error) {
	empty := missing(fields)

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		if len(empty) > 0 {
			return nil, fmt.Errorf("%w: %s", errMissing, strings.ToLower(empty[0].title))
		}
		return readSecret(os.Stdin)
	}

	var secret string
	inputs := make([]huh.Field, 0, len(empty)+1)
	for _, f := range empty {
		*f.value = ""
		inputs = append(inputs, huh.NewInput().Title(f.title).Value(f.value))
	}
	inputs = append(inputs, huh.NewInput().
		Title(secretTitle).
		EchoMode(huh.EchoModePassword).
		Value(&secret),
	)

	if err := huh.NewForm(huh.NewGroup(inputs...)).Run(); err != nil {
		return nil, err
	}
	if left := missing(fields); len(left) > 0 {
		return nil, fmt.Errorf("%w: %s", errMissing, strings.ToLower(left[0].title))
	}
	if secret == "" {
		return nil, errNoPassword
	}
	return conceal.New(secret), nil
}

// missing returns the fields holding nothing but whitespace.
func missing(fields []field) []field {
	var empty []field
	for _, f := range fields {
		if strings.TrimSpace(*f.value) == "" {
			empty = append(empty, f)
		}
	}
	return empty
}

func readSecret(r io.Reader) (*conceal.Text, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return nil, errNoPassword
	}
	return conceal.New(line), nil
}
