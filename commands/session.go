package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"cattlecloud.net/go/finweb/api"
	"cattlecloud.net/go/finweb/market"
	"cattlecloud.net/go/finweb/session"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/subcommands"
)

type loginCmd struct {
	email string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "sign in to the finance API" }
func (*loginCmd) Usage() string {
	return `finweb login [-email <email>]

  Signs in and remembers the session until logout. On a terminal the
  missing values are asked for; otherwise -email is required and the
  password is read from stdin.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Email address of the account")
}

func (c *loginCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	a, err := open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	secret, err := prompt("Password", field{title: "Email", value: &c.email})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading credentials: %v\n", err)
		return subcommands.ExitUsageError
	}

	ctx, cancel := a.deadline()
	defer cancel()

	if err := a.manager.Login(ctx, api.Credentials{Identifier: c.email, Secret: secret}); err != nil {
		return report("logging in", err)
	}

	fmt.Println("Logged in as", c.email)
	return subcommands.ExitSuccess
}

type logoutCmd struct{}

func (*logoutCmd) Name() string             { return "logout" }
func (*logoutCmd) Synopsis() string         { return "forget the stored session" }
func (*logoutCmd) Usage() string            { return "finweb logout\n" }
func (*logoutCmd) SetFlags(_ *flag.FlagSet) {}

func (*logoutCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	a, err := open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	a.manager.Logout()
	fmt.Println("Logged out")
	return subcommands.ExitSuccess
}

type registerCmd struct {
	name  string
	email string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create a new account" }
func (*registerCmd) Usage() string {
	return `finweb register [-name <full name>] [-email <email>]

  Creates an account. Log in afterwards with: finweb login
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Full name")
	f.StringVar(&c.email, "email", "", "Email address")
}

func (c *registerCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	a, err := open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	secret, err := prompt("Choose a password",
		field{title: "Full Name", value: &c.name},
		field{title: "Email", value: &c.email},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading account details: %v\n", err)
		return subcommands.ExitUsageError
	}

	ctx, cancel := a.deadline()
	defer cancel()

	err = a.client.Register(ctx, api.Registration{
		FullName: strings.TrimSpace(c.name),
		Email:    strings.TrimSpace(c.email),
		Password: secret.Unveil(),
	})
	if err != nil {
		return report("registering", err)
	}

	fmt.Println("Account created, now run: finweb login -email", c.email)
	return subcommands.ExitSuccess
}

type statusCmd struct{}

func (*statusCmd) Name() string             { return "status" }
func (*statusCmd) Synopsis() string         { return "show the session and market status" }
func (*statusCmd) Usage() string            { return "finweb status\n" }
func (*statusCmd) SetFlags(_ *flag.FlagSet) {}

func (*statusCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	a, err := open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	state := a.manager.State()
	style := warnStyle
	if state == session.Authenticated {
		style = okStyle
	}

	fmt.Println(statusText(a.client.Endpoint(), style.Render(state.String()), a.store.Degraded(), market.IsOpen(time.Now())))
	return subcommands.ExitSuccess
}

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#879A39"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#DA702C"))
)

func statusText(endpoint, state string, degraded, open bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "endpoint: %s\n", endpoint)
	fmt.Fprintf(&b, "session:  %s\n", state)
	if degraded {
		b.WriteString("storage:  memory only, the session will not survive this process\n")
	}
	if open {
		b.WriteString("market:   open")
	} else {
		b.WriteString("market:   closed")
	}
	return b.String()
}
