package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"cattlecloud.net/go/finweb/api"
	"cattlecloud.net/go/finweb/market"
	"github.com/google/subcommands"
)

type dashboardCmd struct{}

func (*dashboardCmd) Name() string             { return "dashboard" }
func (*dashboardCmd) Synopsis() string         { return "show the portfolio summary" }
func (*dashboardCmd) Usage() string            { return "finweb dashboard\n" }
func (*dashboardCmd) SetFlags(_ *flag.FlagSet) {}

func (*dashboardCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	return run(func(a *app) subcommands.ExitStatus {
		ctx, cancel := a.deadline()
		defer cancel()

		d, err := a.client.Dashboard(ctx)
		if err != nil {
			return report("loading dashboard", err)
		}

		printMarkdown(dashboardMarkdown(d, market.IsOpen(time.Now())))
		return subcommands.ExitSuccess
	})
}

type portfolioCmd struct{}

func (*portfolioCmd) Name() string             { return "portfolio" }
func (*portfolioCmd) Synopsis() string         { return "show holdings with live prices" }
func (*portfolioCmd) Usage() string            { return "finweb portfolio\n" }
func (*portfolioCmd) SetFlags(_ *flag.FlagSet) {}

func (*portfolioCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	return run(func(a *app) subcommands.ExitStatus {
		ctx, cancel := a.deadline()
		defer cancel()

		p, err := a.client.Performance(ctx)
		if err != nil {
			return report("loading portfolio", err)
		}

		printMarkdown(performanceMarkdown(p))
		return subcommands.ExitSuccess
	})
}

// assetsCmd holds the flags for the 'assets' subcommand.
type assetsCmd struct {
	id       int64
	symbol   string
	quantity float64
	price    float64
}

func (*assetsCmd) Name() string     { return "assets" }
func (*assetsCmd) Synopsis() string { return "add, update, or delete a holding" }
func (*assetsCmd) Usage() string {
	return `finweb assets -symbol <symbol> -quantity <n> -price <p> add
finweb assets -id <id> -symbol <symbol> -quantity <n> -price <p> update
finweb assets -id <id> delete

  Manages the holdings of the portfolio. Ids are listed by: finweb portfolio
`
}

func (c *assetsCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "Id of the asset to update or delete")
	f.StringVar(&c.symbol, "symbol", "", "Ticker symbol, e.g. TCS.NS")
	f.Float64Var(&c.quantity, "quantity", 0, "Number of shares")
	f.Float64Var(&c.price, "price", 0, "Buy price per share")
}

func (c *assetsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	action := f.Arg(0)
	switch action {
	case "add":
		if c.symbol == "" || c.quantity <= 0 || c.price <= 0 {
			fmt.Fprintln(os.Stderr, "Error: -symbol, -quantity, and -price are required")
			return subcommands.ExitUsageError
		}
	case "update":
		if c.id <= 0 || c.symbol == "" || c.quantity <= 0 || c.price <= 0 {
			fmt.Fprintln(os.Stderr, "Error: -id, -symbol, -quantity, and -price are required")
			return subcommands.ExitUsageError
		}
	case "delete":
		if c.id <= 0 {
			fmt.Fprintln(os.Stderr, "Error: -id is required")
			return subcommands.ExitUsageError
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown action %q\n", action)
		return subcommands.ExitUsageError
	}

	return run(func(a *app) subcommands.ExitStatus {
		ctx, cancel := a.deadline()
		defer cancel()

		in := api.AssetInput{Symbol: c.symbol, Quantity: c.quantity, BuyPrice: c.price}

		var err error
		switch action {
		case "add":
			var asset *api.Asset
			if asset, err = a.client.CreateAsset(ctx, in); err == nil {
				fmt.Printf("Added %s as asset %d\n", asset.Symbol, asset.ID)
			}
		case "update":
			if _, err = a.client.UpdateAsset(ctx, c.id, in); err == nil {
				fmt.Printf("Updated asset %d\n", c.id)
			}
		case "delete":
			if err = a.client.DeleteAsset(ctx, c.id); err == nil {
				fmt.Printf("Deleted asset %d\n", c.id)
			}
		}
		if err != nil {
			return report(action+" asset", err)
		}
		return subcommands.ExitSuccess
	})
}

// txCmd holds the flags for the 'tx' subcommand.
type txCmd struct {
	id          int64
	limit       int
	amount      float64
	category    string
	custom      string
	kind        string
	description string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list, add, or delete transactions" }
func (*txCmd) Usage() string {
	return `finweb tx [-limit <n>] list
finweb tx -amount <amount> -category <category> [-custom <name>] [-type income|expense] [-d <description>] add
finweb tx -id <id> delete

  Records income and expenses. Use -category Other with -custom for a
  category of your own.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "Id of the transaction to delete")
	f.IntVar(&c.limit, "limit", api.DefaultLimit, "Number of transactions to list")
	f.Float64Var(&c.amount, "amount", 0, "Amount in rupees")
	f.StringVar(&c.category, "category", "", "Category of the transaction")
	f.StringVar(&c.custom, "custom", "", "Category name when -category is Other")
	f.StringVar(&c.kind, "type", api.Expense, "income or expense")
	f.StringVar(&c.description, "d", "", "Description")
}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	switch f.Arg(0) {
	case "list":
		return run(c.list)
	case "add":
		in, err := api.NewTransactionInput(c.amount, c.category, c.custom, c.kind, c.description)
		if err != nil || c.amount <= 0 {
			fmt.Fprintln(os.Stderr, "Error: -amount and -category are required")
			return subcommands.ExitUsageError
		}
		return run(func(a *app) subcommands.ExitStatus { return c.add(a, in) })
	case "delete":
		if c.id <= 0 {
			fmt.Fprintln(os.Stderr, "Error: -id is required")
			return subcommands.ExitUsageError
		}
		return run(c.delete)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown action %q\n", f.Arg(0))
		return subcommands.ExitUsageError
	}
}

func (c *txCmd) list(a *app) subcommands.ExitStatus {
	ctx, cancel := a.deadline()
	defer cancel()

	list, err := a.client.Transactions(ctx, c.limit)
	if err != nil {
		return report("listing transactions", err)
	}

	printMarkdown(transactionsMarkdown(list))
	return subcommands.ExitSuccess
}

func (c *txCmd) add(a *app, in api.TransactionInput) subcommands.ExitStatus {
	ctx, cancel := a.deadline()
	defer cancel()

	t, err := a.client.CreateTransaction(ctx, in)
	if err != nil {
		return report("adding transaction", err)
	}

	fmt.Printf("Recorded %s %s as transaction %d\n", t.Category, market.FormatINR(t.Amount, 2), t.ID)
	return subcommands.ExitSuccess
}

func (c *txCmd) delete(a *app) subcommands.ExitStatus {
	ctx, cancel := a.deadline()
	defer cancel()

	if err := a.client.DeleteTransaction(ctx, c.id); err != nil {
		return report("deleting transaction", err)
	}

	fmt.Printf("Deleted transaction %d\n", c.id)
	return subcommands.ExitSuccess
}
