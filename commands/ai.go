package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"cattlecloud.net/go/finweb/api"
	"github.com/google/subcommands"
)

type predictCmd struct {
	period string
}

func (*predictCmd) Name() string     { return "predict" }
func (*predictCmd) Synopsis() string { return "ask the AI predictor for a trading signal" }
func (*predictCmd) Usage() string {
	return `finweb predict [-period <period>] <symbol>

  Analyzes the symbol over the period (one of ` + strings.Join(api.Periods, ", ") + `).
`
}

func (c *predictCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", api.DefaultPeriod, "Period to analyze")
}

func (c *predictCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	return run(func(a *app) subcommands.ExitStatus {
		ctx, cancel := a.deadline()
		defer cancel()

		p, err := a.client.Predict(ctx, f.Arg(0), c.period)
		if err != nil {
			return report("predicting", err)
		}

		printMarkdown(predictionMarkdown(p))
		return subcommands.ExitSuccess
	})
}

// adviseCmd holds the flags for the 'advise' subcommand.
type adviseCmd struct {
	request api.AdvisorRequest
}

func (*adviseCmd) Name() string     { return "advise" }
func (*adviseCmd) Synopsis() string { return "get an investment plan from the robo-advisor" }
func (*adviseCmd) Usage() string {
	return `finweb advise [-income <n>] [-invest <n>] [-risk low|medium|high] [-target <n>] [-years <n>]

  Asks for a plan reaching the target amount within the time horizon.
`
}

func (c *adviseCmd) SetFlags(f *flag.FlagSet) {
	defaults := api.DefaultAdvisorRequest()
	f.Float64Var(&c.request.MonthlyIncome, "income", defaults.MonthlyIncome, "Monthly income")
	f.Float64Var(&c.request.InvestableAmount, "invest", defaults.InvestableAmount, "Amount available to invest every month")
	f.StringVar(&c.request.RiskAppetite, "risk", defaults.RiskAppetite, "Risk appetite: low, medium, or high")
	f.Float64Var(&c.request.TargetAmount, "target", defaults.TargetAmount, "Target amount")
	f.IntVar(&c.request.TimeHorizonYears, "years", defaults.TimeHorizonYears, "Time horizon in years")
}

func (c *adviseCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.request.TimeHorizonYears <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -years must be positive")
		return subcommands.ExitUsageError
	}

	return run(func(a *app) subcommands.ExitStatus {
		ctx, cancel := a.deadline()
		defer cancel()

		plan, err := a.client.Recommend(ctx, c.request)
		if err != nil {
			return report("generating plan", err)
		}

		printMarkdown(planMarkdown(plan))
		return subcommands.ExitSuccess
	})
}

type chatCmd struct{}

func (*chatCmd) Name() string     { return "chat" }
func (*chatCmd) Synopsis() string { return "talk to the AI financial assistant" }
func (*chatCmd) Usage() string {
	return `finweb chat [question]

  Asks a single question, or starts a conversation reading one question
  per line from stdin when none is given.
`
}

func (*chatCmd) SetFlags(_ *flag.FlagSet) {}

func (*chatCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	return run(func(a *app) subcommands.ExitStatus {
		if f.NArg() > 0 {
			return ask(a, strings.Join(f.Args(), " "))
		}

		fmt.Println("Hello! I have access to your portfolio and recent transactions. Ask me for advice!")
		return converse(a, os.Stdin)
	})
}

func converse(a *app, in io.Reader) subcommands.ExitStatus {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return subcommands.ExitSuccess
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}

		if status := ask(a, question); status != subcommands.ExitSuccess {
			if !a.manager.Session().Active() {
				return status
			}
		}
	}
}

func ask(a *app, question string) subcommands.ExitStatus {
	ctx, cancel := a.deadline()
	defer cancel()

	reply, err := a.client.Chat(ctx, question)
	if err != nil {
		return report("asking", err)
	}

	printMarkdown(reply)
	return subcommands.ExitSuccess
}
