package commands

import (
	"fmt"
	"strings"

	"cattlecloud.net/go/finweb/api"
	"cattlecloud.net/go/finweb/market"
)

func dashboardMarkdown(d *api.Dashboard, open bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Welcome back, %s\n\n", d.UserName)
	if open {
		b.WriteString("_Live Market Open_\n\n")
	} else {
		b.WriteString("_Market Closed_\n\n")
	}

	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Portfolio Value | %s (%s) |\n", market.FormatINR(d.PortfolioValue, 0), market.FormatPercent(d.ProfitPercent))
	fmt.Fprintf(&b, "| Total Profit | %s |\n", market.FormatINR(d.TotalProfit, 0))
	fmt.Fprintf(&b, "| Active Holdings | %d Stocks |\n", d.ActiveCount)

	if len(d.ChartData) > 0 {
		b.WriteString("\n## Growth\n\n| Month | Value |\n|---|---:|\n")
		for _, point := range d.ChartData {
			fmt.Fprintf(&b, "| %s | %s |\n", point.Name, market.FormatINR(point.Value, 0))
		}
	}
	return b.String()
}

func performanceMarkdown(p *api.Performance) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Portfolio %s\n\n", market.FormatINR(p.TotalPortfolioValue, 2))
	if len(p.Holdings) == 0 {
		b.WriteString("No assets yet, add one with: finweb assets add\n")
		return b.String()
	}

	b.WriteString("| Id | Symbol | Qty | Buy | Current | Value | P/L |\n")
	b.WriteString("|---:|---|---:|---:|---:|---:|---:|\n")
	for _, h := range p.Holdings {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s |\n",
			h.ID,
			h.Symbol,
			h.Quantity,
			market.FormatINR(h.BuyPrice, 2),
			market.FormatINR(h.CurrentPrice, 2),
			market.FormatINR(h.TotalValue, 2),
			market.FormatINR(h.ProfitLoss, 2),
		)
	}
	return b.String()
}

func transactionsMarkdown(list []api.Transaction) string {
	if len(list) == 0 {
		return "No transactions yet.\n"
	}

	var b strings.Builder
	b.WriteString("| Id | Date | Category | Amount | Description |\n")
	b.WriteString("|---:|---|---|---:|---|\n")
	for _, t := range list {
		date := t.Date
		if when, ok := t.When(); ok {
			date = when.Format("2/1/2006")
		}
		sign := "-"
		if t.Type == api.Income {
			sign = "+"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s%s | %s |\n",
			t.ID, date, t.Category, sign, market.FormatINR(t.Amount, 2), t.Description)
	}
	return b.String()
}

func predictionMarkdown(p *api.Prediction) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s · %s\n\n", p.Symbol, p.PeriodAnalyzed)
	fmt.Fprintf(&b, "**%s** (%s confidence)\n\n", p.Signal, p.Confidence)
	b.WriteString("| | |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Current | %s |\n", market.FormatINR(p.CurrentPrice, 2))
	fmt.Fprintf(&b, "| Target | %s |\n", market.FormatINR(p.PredictedTarget, 2))
	fmt.Fprintf(&b, "| Stop Loss | %s |\n", market.FormatINR(p.StopLoss, 2))
	fmt.Fprintf(&b, "| RSI | %s |\n", p.RSI.StringFixed(2))
	return b.String()
}

func planMarkdown(p *api.Plan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", p.Projection.Status)
	fmt.Fprintf(&b, "%s Projected corpus: **%s**", p.Projection.Message, market.FormatINR(p.Projection.ProjectedCorpus, 0))
	if p.Timeline != "" {
		fmt.Fprintf(&b, " in %s", p.Timeline)
	}
	b.WriteString(".\n\n")

	if len(p.ImmediateAction) > 0 {
		b.WriteString("## Every month\n\n")
		for _, action := range p.ImmediateAction {
			fmt.Fprintf(&b, "- **%s** %s: %s", action.Instrument, action.Name, market.FormatINR(action.AmountPerMonth, 0))
			if action.Details != "" {
				fmt.Fprintf(&b, " (%s)", action.Details)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if p.FutureStrategy != "" {
		b.WriteString("## Strategy\n\n")
		b.WriteString(p.FutureStrategy)
		b.WriteString("\n")
	}
	return b.String()
}
