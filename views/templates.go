package views

import (
	"bytes"
	"html/template"

	"cattlecloud.net/go/finweb/api"
	"cattlecloud.net/go/finweb/market"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
)

const layout = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}} · finweb</title></head>
<body>
{{if .Active}}<nav>
<a href="/dashboard">Dashboard</a> <a href="/portfolio">Portfolio</a>
<a href="/transactions">Transactions</a> <a href="/predictor">Predictor</a>
<a href="/advisor">Advisor</a> <a href="/chat">Chat</a>
<form method="post" action="/logout" style="display:inline"><button>Log out</button></form>
</nav>{{end}}
<main>
<h1>{{.Title}}</h1>
{{if .Error}}<p class="error" role="alert">{{.Error}}</p>{{end}}
{{template "content" .}}
</main>
</body>
</html>
`

var pages = map[string]string{
	"landing": `{{define "content"}}
<p>Track your portfolio, record transactions, and get AI driven advice.</p>
<p><a href="/login">Log in</a> or <a href="/register">create an account</a>.</p>
{{end}}`,

	"login": `{{define "content"}}
<form method="post" action="/login">
<input type="hidden" name="nonce" value="{{.Nonce}}">
<label>Email <input type="email" name="email" value="{{.Email}}" required></label>
<label>Password <input type="password" name="password" required></label>
<button>Log In</button>
</form>
<p>Don't have an account? <a href="/register">Register</a></p>
{{end}}`,

	"register": `{{define "content"}}
<form method="post" action="/register">
<input type="hidden" name="nonce" value="{{.Nonce}}">
<label>Full Name <input type="text" name="full_name" required></label>
<label>Email Address <input type="email" name="email" value="{{.Email}}" required></label>
<label>Password <input type="password" name="password" required></label>
<button>Sign Up</button>
</form>
<p>Already have an account? <a href="/login">Log In</a></p>
{{end}}`,

	"dashboard": `{{define "content"}}
<p class="market">{{if .Open}}Live Market Open{{else}}Market Closed{{end}}</p>
{{with .Dashboard}}
<p>Welcome back, {{.UserName}}</p>
<dl>
<dt>Portfolio Value</dt><dd>{{inr .PortfolioValue}} ({{percent .ProfitPercent}})</dd>
<dt>Total Profit</dt><dd>{{inr .TotalProfit}}</dd>
<dt>Active Holdings</dt><dd>{{.ActiveCount}} Stocks</dd>
</dl>
<table>{{range .ChartData}}<tr><td>{{.Name}}</td><td>{{inr .Value}}</td></tr>{{end}}</table>
{{end}}
{{end}}`,

	"portfolio": `{{define "content"}}
{{with .Performance}}<p>Total Portfolio Value: {{inr2 .TotalPortfolioValue}}</p>{{end}}
<form method="post" action="/portfolio">
{{with .Editing}}<input type="hidden" name="id" value="{{.ID}}">{{end}}
<label>Symbol <input name="symbol" value="{{with .Editing}}{{.Symbol}}{{end}}" required></label>
<label>Quantity <input name="quantity" value="{{with .Editing}}{{.Quantity}}{{end}}" required></label>
<label>Buy Price <input name="buy_price" value="{{with .Editing}}{{.BuyPrice}}{{end}}" required></label>
<button>{{if .Editing}}Update Asset{{else}}Add Asset{{end}}</button>
{{if .Editing}}<a href="/portfolio">Cancel</a>{{end}}
</form>
<table>
<tr><th>Symbol</th><th>Qty</th><th>Buy</th><th>Current</th><th>Value</th><th>P/L</th><th></th></tr>
{{with .Performance}}{{range .Holdings}}<tr>
<td>{{.Symbol}}</td><td>{{.Quantity}}</td><td>{{inr2 .BuyPrice}}</td><td>{{inr2 .CurrentPrice}}</td>
<td>{{inr2 .TotalValue}}</td><td>{{inr2 .ProfitLoss}}</td>
<td><a href="/portfolio?edit={{.ID}}">Edit</a>
<form method="post" action="/portfolio/{{.ID}}/delete" style="display:inline"><button>Delete</button></form></td>
</tr>{{else}}<tr><td colspan="7">No assets yet.</td></tr>{{end}}{{end}}
</table>
{{end}}`,

	"transactions": `{{define "content"}}
<form method="post" action="/transactions">
<label>Amount <input name="amount" required></label>
<label>Category <select name="category">{{range .Categories}}<option>{{.}}</option>{{end}}</select></label>
<label>Custom Category <input name="custom_category"></label>
<label>Type <select name="type"><option value="expense">Expense</option><option value="income">Income</option></select></label>
<label>Description <input name="description"></label>
<button>Add Transaction</button>
</form>
<ul>{{range .Transactions}}
<li>{{.Category}} {{date .}} {{if eq .Type "income"}}+{{else}}-{{end}}{{inr2 .Amount}}
<form method="post" action="/transactions/{{.ID}}/delete" style="display:inline"><button>Delete</button></form></li>
{{else}}<li>No transactions yet.</li>{{end}}</ul>
{{end}}`,

	"predictor": `{{define "content"}}
<form method="get" action="/predictor">
<label>Symbol <input name="symbol" value="{{.Symbol}}"></label>
<label>Period <select name="period">{{range .Periods}}<option{{if eq . $.Period}} selected{{end}}>{{.}}</option>{{end}}</select></label>
<button>Predict</button>
</form>
{{with .Prediction}}
<h2>{{.Symbol}} <small>{{.PeriodAnalyzed}}</small></h2>
<p class="signal">{{.Signal}}</p>
<dl>
<dt>Target</dt><dd>{{inr2 .PredictedTarget}}</dd>
<dt>Current</dt><dd>{{inr2 .CurrentPrice}}</dd>
<dt>Stop Loss</dt><dd>{{inr2 .StopLoss}}</dd>
<dt>RSI</dt><dd>{{.RSI}}</dd>
<dt>Confidence</dt><dd>{{.Confidence}}</dd>
</dl>
{{end}}
{{end}}`,

	"advisor": `{{define "content"}}
{{with .Advice}}<form method="post" action="/advisor">
<label>Monthly Income <input name="monthly_income" value="{{.MonthlyIncome}}"></label>
<label>Investable Amount <input name="investable_amount" value="{{.InvestableAmount}}"></label>
<label>Risk Appetite <select name="risk_appetite">
<option value="low"{{if eq .RiskAppetite "low"}} selected{{end}}>Low (Safe)</option>
<option value="medium"{{if eq .RiskAppetite "medium"}} selected{{end}}>Medium</option>
<option value="high"{{if eq .RiskAppetite "high"}} selected{{end}}>High (Aggressive)</option>
</select></label>
<label>Target Amount <input name="target_amount" value="{{.TargetAmount}}"></label>
<label>Time Horizon (years) <input name="time_horizon_years" value="{{.TimeHorizonYears}}"></label>
<button>Generate Plan</button>
</form>{{end}}
{{with .Plan}}
<h2>{{.Projection.Status}}</h2>
<p>{{.Projection.Message}} Projected Corpus: {{inr .Projection.ProjectedCorpus}}</p>
<ul>{{range .ImmediateAction}}<li><b>{{.Instrument}}</b> {{.Name}}: {{inr .AmountPerMonth}}/month <small>{{.Details}}</small></li>{{end}}</ul>
<section class="strategy">{{markdown .FutureStrategy}}</section>
{{end}}
{{end}}`,

	"chat": `{{define "content"}}
<ol class="messages">{{range .Messages}}<li class="{{.Sender}}{{if .Failed}} error{{end}}">{{.Text}}</li>{{end}}</ol>
<form method="post" action="/chat">
<input name="question" placeholder="Ask about your finances" required>
<button>Send</button>
</form>
{{end}}`,
}

var funcs = template.FuncMap{
	"inr":      func(d decimal.Decimal) string { return market.FormatINR(d, 0) },
	"inr2":     func(d decimal.Decimal) string { return market.FormatINR(d, 2) },
	"percent":  market.FormatPercent,
	"markdown": markdown,
	"date": func(t api.Transaction) string {
		when, ok := t.When()
		if !ok {
			return t.Date
		}
		return when.Format("2/1/2006")
	},
}

// markdown renders the advisor strategy. goldmark drops raw HTML unless told
// otherwise, so the result is safe to embed.
func markdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(buf.String())
}

func parse() map[string]*template.Template {
	base := template.Must(template.New("layout").Funcs(funcs).Parse(layout))

	parsed := make(map[string]*template.Template, len(pages))
	for name, text := range pages {
		parsed[name] = template.Must(template.Must(base.Clone()).Parse(text))
	}
	return parsed
}
