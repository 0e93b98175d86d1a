package api

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Dashboard is the summary shown on the landing page of a signed in user.
type Dashboard struct {
	UserName       string          `json:"user_name"`
	PortfolioValue decimal.Decimal `json:"portfolio_value"`
	TotalProfit    decimal.Decimal `json:"total_profit"`
	ProfitPercent  decimal.Decimal `json:"profit_percent"`
	ActiveCount    int             `json:"active_count"`
	ChartData      []ChartPoint    `json:"chart_data"`
}

type ChartPoint struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// Performance is the valuation of every holding at current market prices.
type Performance struct {
	TotalPortfolioValue decimal.Decimal `json:"total_portfolio_value"`
	TotalInvested       decimal.Decimal `json:"total_invested"`
	TotalProfitLoss     decimal.Decimal `json:"total_profit_loss"`
	Holdings            []Holding       `json:"holdings"`
}

type Holding struct {
	ID           int64           `json:"id"`
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	BuyPrice     decimal.Decimal `json:"buy_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	TotalValue   decimal.Decimal `json:"total_value"`
	ProfitLoss   decimal.Decimal `json:"profit_loss"`
}

// AssetInput adds or edits a holding. Numbers are sent as JSON numbers, the
// way the API's float fields expect them.
type AssetInput struct {
	Symbol    string  `json:"symbol"`
	Quantity  float64 `json:"quantity"`
	BuyPrice  float64 `json:"buy_price"`
	AssetType string  `json:"asset_type"`
}

func (a AssetInput) normalize() AssetInput {
	a.Symbol = strings.ToUpper(strings.TrimSpace(a.Symbol))
	if a.AssetType == "" {
		a.AssetType = "stock"
	}
	return a
}

type Asset struct {
	ID        int64           `json:"id"`
	Symbol    string          `json:"symbol"`
	Quantity  decimal.Decimal `json:"quantity"`
	BuyPrice  decimal.Decimal `json:"buy_price"`
	AssetType string          `json:"asset_type"`
}

// Transaction kinds.
const (
	Income  = "income"
	Expense = "expense"
)

// OtherCategory is the category whose real name is typed in by the user.
const OtherCategory = "Other"

// Categories offered when recording a transaction.
var Categories = []string{
	"Food", "Transport", "Salary", "Entertainment", "Utilities",
	"Rent", "Shopping", "Health", OtherCategory,
}

type Transaction struct {
	ID          int64           `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

// When parses the transaction date, which the API may send with or without
// a zone offset.
func (t Transaction) When() (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02"} {
		if when, err := time.Parse(layout, t.Date); err == nil {
			return when, true
		}
	}
	return time.Time{}, false
}

type TransactionInput struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
}

// NewTransactionInput resolves the category picked from Categories, using
// custom when the pick is OtherCategory.
func NewTransactionInput(amount float64, category, custom, kind, description string) (TransactionInput, error) {
	if category == OtherCategory {
		category = custom
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return TransactionInput{}, ErrNoCategory
	}
	if kind != Income {
		kind = Expense
	}
	return TransactionInput{
		Amount:      amount,
		Category:    category,
		Type:        kind,
		Description: description,
	}, nil
}

// Periods the predictor can analyze, longest first.
var Periods = []string{"1yr", "6mo", "3mo", "1mo", "7d"}

// DefaultPeriod is used when no period is requested.
const DefaultPeriod = "1yr"

type PredictionRequest struct {
	Symbol string `json:"symbol"`
	Period string `json:"period"`
}

type Prediction struct {
	Symbol          string          `json:"symbol"`
	PeriodAnalyzed  string          `json:"period_analyzed"`
	Signal          string          `json:"signal"`
	CurrentPrice    decimal.Decimal `json:"current_price"`
	PredictedTarget decimal.Decimal `json:"predicted_target"`
	StopLoss        decimal.Decimal `json:"stop_loss"`
	RSI             decimal.Decimal `json:"rsi"`
	Confidence      string          `json:"confidence"`
	Error           string          `json:"error,omitempty"`
}

// Buy reports whether the signal recommends buying.
func (p *Prediction) Buy() bool { return strings.Contains(p.Signal, "BUY") }

// Sell reports whether the signal recommends selling.
func (p *Prediction) Sell() bool { return strings.Contains(p.Signal, "SELL") }

// Risk appetites accepted by the advisor.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

type AdvisorRequest struct {
	MonthlyIncome    float64 `json:"monthly_income"`
	InvestableAmount float64 `json:"investable_amount"`
	RiskAppetite     string  `json:"risk_appetite"`
	TargetAmount     float64 `json:"target_amount"`
	TimeHorizonYears int     `json:"time_horizon_years"`
}

// DefaultAdvisorRequest holds the values the advisor form starts with.
func DefaultAdvisorRequest() AdvisorRequest {
	return AdvisorRequest{
		MonthlyIncome:    50000,
		InvestableAmount: 10000,
		RiskAppetite:     RiskMedium,
		TargetAmount:     500000,
		TimeHorizonYears: 3,
	}
}

type Plan struct {
	Timeline        string     `json:"timeline"`
	ImmediateAction []Action   `json:"immediate_action"`
	FutureStrategy  string     `json:"future_strategy"`
	Projection      Projection `json:"projection"`
}

type Action struct {
	Instrument     string          `json:"instrument"`
	Name           string          `json:"name"`
	AmountPerMonth decimal.Decimal `json:"amount_per_month"`
	Details        string          `json:"details"`
}

type Projection struct {
	ProjectedCorpus decimal.Decimal `json:"projected_corpus"`
	Status          string          `json:"status"`
	Message         string          `json:"message"`
}

// Achievable reports whether the target is reachable on the plan.
func (p Projection) Achievable() bool { return p.Status == "Achievable" }

type chatRequest struct {
	Question string `json:"question"`
}

type chatReply struct {
	Response string `json:"response"`
}
