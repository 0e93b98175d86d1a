package api

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// DefaultLimit is the number of transactions listed when none is requested.
const DefaultLimit = 50

func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	result := new(Dashboard)
	cl, _ := c.jsonCall(http.MethodGet, "/dashboard", nil, result)
	if err := c.do(ctx, cl); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) Performance(ctx context.Context) (*Performance, error) {
	result := new(Performance)
	cl, _ := c.jsonCall(http.MethodGet, "/portfolio/performance", nil, result)
	if err := c.do(ctx, cl); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) CreateAsset(ctx context.Context, in AssetInput) (*Asset, error) {
	result := new(Asset)
	cl, err := c.jsonCall(http.MethodPost, "/assets/", in.normalize(), result)
	if err != nil {
		return nil, err
	}
	if err := c.do(ctx, cl); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) UpdateAsset(ctx context.Context, id int64, in AssetInput) (*Asset, error) {
	result := new(Asset)
	cl, err := c.jsonCall(http.MethodPut, "/assets/"+strconv.FormatInt(id, 10), in.normalize(), result)
	if err != nil {
		return nil, err
	}
	if err := c.do(ctx, cl); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) DeleteAsset(ctx context.Context, id int64) error {
	cl, _ := c.jsonCall(http.MethodDelete, "/assets/"+strconv.FormatInt(id, 10), nil, nil)
	return c.do(ctx, cl)
}

// Transactions lists the most recent transactions, at most limit of them.
func (c *Client) Transactions(ctx context.Context, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var result []Transaction
	cl, _ := c.jsonCall(http.MethodGet, "/transactions/", nil, &result)
	cl.params = map[string]string{"limit": strconv.Itoa(limit)}
	if err := c.do(ctx, cl); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) CreateTransaction(ctx context.Context, in TransactionInput) (*Transaction, error) {
	if strings.TrimSpace(in.Category) == "" {
		return nil, ErrNoCategory
	}

	result := new(Transaction)
	cl, err := c.jsonCall(http.MethodPost, "/transactions/", in, result)
	if err != nil {
		return nil, err
	}
	if err := c.do(ctx, cl); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	cl, _ := c.jsonCall(http.MethodDelete, "/transactions/"+strconv.FormatInt(id, 10), nil, nil)
	return c.do(ctx, cl)
}

// Predict asks for a trading signal on symbol over period. An error reported
// inside a 200 answer is returned as ErrPrediction.
func (c *Client) Predict(ctx context.Context, symbol, period string) (*Prediction, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrNoSymbol
	}
	if period == "" {
		period = DefaultPeriod
	}
	if !slices.Contains(Periods, period) {
		return nil, fmt.Errorf("%w: %q", ErrPeriod, period)
	}

	result := new(Prediction)
	cl, err := c.jsonCall(http.MethodPost, "/predict/intraday", PredictionRequest{Symbol: symbol, Period: period}, result)
	if err != nil {
		return nil, err
	}
	if err := c.do(ctx, cl); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrPrediction, result.Error)
	}
	return result, nil
}

// Recommend asks the robo-advisor for an investment plan.
func (c *Client) Recommend(ctx context.Context, in AdvisorRequest) (*Plan, error) {
	switch in.RiskAppetite {
	case RiskLow, RiskMedium, RiskHigh:
	default:
		return nil, fmt.Errorf("%w: %q", ErrRisk, in.RiskAppetite)
	}

	result := new(Plan)
	cl, err := c.jsonCall(http.MethodPost, "/recommend/portfolio", in, result)
	if err != nil {
		return nil, err
	}
	if err := c.do(ctx, cl); err != nil {
		return nil, err
	}
	return result, nil
}

// Chat asks the assistant a question about the user's finances.
func (c *Client) Chat(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	result := new(chatReply)
	cl, err := c.jsonCall(http.MethodPost, "/chat", chatRequest{Question: question}, result)
	if err != nil {
		return "", err
	}
	if err := c.do(ctx, cl); err != nil {
		return "", err
	}
	return result.Response, nil
}
