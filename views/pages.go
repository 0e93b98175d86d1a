package views

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"cattlecloud.net/go/finweb"
	"cattlecloud.net/go/finweb/api"
	"cattlecloud.net/go/finweb/market"
	"github.com/shoenig/go-conceal"
)

var errInput = errors.New("views: invalid form input")

func number(r *http.Request, field string) (float64, error) {
	value := strings.TrimSpace(r.PostFormValue(field))
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", errInput, field)
	}
	return f, nil
}

func identifier(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad id %q", errInput, value)
	}
	return id, nil
}

func (s *Server) nonce() string {
	return s.mint.Create().Unveil()
}

func (s *Server) landing(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "landing", http.StatusOK, &page{Title: "AI Finance"})
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login", http.StatusOK, &page{Title: "Welcome Back", Nonce: s.nonce()})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	p := &page{Title: "Welcome Back", Email: email}

	visitor := finweb.VisitorOf(r)
	if !s.throttle.allow(visitor.Address) {
		p.Nonce = s.nonce()
		s.metrics.logins.WithLabelValues(loginThrottled).Inc()
		fields := []any{"request", requestID(r)}
		s.log.Warn("too many sign in attempts", append(fields, visitor.Fields()...)...)
		p.Error = "Too many attempts. Wait a minute and try again."
		s.render(w, r, "login", http.StatusTooManyRequests, p)
		return
	}

	if err := s.mint.Check(r); err != nil {
		p.Nonce = s.nonce()
		s.fail(w, r, "login", p, err, "This form has expired, please try again.")
		return
	}

	creds := api.Credentials{
		Identifier: email,
		Secret:     conceal.New(r.PostFormValue("password")),
	}
	if err := s.auth.Login(r.Context(), creds); err != nil {
		outcome := loginFailed
		if errors.Is(err, api.ErrCredentials) {
			outcome = loginRejected
		}
		s.metrics.logins.WithLabelValues(outcome).Inc()
		p.Nonce = s.nonce()
		s.fail(w, r, "login", p, err, "Login failed. Try again.")
		return
	}

	s.metrics.logins.WithLabelValues(loginSuccess).Inc()
	s.redirect(w, r, s.destination)
}

func (s *Server) registerPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "register", http.StatusOK, &page{Title: "Create Account", Nonce: s.nonce()})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	p := &page{Title: "Create Account", Email: email}

	if err := s.mint.Check(r); err != nil {
		p.Nonce = s.nonce()
		s.fail(w, r, "register", p, err, "This form has expired, please try again.")
		return
	}

	err := s.client.Register(r.Context(), api.Registration{
		FullName: strings.TrimSpace(r.PostFormValue("full_name")),
		Email:    email,
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		p.Nonce = s.nonce()
		s.fail(w, r, "register", p, err, "Registration failed. Try again.")
		return
	}

	s.redirect(w, r, "/login")
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.auth.Logout()
	s.redirect(w, r, s.fallback)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	p := &page{Title: "Dashboard", Open: market.IsOpen(s.clock())}

	d, err := s.client.Dashboard(r.Context())
	if err != nil {
		s.fail(w, r, "dashboard", p, err, "Could not load the dashboard.")
		return
	}

	p.Dashboard = d
	s.render(w, r, "dashboard", http.StatusOK, p)
}

func (s *Server) portfolio(w http.ResponseWriter, r *http.Request) {
	p := &page{Title: "Portfolio"}

	perf, err := s.client.Performance(r.Context())
	if err != nil {
		s.fail(w, r, "portfolio", p, err, "Could not load the portfolio.")
		return
	}
	p.Performance = perf

	if edit := r.URL.Query().Get("edit"); edit != "" {
		for i := range perf.Holdings {
			if strconv.FormatInt(perf.Holdings[i].ID, 10) == edit {
				p.Editing = &perf.Holdings[i]
			}
		}
	}

	s.render(w, r, "portfolio", http.StatusOK, p)
}

func (s *Server) saveAsset(w http.ResponseWriter, r *http.Request) {
	err := s.storeAsset(r)
	if err != nil {
		p := &page{Title: "Portfolio"}
		// best effort, so the table is still there next to the error
		p.Performance, _ = s.client.Performance(r.Context())
		s.fail(w, r, "portfolio", p, err, "Could not save the asset.")
		return
	}
	s.redirect(w, r, "/portfolio")
}

func (s *Server) storeAsset(r *http.Request) error {
	quantity, err := number(r, "quantity")
	if err != nil {
		return err
	}
	price, err := number(r, "buy_price")
	if err != nil {
		return err
	}

	in := api.AssetInput{
		Symbol:   r.PostFormValue("symbol"),
		Quantity: quantity,
		BuyPrice: price,
	}

	id := r.PostFormValue("id")
	if id == "" {
		_, err = s.client.CreateAsset(r.Context(), in)
		return err
	}

	n, err := identifier(id)
	if err != nil {
		return err
	}
	_, err = s.client.UpdateAsset(r.Context(), n, in)
	return err
}

func (s *Server) deleteAsset(w http.ResponseWriter, r *http.Request) {
	id, err := identifier(r.PathValue("id"))
	if err == nil {
		err = s.client.DeleteAsset(r.Context(), id)
	}
	if err != nil {
		p := &page{Title: "Portfolio"}
		p.Performance, _ = s.client.Performance(r.Context())
		s.fail(w, r, "portfolio", p, err, "Could not delete the asset.")
		return
	}
	s.redirect(w, r, "/portfolio")
}

func (s *Server) transactions(w http.ResponseWriter, r *http.Request) {
	p := &page{Title: "Transactions", Categories: api.Categories}

	list, err := s.client.Transactions(r.Context(), api.DefaultLimit)
	if err != nil {
		s.fail(w, r, "transactions", p, err, "Could not load transactions.")
		return
	}

	p.Transactions = list
	s.render(w, r, "transactions", http.StatusOK, p)
}

func (s *Server) addTransaction(w http.ResponseWriter, r *http.Request) {
	err := s.recordTransaction(r)
	if err != nil {
		p := &page{Title: "Transactions", Categories: api.Categories}
		p.Transactions, _ = s.client.Transactions(r.Context(), api.DefaultLimit)
		s.fail(w, r, "transactions", p, err, "Could not add the transaction.")
		return
	}
	s.redirect(w, r, "/transactions")
}

func (s *Server) recordTransaction(r *http.Request) error {
	amount, err := number(r, "amount")
	if err != nil {
		return err
	}

	in, err := api.NewTransactionInput(
		amount,
		r.PostFormValue("category"),
		r.PostFormValue("custom_category"),
		r.PostFormValue("type"),
		strings.TrimSpace(r.PostFormValue("description")),
	)
	if err != nil {
		return err
	}

	_, err = s.client.CreateTransaction(r.Context(), in)
	return err
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := identifier(r.PathValue("id"))
	if err == nil {
		err = s.client.DeleteTransaction(r.Context(), id)
	}
	if err != nil {
		p := &page{Title: "Transactions", Categories: api.Categories}
		p.Transactions, _ = s.client.Transactions(r.Context(), api.DefaultLimit)
		s.fail(w, r, "transactions", p, err, "Could not delete the transaction.")
		return
	}
	s.redirect(w, r, "/transactions")
}

func (s *Server) predictor(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	p := &page{
		Title:   "AI Stock Predictor",
		Periods: api.Periods,
		Symbol:  strings.TrimSpace(query.Get("symbol")),
		Period:  query.Get("period"),
	}
	if p.Period == "" {
		p.Period = api.DefaultPeriod
	}

	if p.Symbol == "" {
		s.render(w, r, "predictor", http.StatusOK, p)
		return
	}

	prediction, err := s.client.Predict(r.Context(), p.Symbol, p.Period)
	if err != nil {
		s.fail(w, r, "predictor", p, err, "Prediction failed. Check the symbol and try again.")
		return
	}

	p.Prediction = prediction
	s.render(w, r, "predictor", http.StatusOK, p)
}

func (s *Server) advisor(w http.ResponseWriter, r *http.Request) {
	advice := api.DefaultAdvisorRequest()
	s.render(w, r, "advisor", http.StatusOK, &page{Title: "AI Wealth Advisor", Advice: &advice})
}

func (s *Server) advise(w http.ResponseWriter, r *http.Request) {
	advice, err := adviceForm(r)
	p := &page{Title: "AI Wealth Advisor", Advice: &advice}
	if err == nil {
		p.Plan, err = s.client.Recommend(r.Context(), advice)
	}
	if err != nil {
		s.fail(w, r, "advisor", p, err, "Could not generate a plan.")
		return
	}
	s.render(w, r, "advisor", http.StatusOK, p)
}

func adviceForm(r *http.Request) (api.AdvisorRequest, error) {
	advice := api.DefaultAdvisorRequest()
	advice.RiskAppetite = r.PostFormValue("risk_appetite")

	var err error
	if advice.MonthlyIncome, err = number(r, "monthly_income"); err != nil {
		return advice, err
	}
	if advice.InvestableAmount, err = number(r, "investable_amount"); err != nil {
		return advice, err
	}
	if advice.TargetAmount, err = number(r, "target_amount"); err != nil {
		return advice, err
	}

	years, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("time_horizon_years")))
	if err != nil || years <= 0 {
		return advice, fmt.Errorf("%w: time horizon must be a whole number of years", errInput)
	}
	advice.TimeHorizonYears = years
	return advice, nil
}

func (s *Server) chatPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "chat", http.StatusOK, &page{Title: "AI Financial Assistant", Messages: s.conversation()})
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	question := strings.TrimSpace(r.PostFormValue("question"))
	if question == "" {
		s.redirect(w, r, "/chat")
		return
	}

	reply, err := s.client.Chat(r.Context(), question)
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		s.redirect(w, r, s.fallback)
		return
	case err != nil:
		s.log.Warn("chat failed", "request", requestID(r), "error", err)
		s.say(
			message{Sender: "user", Text: question},
			message{Sender: "bot", Text: api.Message(err, "Failed to connect to AI server."), Failed: true},
		)
	default:
		s.say(
			message{Sender: "user", Text: question},
			message{Sender: "bot", Text: reply},
		)
	}

	s.redirect(w, r, "/chat")
}
