// Package views serves the finance pages as server rendered HTML. Every page
// sits behind a PublicOnly or Protected guard fed by the session manager.
package views

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"sync"
	"time"

	"cattlecloud.net/go/finweb"
	"cattlecloud.net/go/finweb/api"
	"cattlecloud.net/go/finweb/middles"
	"cattlecloud.net/go/finweb/middles/nonces"
	"cattlecloud.net/go/finweb/session"
	"github.com/hashicorp/go-hclog"
)

// Authority signs the user in and out; implemented by *session.Manager.
type Authority interface {
	middles.Sessions
	Login(context.Context, api.Credentials) error
	Logout()
	Subscribe(func(session.Session)) func()
}

type Options struct {
	Authority   Authority
	Client      *api.Client
	Destination string
	Fallback    string
	Logger      hclog.Logger
	Clock       func() time.Time

	// Metrics defaults to unregistered counters.
	Metrics *Metrics

	// Attempts is the number of sign in attempts allowed per client per
	// minute, DefaultAttempts when zero.
	Attempts int

	// Proxied takes the client address from X-Forwarded-For. Set it only
	// behind a reverse proxy that rewrites the header.
	Proxied bool
}

// Greeting opens every chat conversation.
const Greeting = "Hello! I have access to your portfolio and recent transactions. Ask me for advice!"

// Server is the http.Handler of the finance pages.
type Server struct {
	auth        Authority
	client      *api.Client
	mint        nonces.Mint
	log         hclog.Logger
	clock       func() time.Time
	destination string
	fallback    string
	templates   map[string]*template.Template
	metrics     *Metrics
	throttle    *throttle
	proxied     bool
	handler     http.Handler
	unsubscribe func()

	lock    *sync.Mutex
	history []message
}

type message struct {
	Sender string
	Text   string
	Failed bool
}

func New(opts Options) *Server {
	s := &Server{
		auth:        opts.Authority,
		client:      opts.Client,
		log:         opts.Logger,
		clock:       opts.Clock,
		destination: opts.Destination,
		fallback:    opts.Fallback,
		templates:   parse(),
		metrics:     opts.Metrics,
		proxied:     opts.Proxied,
		lock:        new(sync.Mutex),
	}

	if s.log == nil {
		s.log = hclog.NewNullLogger()
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	if s.destination == "" {
		s.destination = "/dashboard"
	}
	if s.fallback == "" {
		s.fallback = "/login"
	}

	s.mint = nonces.New(nonces.DefaultTTL, s.clock)
	s.throttle = newThrottle(opts.Attempts, s.clock)

	s.reset()

	// the conversation belongs to whoever is signed in
	s.unsubscribe = s.auth.Subscribe(func(current session.Session) {
		if !current.Active() {
			s.reset()
		}
	})

	s.handler = &middles.SetSession{Sessions: s.auth, Next: s.routes()}
	return s
}

func (s *Server) routes() *http.ServeMux {
	public := func(h http.HandlerFunc) http.Handler {
		return &middles.PublicOnly{Destination: s.destination, Logger: s.log, Next: h}
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return &middles.Protected{Fallback: s.fallback, Logger: s.log, Next: h}
	}

	mux := http.NewServeMux()
	mux.Handle("GET /landing", public(s.landing))
	mux.Handle("GET /login", public(s.loginPage))
	mux.Handle("POST /login", public(s.login))
	mux.Handle("GET /register", public(s.registerPage))
	mux.Handle("POST /register", public(s.register))
	mux.HandleFunc("POST /logout", s.logout)

	mux.Handle("GET /{$}", protected(s.dashboard))
	mux.Handle("GET /dashboard", protected(s.dashboard))
	mux.Handle("GET /portfolio", protected(s.portfolio))
	mux.Handle("POST /portfolio", protected(s.saveAsset))
	mux.Handle("POST /portfolio/{id}/delete", protected(s.deleteAsset))
	mux.Handle("GET /transactions", protected(s.transactions))
	mux.Handle("POST /transactions", protected(s.addTransaction))
	mux.Handle("POST /transactions/{id}/delete", protected(s.deleteTransaction))
	mux.Handle("GET /predictor", protected(s.predictor))
	mux.Handle("GET /advisor", protected(s.advisor))
	mux.Handle("POST /advisor", protected(s.advise))
	mux.Handle("GET /chat", protected(s.chatPage))
	mux.Handle("POST /chat", protected(s.chat))
	return mux
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := newRequestID(s.clock())
	w.Header().Set(RequestHeader, id)
	r = finweb.WithVisitor(r, finweb.Visit(r, s.proxied))
	s.handler.ServeHTTP(w, withRequestID(r, id))
}

// Close stops listening for session changes.
func (s *Server) Close() {
	s.unsubscribe()
}

func (s *Server) reset() {
	s.lock.Lock()
	s.history = []message{{Sender: "bot", Text: Greeting}}
	s.lock.Unlock()
}

func (s *Server) conversation() []message {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]message(nil), s.history...)
}

func (s *Server) say(msgs ...message) {
	s.lock.Lock()
	s.history = append(s.history, msgs...)
	s.lock.Unlock()
}

// page is the data handed to every template.
type page struct {
	Title  string
	Active bool
	Error  string
	Nonce  string
	Email  string
	Open   bool

	Dashboard    *api.Dashboard
	Performance  *api.Performance
	Editing      *api.Holding
	Transactions []api.Transaction
	Categories   []string
	Prediction   *api.Prediction
	Periods      []string
	Symbol       string
	Period       string
	Advice       *api.AdvisorRequest
	Plan         *api.Plan
	Messages     []message
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, code int, p *page) {
	p.Active = middles.GetSession(r).Active()

	tmpl, exists := s.templates[name]
	if !exists {
		s.log.Error("no such template", "name", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.metrics.renders.WithLabelValues(name, strconv.Itoa(code)).Inc()

	finweb.SetContentType(w, finweb.ContentTypeHTML)
	finweb.SetNoStore(w)
	w.WriteHeader(code)
	if err := tmpl.Execute(w, p); err != nil {
		s.log.Error("failed to render page", "name", name, "error", err)
	}
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, location string) {
	finweb.SetNoStore(w)
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// fail renders the page with the error shown inline, unless the server
// rejected the token, in which case the session is already gone and the
// user is sent to sign in again.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, name string, p *page, err error, fallback string) {
	if errors.Is(err, api.ErrUnauthorized) {
		s.redirect(w, r, s.fallback)
		return
	}
	fields := []any{"page", name, "request", requestID(r), "error", err}
	s.log.Warn("request failed", append(fields, finweb.VisitorOf(r).Fields()...)...)
	p.Error = api.Message(err, fallback)
	s.render(w, r, name, statusOf(err), p)
}

var invalid = []error{
	api.ErrNoSymbol,
	api.ErrPeriod,
	api.ErrRisk,
	api.ErrEmptyQuestion,
	api.ErrNoCategory,
	api.ErrPrediction,
	errInput,
	nonces.ErrNonceNotValid,
}

func statusOf(err error) int {
	if errors.Is(err, api.ErrCredentials) {
		return http.StatusUnauthorized
	}
	for _, sentinel := range invalid {
		if errors.Is(err, sentinel) {
			return http.StatusBadRequest
		}
	}
	var se *api.StatusError
	if errors.As(err, &se) && se.Code < http.StatusInternalServerError {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}
