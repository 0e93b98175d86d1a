package tokens

import (
	"io"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/shoenig/go-conceal"
)

// Open returns a Store persisted in the SQLite database at path and scoped to
// origin. If the database cannot be opened the returned Store is already
// degraded to memory; Open itself never fails.
func Open(path, origin string, log hclog.Logger) *Resilient {
	if log == nil {
		log = hclog.NewNullLogger()
	}

	durable, err := OpenDurable(path, origin)
	if err != nil {
		log.Warn("token storage unavailable, using memory", "path", path, "error", err)
		return &Resilient{
			lock:     new(sync.Mutex),
			memory:   NewVolatile(),
			degraded: true,
			log:      log,
		}
	}
	return NewResilient(durable, log)
}

// NewResilient wraps backend so that its failures degrade the Store to an
// in-memory slot instead of reaching the caller.
func NewResilient(backend Backend, log hclog.Logger) *Resilient {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Resilient{
		lock:    new(sync.Mutex),
		backend: backend,
		memory:  NewVolatile(),
		log:     log,
	}
}

// Resilient is the Store used by the session manager. Every write is mirrored
// into memory so that a backend failing mid-process loses nothing the current
// process already knows.
type Resilient struct {
	lock     *sync.Mutex
	backend  Backend
	memory   *Volatile
	degraded bool
	log      hclog.Logger
}

// Degraded reports whether durable storage has been abandoned.
func (r *Resilient) Degraded() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.degraded
}

func (r *Resilient) Get() (*conceal.Text, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if !r.degraded {
		token, exists, err := r.backend.Load()
		if err == nil {
			return token, exists
		}
		r.degrade(err)
	}

	return r.memory.Get()
}

func (r *Resilient) Set(token *conceal.Text) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.memory.Set(token)

	if !r.degraded {
		if err := r.backend.Save(token); err != nil {
			r.degrade(err)
		}
	}
}

func (r *Resilient) Clear() {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.memory.Clear()

	if !r.degraded {
		if err := r.backend.Delete(); err != nil {
			r.degrade(err)
		}
	}
}

// Close releases the durable backend, if it holds resources.
func (r *Resilient) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if closer, ok := r.backend.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// degrade must be called with the lock held.
func (r *Resilient) degrade(err error) {
	r.degraded = true
	r.log.Warn("token storage failed, continuing in memory", "error", err)
}
