package confd

import (
	"context"
	"sync"
	"text/template"

	"golang.org/x/sync/errgroup"

	"github.com/aofei/confd/transport"
)

// Controller is the top-level struct of this daemon, wiring together the
// Store (entity A), Serializer (entity D), Compiler/Validator (entity C's
// collaborators), Transport (the router connection), and the ambient
// Config/Logger — the same "one struct, one New, one Serve" shape as the
// teacher's Air, generalized from an HTTP framework instance to a
// single-purpose controller daemon.
type Controller struct {
	Config *Config
	Logger *Logger

	Store      *Store
	Compiler   Compiler
	Validator  Validator
	Serializer *Serializer

	transport transport.Transport
	dedupe    *dedupeCache

	listener *listener

	shutdownOnce sync.Once
	closing      chan struct{}
}

// New returns a Controller configured by cfg. It does not yet listen or
// dial the router; call Serve for that.
func New(cfg *Config) *Controller {
	if cfg == nil {
		cfg = NewConfig()
	}

	c := &Controller{
		Config:    cfg,
		Store:     newStore(),
		Compiler:  defaultCompiler{},
		Validator: defaultValidator{},
		dedupe:    newDedupeCache(32 << 20),
		closing:   make(chan struct{}),
	}
	c.Logger = newLogger(c)

	return c
}

// Serve dials the router, binds the listening socket, and runs the accept
// loop, the Serializer's actor goroutine, the router-reply pump, and
// (optionally) the bootstrap watcher until Shutdown is called or one of
// them fails. It mirrors the teacher's Air.Serve in spirit — one call that
// blocks for the life of the daemon — generalized to errgroup-coordinated
// goroutines instead of a single http.Server.Serve call, since this
// daemon's concurrency model is the Serializer actor plus N connection
// goroutines rather than net/http's own pool (§5, §9).
func (c *Controller) Serve() error {
	t, err := transport.DialTCP(c.Config.RouterAddress)
	if err != nil {
		return err
	}
	c.transport = t

	c.Serializer = newSerializer(c.Store, c.transport, c.dedupe, c.Logger)

	l, err := newListener(c.Config.Address, c.Config.Backlog)
	if err != nil {
		c.transport.Close()
		return err
	}
	c.listener = l

	var bw *bootstrapWatcher
	if c.Config.ConfigFile != "" {
		bw, err = newBootstrapWatcher(c, c.Config.ConfigFile)
		if err != nil {
			c.Logger.Errorf("bootstrap watcher disabled: %v", err)
		}
	}

	g, _ := errgroup.WithContext(context.Background())

	g.Go(func() error {
		c.Serializer.run()
		return nil
	})

	g.Go(func() error {
		err := c.serve(c.listener)
		if err != nil {
			c.Shutdown(context.Background())
		}
		return err
	})

	if bw != nil {
		g.Go(func() error {
			bw.run(c.closing)
			return nil
		})
	}

	c.Logger.Infof("confd listening on %s, router at %s", c.Config.Address, c.Config.RouterAddress)

	return g.Wait()
}

// Shutdown stops accepting new connections and closes the router transport,
// which in turn drains the Serializer (§4.D's failAll path) and lets Serve
// return. It is idempotent and safe to call from a signal handler.
func (c *Controller) Shutdown(ctx context.Context) error {
	var err error
	c.shutdownOnce.Do(func() {
		close(c.closing)
		if c.listener != nil {
			err = c.listener.Close()
		}
		if c.transport != nil {
			c.transport.Close()
		}
	})
	return err
}

// reloadConfig applies the subset of a freshly loaded Config that is safe
// to change without rebinding the listener or redialing the router: the
// logging knobs. Address, RouterAddress, and Backlog require a restart.
func (c *Controller) reloadConfig(cfg *Config) {
	c.Config.LoggerEnabled = cfg.LoggerEnabled
	c.Config.LoggerFormat = cfg.LoggerFormat
	c.Config.DebugMode = cfg.DebugMode

	if tmpl, err := template.New("logger").Parse(cfg.LoggerFormat); err == nil {
		c.Logger.mutex.Lock()
		c.Logger.template = tmpl
		c.Logger.mutex.Unlock()
	}
}
