// Package lifecycle routes interrupt and termination signals to the handler
// that fits the current phase of the program.
package lifecycle

import (
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"

	"github.com/kula-app/template-cli/internal/messages"
	"github.com/kula-app/template-cli/internal/parser"
)

// Handler reacts to a delivered signal. Implementations must only read state
// captured when they were created.
type Handler interface {
	HandleSignal(sig os.Signal)
}

// Bootstrap is installed before arguments are parsed. It exits at once.
type Bootstrap struct {
	Logger *slog.Logger
	Exit   func(code int)
}

// HandleSignal implements Handler.
func (b Bootstrap) HandleSignal(sig os.Signal) {
	b.Logger.Debug(messages.Debug(901, sig))
	b.Exit(0)
}

// Shutdown is installed once arguments are known. It logs an exit line
// naming the parsed arguments before exiting.
type Shutdown struct {
	Logger *slog.Logger
	Args   *parser.Parsed
	Exit   func(code int)
}

// HandleSignal implements Handler.
func (s Shutdown) HandleSignal(sig os.Signal) {
	s.Logger.Info(messages.Info(298, s.Args))
	s.Logger.Debug(messages.Debug(901, sig))
	s.Exit(0)
}

type handlerRef struct {
	Handler
}

// Trap delivers signals to the currently installed Handler.
type Trap struct {
	signals chan os.Signal
	handler atomic.Pointer[handlerRef]
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewTrap starts routing sigs to h.
func NewTrap(h Handler, sigs ...os.Signal) *Trap {
	t := &Trap{
		signals: make(chan os.Signal, 1),
		stop:    make(chan struct{}),
	}
	t.handler.Store(&handlerRef{h})

	signal.Notify(t.signals, sigs...)

	t.wg.Add(1)
	go t.loop()
	return t
}

func (t *Trap) loop() {
	defer t.wg.Done()
	for {
		select {
		case <-t.stop:
			return
		case sig := <-t.signals:
			t.handler.Load().HandleSignal(sig)
		}
	}
}

// Install replaces the handler for all later signals.
func (t *Trap) Install(h Handler) {
	t.handler.Store(&handlerRef{h})
}

// Stop restores default signal behaviour and waits for the routing
// goroutine to finish.
func (t *Trap) Stop() {
	signal.Stop(t.signals)
	close(t.stop)
	t.wg.Wait()
}
