// Package chat holds the conversation state machine shared by every front end.
//
// A Controller owns the ordered list of turns, the pending input buffer and
// the busy flag. It moves between two states, idle and sending; a submission
// while sending is ignored.
package chat

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/diogo/geminichat/internal/api"
	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/models"
)

// State is a render-ready copy of the controller's state
type State struct {
	Turns []models.Turn
	Busy  bool
	Input string
}

// LastTurn returns the newest turn. A controller always has at least the greeting.
func (s State) LastTurn() models.Turn {
	if len(s.Turns) == 0 {
		return models.Turn{}
	}
	return s.Turns[len(s.Turns)-1]
}

// Controller is the chat session controller
type Controller struct {
	gen    api.Generator
	logger *zap.Logger

	mu        sync.Mutex
	turns     []models.Turn
	busy      bool
	input     string
	observers []func(State)
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the diagnostic logger (default: no-op)
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController creates a controller seeded with the greeting turn
func NewController(gen api.Generator, opts ...Option) *Controller {
	c := &Controller{
		gen:    gen,
		logger: zap.NewNop(),
		turns:  []models.Turn{models.BotTurn(models.Greeting)},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("model", gen.Model()))
	return c
}

// OnChange registers fn to be called after every change to the conversation
// or the busy flag. fn runs on the goroutine that made the change and must
// not call back into the controller's mutating methods.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// snapshotLocked copies the state. MUST be called with c.mu held.
func (c *Controller) snapshotLocked() State {
	turns := make([]models.Turn, len(c.turns))
	copy(turns, c.turns)
	return State{Turns: turns, Busy: c.busy, Input: c.input}
}

// SetInput replaces the pending input buffer
func (c *Controller) SetInput(s string) {
	c.mu.Lock()
	c.input = s
	c.mu.Unlock()
}

// Input returns the pending input buffer
func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// Busy reports whether a generation request is outstanding
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// LastBotText returns the text of the newest bot turn
func (c *Controller) LastBotText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.turns) - 1; i >= 0; i-- {
		if !c.turns[i].IsUser() {
			return c.turns[i].Text
		}
	}
	return ""
}

// Begin performs the synchronous half of a submission. It returns false and
// changes nothing when text is blank or a request is already outstanding.
// Otherwise the user turn is appended, the input buffer cleared, busy set,
// and the returned Task must be run and passed to Settle.
func (c *Controller) Begin(text string) (*Task, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		c.logger.Debug("submission ignored while busy")
		return nil, false
	}
	c.turns = append(c.turns, models.UserTurn(text))
	c.input = ""
	c.busy = true
	state := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Debug("submission started", zap.Int("prompt_len", len(text)))
	c.notify(state)

	return &Task{gen: c.gen, prompt: text}, true
}

// Settle applies the outcome of the outstanding task: the reply on success,
// the fallback text on failure. Busy is cleared last.
func (c *Controller) Settle(out Outcome) {
	c.mu.Lock()
	if !c.busy {
		c.mu.Unlock()
		c.logger.Warn("settle without an outstanding request")
		return
	}

	text := out.Text
	if out.Err != nil {
		c.logger.Error("generation failed", failureFields(out)...)
		text = models.FallbackText
	}
	c.turns = append(c.turns, models.BotTurn(text))
	c.busy = false
	state := c.snapshotLocked()
	c.mu.Unlock()

	if out.Err == nil {
		c.logger.Debug("submission settled",
			zap.Int("reply_len", len(text)),
			zap.Duration("elapsed", out.Elapsed),
		)
	}
	c.notify(state)
}

// Submit runs a whole submission on a new goroutine. The returned channel is
// closed once the reply (or fallback) has been appended and busy cleared.
// It returns false when Begin rejected the text.
func (c *Controller) Submit(ctx context.Context, text string) (<-chan struct{}, bool) {
	task, ok := c.Begin(text)
	if !ok {
		return nil, false
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Settle(task.Run(ctx))
	}()
	return done, true
}

// failureFields keeps the transport detail of a failed call for the log
func failureFields(out Outcome) []zap.Field {
	fields := []zap.Field{
		zap.Error(out.Err),
		zap.Duration("elapsed", out.Elapsed),
	}
	if status := apierrors.GetHTTPStatus(out.Err); status > 0 {
		fields = append(fields, zap.Int("status", status))
	}
	if endpoint := apierrors.GetEndpoint(out.Err); endpoint != "" {
		fields = append(fields, zap.String("endpoint", endpoint))
	}
	if body := apierrors.GetResponseBody(out.Err); body != "" {
		fields = append(fields, zap.String("response_body", body))
	}
	return fields
}

func (c *Controller) notify(state State) {
	c.mu.Lock()
	observers := make([]func(State), len(c.observers))
	copy(observers, c.observers)
	c.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}
