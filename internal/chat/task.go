package chat

import (
	"context"
	"time"

	"github.com/diogo/geminichat/internal/api"
)

// Outcome is the result of one generation call: reply text or an error
type Outcome struct {
	Text    string
	Err     error
	Elapsed time.Duration
}

// Task is one outstanding generation call
type Task struct {
	gen    api.Generator
	prompt string
}

// Prompt returns the text sent to the generator
func (t *Task) Prompt() string {
	return t.prompt
}

// Run calls the generator once with the task's prompt and no history.
// It blocks until the generator answers; no deadline is added.
func (t *Task) Run(ctx context.Context) Outcome {
	start := time.Now()
	text, err := t.gen.Generate(ctx, t.prompt)
	return Outcome{Text: text, Err: err, Elapsed: time.Since(start)}
}
