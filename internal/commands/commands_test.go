package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/diogo/geminichat/internal/api"
	"github.com/diogo/geminichat/internal/chat"
	"github.com/diogo/geminichat/internal/config"
	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/logging"
	"github.com/diogo/geminichat/internal/models"
)

// scriptedLines replays fixed input lines, then returns end
type scriptedLines struct {
	lines   []string
	end     error
	history []string
	closed  bool
}

func (s *scriptedLines) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		if s.end == nil {
			return "", io.EOF
		}
		return "", s.end
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedLines) AppendHistory(item string) { s.history = append(s.history, item) }

func (s *scriptedLines) Close() error {
	s.closed = true
	return nil
}

type testEnv struct {
	deps   *Dependencies
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	gen    *api.MockGenerator
	lines  *scriptedLines
	tty    bool

	settings   config.Settings
	logOpts    logging.Options
	copied     []string
	chatModel  string
	chatState  chat.State
	chatCalled bool
}

func newTestEnv(t *testing.T, gen *api.MockGenerator) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvAPIKey, "test-key-1234")
	t.Setenv(config.EnvAPIKeyGoogle, "")
	t.Setenv(config.EnvModel, "")
	t.Setenv("GLAMOUR_STYLE", "notty")

	env := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		gen:    gen,
		lines:  &scriptedLines{},
	}
	env.deps = &Dependencies{
		Stdin:  strings.NewReader(""),
		Stdout: env.stdout,
		Stderr: env.stderr,
		NewGenerator: func(ctx context.Context, settings config.Settings) (api.Generator, error) {
			env.settings = settings
			if err := settings.Validate(); err != nil {
				return nil, err
			}
			return env.gen, nil
		},
		RunChat: func(ctx context.Context, ctrl *chat.Controller, modelName string, cfg config.Config) error {
			env.chatCalled = true
			env.chatModel = modelName
			env.chatState = ctrl.Snapshot()
			return nil
		},
		NewLineReader: func() LineReader { return env.lines },
		NewLogger: func(opts logging.Options) *zap.Logger {
			env.logOpts = opts
			return zap.NewNop()
		},
		CopyText: func(text string) error {
			env.copied = append(env.copied, text)
			return nil
		},
		IsTerminal:    func(any) bool { return env.tty },
		TerminalWidth: func() int { return 80 },
	}
	return env
}

func (e *testEnv) run(args ...string) error {
	e.stdout.Reset()
	e.stderr.Reset()
	if args == nil {
		// nil would make cobra fall back to os.Args
		args = []string{}
	}
	cmd := NewRootCmd(e.deps)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestRoot_Version(t *testing.T) {
	env := newTestEnv(t, &api.MockGenerator{})

	if err := env.run("-v"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(env.stdout.String(), "geminichat "+Version) {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestRoot_NoInputShowsHelp(t *testing.T) {
	env := newTestEnv(t, &api.MockGenerator{})

	if err := env.run(); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(env.stdout.String(), "Usage:") {
		t.Errorf("expected help, got %q", env.stdout.String())
	}
	if len(env.gen.Prompts()) != 0 {
		t.Error("help should not call the generator")
	}
}

func TestRoot_TooManyArgs(t *testing.T) {
	env := newTestEnv(t, &api.MockGenerator{})

	if err := env.run("one", "two"); err == nil {
		t.Error("expected an error for two positional arguments")
	}
}

func TestQuery_RawOutput(t *testing.T) {
	env := newTestEnv(t, &api.MockGenerator{Response: "4"})

	if err := env.run("2+2?"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got := env.stdout.String(); got != "4\n" {
		t.Errorf("stdout = %q, want %q", got, "4\n")
	}
	if diff := cmp.Diff([]string{"2+2?"}, env.gen.Prompts()); diff != "" {
		t.Errorf("prompts mismatch (-want +got):\n%s", diff)
	}
	if !env.gen.IsClosed() {
		t.Error("generator should be closed after the query")
	}
}

func TestQuery_FailurePrintsFallback(t *testing.T) {
	env := newTestEnv(t, &api.MockGenerator{Err: errors.New("boom")})

	if err := env.run("hi"); err != nil {
		t.Fatalf("a failed generation should still exit cleanly, got %v", err)
	}
	if got := env.stdout.String(); got != models.FallbackText+"\n" {
		t.Errorf("stdout = %q, want fallback", got)
	}
	if strings.Contains(env.stdout.String()+env.stderr.String(), "boom") {
		t.Error("underlying error should only appear in verbose mode")
	}
}

func TestQuery_VerboseShowsDetails(t *testing.T) {
	env := newTestEnv(t, &api.MockGenerator{Err: errors.New("boom")})

	if err := env.run("--verbose", "hi"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !env.logOpts.Verbose {
		t.Error("--verbose should enable debug logging")
	}
	stderr := env.stderr.String()
	for _, want := range []string{"[verbose] Model: mock-model", "[verbose] Request took", "boom"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q: %q", want, stderr)
		}
	}
}

func TestQuery_MissingKey(t *testing.T) {
	env := newTestEnv(t, &api.MockGenerator{Response: "unused"})
	t.Setenv(config.EnvAPIKey, "")

	err := env.run("hi")
	if !errors.Is(err, apierrors.ErrNoAPIKey) {
		t.Fatalf("run() error = %v, want ErrNoAPIKey", err)
	}
	if len(env.gen.Prompts()) != 0 {
		t.Error("no request should be made without a key")
	}
}

func TestQuery_FromStdin(t *testing.T) {
	env := newTestEnv(t, &api.MockGenerator{Response: "ok"})
	env.deps.Stdin = strings.NewReader("piped question\n")

	if err := env.run(); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if diff := cmp.Diff([]string{"piped question\n"}, env.gen.Prompts()); diff != "" {
		t.Errorf("prompts mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_FromFile(t *testing.T) {
	env := newTestEnv(t, &api.MockGenerator{Response: "ok"})
	path := filepath.Join(t.TempDir(), "prompt.md")
	if err := os.WriteFile(path, []byte("# from file"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := env.run("-f", path); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if diff := cmp.Diff([]string{"# from file"}, env.gen.Prompts()); diff != "" {
		t.Errorf("prompts mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_MissingFile(t *testing.T) {
	env := newTestEnv(t, &api.MockGenerator{})

	err := env.run("-f", filepath.Join(t.TempDir(), "missing.md"))
	if err == nil || !strings.Contains(err.Error(), "failed to read file") {
		t.Errorf("run() error = %v", err)
	}
}

func TestQuery_OutputFile(t *testing.T) {
	env := newTestEnv(t, &api.MockGenerator{Response: "saved reply"})
	path := filepath.Join(t.TempDir(), "reply.md")

	if err := env.run("question", "-o", path); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "saved reply" {
		t.Errorf("file content = %q", data)
	}
	if env.stdout.Len() != 0 {
		t.Errorf("stdout should be empty when writing to a file, got %q", env.stdout.String())
	}
}

func TestQuery_DecoratedOutput(t *testing.T) {
	env := newTestEnv(t, &api.MockGenerator{Response: "**four**"})
	env.tty = true

	cfg := config.DefaultConfig()
	cfg.CopyToClipboard = true
	if err := config.SaveConfig(cfg); err != nil {
		t.Fatal(err)
	}

	if err := env.run("2+2?"); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	stdout := env.stdout.String()
	if !strings.Contains(stdout, "Gemini") || !strings.Contains(stdout, "four") {
		t.Errorf("decorated output missing label or reply: %q", stdout)
	}
	if !strings.Contains(stdout, "╭") {
		t.Error("reply should be framed in a bubble on a terminal")
	}
	if diff := cmp.Diff([]string{"**four**"}, env.copied); diff != "" {
		t.Errorf("clipboard mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(env.stderr.String(), "Copied to clipboard") {
		t.Errorf("stderr = %q", env.stderr.String())
	}
}

func TestQuery_RawFlagOnTerminal(t *testing.T) {
	env := newTestEnv(t, &api.MockGenerator{Response: "**four**"})
	env.tty = true

	if err := env.run("--raw", "2+2?"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got := env.stdout.String(); got != "**four**\n" {
		t.Errorf("stdout = %q, want raw markdown", got)
	}
}

func TestGlobalFlagsOverrideSettings(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantModel   string
		wantBackend string
	}{
		{"defaults", []string{"q"}, models.DefaultModel, config.BackendREST},
		{"model alias", []string{"-m", "pro", "q"}, models.ModelPro, config.BackendREST},
		{"custom model", []string{"--model", "gemini-exp-1206", "q"}, "gemini-exp-1206", config.BackendREST},
		{"sdk backend", []string{"--backend", "sdk", "q"}, models.DefaultModel, config.BackendSDK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, &api.MockGenerator{Response: "ok"})

			if err := env.run(tt.args...); err != nil {
				t.Fatalf("run() error = %v", err)
			}
			if env.settings.Model != tt.wantModel {
				t.Errorf("Model = %q, want %q", env.settings.Model, tt.wantModel)
			}
			if env.settings.Backend != tt.wantBackend {
				t.Errorf("Backend = %q, want %q", env.settings.Backend, tt.wantBackend)
			}
		})
	}
}

func TestChat_RunsWindow(t *testing.T) {
	env := newTestEnv(t, &api.MockGenerator{ModelName: "gemini-2.5-pro"})

	if err := env.run("chat"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !env.chatCalled {
		t.Fatal("chat window was not started")
	}
	if env.chatModel != "gemini-2.5-pro" {
		t.Errorf("model name = %q", env.chatModel)
	}
	if diff := cmp.Diff([]models.Turn{models.BotTurn(models.Greeting)}, env.chatState.Turns); diff != "" {
		t.Errorf("window should open on the greeting (-want +got):\n%s", diff)
	}
	if !env.gen.IsClosed() {
		t.Error("generator should be closed when the window exits")
	}
}

func TestChat_MissingKey(t *testing.T) {
	env := newTestEnv(t, &api.MockGenerator{})
	t.Setenv(config.EnvAPIKey, "")

	if err := env.run("chat"); !errors.Is(err, apierrors.ErrNoAPIKey) {
		t.Errorf("run() error = %v, want ErrNoAPIKey", err)
	}
	if env.chatCalled {
		t.Error("window must not start without a key")
	}
}

func TestChat_Plain(t *testing.T) {
	env := newTestEnv(t, &api.MockGenerator{Response: "pong"})
	env.lines.lines = []string{"ping", "   ", "ping", "quit", "never sent"}

	if err := env.run("chat", "--plain"); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if diff := cmp.Diff([]string{"ping", "ping"}, env.gen.Prompts()); diff != "" {
		t.Errorf("prompts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ping", "ping"}, env.lines.history); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
	want := models.Greeting + "\npong\npong\n"
	if got := env.stdout.String(); got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	if !env.lines.closed {
		t.Error("line reader should be closed")
	}
}

func TestChat_PlainFallback(t *testing.T) {
	env := newTestEnv(t, &api.MockGenerator{Err: errors.New("offline")})
	env.lines.lines = []string{"hi"}

	if err := env.run("chat", "--plain"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(env.stdout.String(), models.FallbackText) {
		t.Errorf("stdout = %q, want fallback", env.stdout.String())
	}
}

func TestChat_PlainEndsOnAbortOrEOF(t *testing.T) {
	for _, end := range []error{io.EOF, liner.ErrPromptAborted} {
		env := newTestEnv(t, &api.MockGenerator{})
		env.lines.end = end

		if err := env.run("chat", "--plain"); err != nil {
			t.Errorf("%v: run() error = %v", end, err)
		}
	}
}

func TestChat_PlainReadError(t *testing.T) {
	env := newTestEnv(t, &api.MockGenerator{})
	env.lines.end = errors.New("tty gone")

	err := env.run("chat", "--plain")
	if err == nil || !strings.Contains(err.Error(), "tty gone") {
		t.Errorf("run() error = %v", err)
	}
}

func TestConfig_Show(t *testing.T) {
	env := newTestEnv(t, &api.MockGenerator{})

	if err := env.run("config", "--model", "lite"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	out := env.stdout.String()
	for _, want := range []string{"*********1234", models.ModelFlashLite, config.BackendREST, "tokyonight", "config.json", "geminichat.log"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "test-key") {
		t.Error("API key must be masked")
	}
}

func TestConfig_SetThenShow(t *testing.T) {
	env := newTestEnv(t, &api.MockGenerator{})

	if err := env.run("config", "set", "tui_theme", "nord"); err != nil {
		t.Fatalf("set error = %v", err)
	}
	if err := env.run("config", "set", "copy_to_clipboard", "true"); err != nil {
		t.Fatalf("set error = %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TUITheme != "nord" || !cfg.CopyToClipboard {
		t.Errorf("saved config = %+v", cfg)
	}

	if err := env.run("config"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.stdout.String(), "nord") {
		t.Errorf("show should reflect the new theme:\n%s", env.stdout.String())
	}
}

func TestConfig_SetRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"config", "set", "colour", "red"}},
		{"bad bool", []string{"config", "set", "verbose", "maybe"}},
		{"bad backend", []string{"config", "set", "backend", "grpc"}},
		{"missing value", []string{"config", "set", "verbose"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, &api.MockGenerator{})
			if err := env.run(tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestConfig_KeysAndStyles(t *testing.T) {
	env := newTestEnv(t, &api.MockGenerator{})

	if err := env.run("config", "keys"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(strings.Join(config.Keys(), "\n")+"\n", env.stdout.String()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	if err := env.run("config", "styles"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"dark", "tokyo-night", "catppuccin", models.ModelPro} {
		if !strings.Contains(env.stdout.String(), want) {
			t.Errorf("styles output missing %q", want)
		}
	}
}

func TestReadPrompt(t *testing.T) {
	tests := []struct {
		name   string
		stdin  io.Reader
		args   []string
		want   string
		wantOK bool
	}{
		{"argument", strings.NewReader("ignored"), []string{"arg"}, "arg", true},
		{"stdin", strings.NewReader("piped"), nil, "piped", true},
		{"blank stdin", strings.NewReader(" \n"), nil, "", false},
		{"nil stdin", nil, nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := readPrompt(tt.stdin, "", tt.args)
			if err != nil {
				t.Fatalf("readPrompt() error = %v", err)
			}
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("readPrompt() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
