// Package main is the taskagent command: run an autonomous tool-using
// agent against a workspace directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"taskagent/internal/agent"
	"taskagent/internal/config"
	"taskagent/internal/gitutil"
	"taskagent/internal/pathutil"
	"taskagent/internal/provider"
	"taskagent/internal/provider/gemini"
	"taskagent/internal/toolbox"
	"taskagent/internal/tui"
)

const version = "1.0.0"

type runFlags struct {
	workspace  string
	maxSteps   int
	imagePath  string
	memoryFile string
	noShell    bool
	noOCR      bool
	useTUI     bool
	logFile    string
	verbose    bool
}

func main() {
	root := &cobra.Command{
		Use:          "taskagent",
		Short:        "Autonomous tool-using agent for workspace tasks",
		Long:         "taskagent runs a model-driven agent loop: the model proposes tool actions, a sandboxed executor runs them inside the workspace, and the loop repeats until the model returns a final answer.",
		Version:      version,
		SilenceUsage: true,
	}
	root.AddCommand(newRunCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [task]",
		Short: "Run one task to completion",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTask(cmd.Context(), strings.Join(args, " "), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.workspace, "workspace", "w", ".", "workspace directory the agent operates in")
	cmd.Flags().IntVar(&flags.maxSteps, "max-steps", 0, "override the configured step budget")
	cmd.Flags().StringVar(&flags.imagePath, "image", "", "image file to OCR into the task context")
	cmd.Flags().StringVar(&flags.memoryFile, "memory-file", "", "file whose content is carried in as session memory")
	cmd.Flags().BoolVar(&flags.noShell, "no-shell", false, "disable the run_shell tool")
	cmd.Flags().BoolVar(&flags.noOCR, "no-ocr", false, "skip OCR even when --image is given")
	cmd.Flags().BoolVar(&flags.useTUI, "tui", false, "show a live run view instead of plain output")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "also write JSON logs to this file")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "log at debug level")

	return cmd
}

func runTask(ctx context.Context, task string, flags *runFlags) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, closeLog, err := newLogger(flags)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if flags.noShell {
		cfg.Tools.AllowShell = false
	}

	root, err := pathutil.CanonicaliseRoot(flags.workspace)
	if err != nil {
		return err
	}

	var ignore toolbox.IgnoreService
	if svc, err := gitutil.NewService(root); err != nil {
		logger.Warn("failed to load .gitignore, listings will be unfiltered", "error", err)
		ignore = gitutil.NoOpService{}
	} else {
		ignore = svc
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}
	client := gemini.NewSDKClient(genaiClient)

	opts := []agent.Option{agent.WithLogger(logger)}
	if flags.imagePath != "" && !flags.noOCR {
		opts = append(opts, agent.WithOCR(gemini.NewOCRProvider(client, cfg.Provider.OCRModel)))
	}

	sessionMemory, err := readMemoryFile(flags.memoryFile)
	if err != nil {
		return err
	}

	params := agent.RunParams{
		Task:          task,
		ImagePath:     flags.imagePath,
		SessionMemory: sessionMemory,
		MaxSteps:      flags.maxSteps,
	}

	tools := toolbox.New(root, cfg, ignore)
	textProvider := gemini.NewTextProvider(client, cfg.Provider.Model)

	if flags.useTUI {
		return runWithTUI(ctx, cfg, textProvider, tools, params, opts)
	}
	return runPlain(ctx, cfg, textProvider, tools, params, opts)
}

// runPlain streams event lines to stderr and prints the answer to stdout.
func runPlain(ctx context.Context, cfg *config.Config, p provider.Provider, tools *toolbox.Executor, params agent.RunParams, opts []agent.Option) error {
	opts = append(opts, agent.WithObserver(printEvent))
	a := agent.New(cfg, p, tools, opts...)

	answer, err := a.Run(ctx, params)
	if err != nil {
		return err
	}
	fmt.Println(answer)
	return nil
}

// runWithTUI drives the run on a background goroutine and feeds its events
// to the live view.
func runWithTUI(ctx context.Context, cfg *config.Config, p provider.Provider, tools *toolbox.Executor, params agent.RunParams, opts []agent.Option) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan agent.Event, 64)
	opts = append(opts, agent.WithObserver(func(e agent.Event) {
		select {
		case events <- e:
		default:
			// Drop if the view has stopped draining.
		}
	}))
	a := agent.New(cfg, p, tools, opts...)

	done := make(chan error, 1)
	go func() {
		// The view renders the final answer; only the error matters here.
		_, err := a.Run(runCtx, params)
		close(events)
		done <- err
	}()

	if err := tui.Run(events); err != nil {
		return err
	}
	cancel() // the user may have quit before the run finished
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// printEvent writes a compact line per lifecycle event for plain output.
func printEvent(e agent.Event) {
	switch e.Type {
	case agent.EventStepDecision:
		if thought, _ := e.Data["thought"].(string); thought != "" {
			fmt.Fprintf(os.Stderr, "--- step %d ---\nthought: %s\n", e.Step, thought)
		} else {
			fmt.Fprintf(os.Stderr, "--- step %d ---\n", e.Step)
		}
	case agent.EventToolStarted:
		fmt.Fprintf(os.Stderr, "tool: %v\n", e.Data["tool"])
	case agent.EventFormatRetry:
		fmt.Fprintln(os.Stderr, "format error: retrying with stricter prompt")
	case agent.EventRunTimeout:
		fmt.Fprintln(os.Stderr, "run hit its step budget")
	}
}

// newLogger builds the run logger: text to stderr, plus JSON to --log-file
// when given, fanned out over both handlers.
func newLogger(flags *runFlags) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if flags.verbose {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}
	closeLog := func() {}

	if flags.logFile != "" {
		f, err := os.OpenFile(flags.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		closeLog = func() { _ = f.Close() }
	}

	return slog.New(slogmulti.Fanout(handlers...)), closeLog, nil
}

// readMemoryFile loads carried-over session notes, if requested.
func readMemoryFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open memory file: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read memory file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
