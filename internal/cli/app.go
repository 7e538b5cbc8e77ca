package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/worksummary/internal/config"
	"github.com/alexanderramin/worksummary/internal/llm"
	"github.com/alexanderramin/worksummary/internal/logging"
	"github.com/alexanderramin/worksummary/internal/summary"
	"go.uber.org/zap"
)

// App holds what the commands share. Fields left nil are built from the
// configuration when the first command runs; tests preset them.
type App struct {
	Version string

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
	Getenv        func(string) string

	Config    *config.Config
	Log       *zap.Logger
	Summaries summary.Service

	closers []func() error
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// setup loads configuration, the logger and the summary service.
func (a *App) setup(configPath string, verbose bool, stderr io.Writer) error {
	if a.Config == nil {
		getenv := a.Getenv
		if getenv == nil {
			getenv = os.Getenv
		}
		cfg, err := config.Load(configPath, getenv)
		if err != nil {
			return err
		}
		a.Config = cfg
	}

	if a.Log == nil {
		l, err := logging.New(a.Config.Log, verbose, stderr)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		a.Log = l.Logger
		a.closers = append(a.closers, l.Close)
	}

	if a.Summaries == nil {
		client, err := a.newLLMClient()
		if err != nil {
			return err
		}
		a.Summaries = summary.NewService(client, a.Log)
	}
	return nil
}

// newLLMClient returns nil when the summarization service is disabled.
func (a *App) newLLMClient() (llm.LLMClient, error) {
	cfg := a.Config.LLM
	if !cfg.Enabled {
		a.Log.Debug("summarization service disabled; summaries are computed locally")
		return nil, nil
	}

	var observer llm.Observer = llm.NoopObserver{}
	if cfg.LogCalls {
		observer = llm.NewZapObserver(a.Log)
	}
	client, err := llm.NewClient(cfg, observer)
	if err != nil {
		return nil, fmt.Errorf("configuring summarization service: %w", err)
	}
	a.Log.Debug("summarization service configured",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model))
	return client, nil
}

func (a *App) llmEnabled() bool {
	return a.Config != nil && a.Config.LLM.Enabled
}

// Close flushes the logger and releases what setup opened. Safe to call
// more than once.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
}
