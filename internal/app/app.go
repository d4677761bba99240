package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"TranscriptLinker/internal/config"
	"TranscriptLinker/internal/infrastructure/calendar"
	"TranscriptLinker/internal/infrastructure/llm"
	"TranscriptLinker/internal/infrastructure/recordings"
	"TranscriptLinker/internal/infrastructure/scheduler"
	"TranscriptLinker/internal/infrastructure/storage"
	"TranscriptLinker/internal/infrastructure/telegram"
	"TranscriptLinker/internal/logging"
	"TranscriptLinker/internal/match"
	"TranscriptLinker/internal/ports"
	"TranscriptLinker/internal/usecase"
)

// Options tweak a single invocation without touching the config file.
type Options struct {
	DryRun   bool
	Schedule bool
}

// Application wires config to adapters, the matching engine, and lifecycle.
type Application struct {
	cfg      config.Config
	opts     Options
	pipeline *usecase.Pipeline
	logger   *slog.Logger
	db       *sql.DB
}

// New builds a runnable application instance. Configuration is validated
// here; a validation failure aborts before anything is fetched.
func New(cfg config.Config, opts Options, baseLogger *slog.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := match.NewRegistry()
	registry.Register(match.NewDeterministic(cfg.Matching.ProximityWindow()))
	registry.Register(match.NewSemantic(buildCompleter(cfg, baseLogger), baseLogger.With("component", "match.semantic")))

	strategies, err := registry.Resolve(cfg.Matching.Strategies)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	orchestrator := match.NewOrchestrator(
		match.NewFilter(cfg.Matching.IgnoreKeywords),
		strategies,
		baseLogger.With("component", "match.orchestrator"),
	)

	recordingSource, err := buildRecordingSource(cfg, baseLogger)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	var repository ports.MatchRepository
	if cfg.Database.DSN != "" {
		db, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		repository = storage.NewPostgresRepository(db)
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram, nil)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Events:       calendar.NewSource(cfg.Calendar, nil),
		Recordings:   recordingSource,
		Repository:   repository,
		Notifier:     notifier,
		Orchestrator: orchestrator,
		Lookback:     cfg.Matching.Lookback(),
		DryRun:       opts.DryRun,
		Logger:       baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, opts: opts, pipeline: pipeline, logger: baseLogger, db: db}, nil
}

// Run performs a single pass, or keeps running on the configured interval
// when scheduling is requested.
func (a *Application) Run(ctx context.Context) error {
	defer a.close()

	if a.opts.DryRun {
		a.logger.Info("dry run: no results will be persisted or published")
	}

	if !a.opts.Schedule {
		_, err := a.pipeline.Run(ctx, time.Now().In(a.cfg.Scheduler.Location()))
		return err
	}

	driver := scheduler.NewTickerScheduler(time.Duration(a.cfg.Scheduler.IntervalHours) * time.Hour)
	sched := usecase.NewScheduler(driver, a.pipeline)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	<-ctx.Done()
	return sched.Stop(context.Background())
}

func (a *Application) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func buildCompleter(cfg config.Config, logger *slog.Logger) ports.Completer {
	if cfg.LLM.APIKey == "" {
		logger.Warn("semantic matching disabled: no LLM API key configured")
		return nil
	}
	return llm.NewChatGPTClient(cfg.LLM)
}

func buildRecordingSource(cfg config.Config, logger *slog.Logger) (ports.RecordingSource, error) {
	sources := make([]ports.RecordingSource, 0, len(cfg.Providers.Enabled))
	for _, name := range cfg.Providers.Enabled {
		switch name {
		case "tldv":
			sources = append(sources, recordings.NewTldvSource(cfg.Providers.Tldv, nil, logger.With("component", "recordings.tldv")))
		case "fireflies":
			sources = append(sources, recordings.NewFirefliesSource(cfg.Providers.Fireflies, nil, logger.With("component", "recordings.fireflies")))
		default:
			return nil, fmt.Errorf("invalid configuration: unknown provider %q", name)
		}
	}
	if len(sources) == 1 {
		return sources[0], nil
	}
	return recordings.NewMultiSource(sources, logger.With("component", "recordings")), nil
}
