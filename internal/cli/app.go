package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mlombardi/issueflow/internal/adapters/claudecli"
	"github.com/mlombardi/issueflow/internal/adapters/fsstore"
	"github.com/mlombardi/issueflow/internal/adapters/gitcli"
	"github.com/mlombardi/issueflow/internal/adapters/githost"
	"github.com/mlombardi/issueflow/internal/adapters/libsqlstore"
	"github.com/mlombardi/issueflow/internal/adapters/linear"
	"github.com/mlombardi/issueflow/internal/adapters/otel"
	"github.com/mlombardi/issueflow/internal/domain"
	"github.com/mlombardi/issueflow/internal/infrastructure/config"
	"github.com/mlombardi/issueflow/internal/ports"
	"github.com/mlombardi/issueflow/internal/session"
	"github.com/mlombardi/issueflow/internal/templates"
	"github.com/mlombardi/issueflow/internal/workflow"
)

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	Config      *config.Config
	DB          *libsqlstore.DB // nil for the files backend
	SessionRepo ports.SessionRepository
	ABTestRepo  ports.ABTestRepository
	Sessions    *session.Service
	Templates   *domain.TemplateSet
	Metrics     ports.MetricsExporter
}

// NewAppContext creates an AppContext with all dependencies initialized.
func NewAppContext(ctx context.Context) (*AppContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	app := &AppContext{Config: cfg}

	switch cfg.Store {
	case config.StoreLibSQL:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		db, err := libsqlstore.Open(ctx, filepath.Join(cfg.DataDir, "issueflow.db"))
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		app.DB = db
		app.SessionRepo = libsqlstore.NewSessionRepository(db)
		app.ABTestRepo = libsqlstore.NewABTestRepository(db)
	default:
		store, err := fsstore.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open data directory: %w", err)
		}
		app.SessionRepo = fsstore.NewSessionRepository(store)
		app.ABTestRepo = fsstore.NewABTestRepository(store)
	}

	ts, err := templates.Load(cfg.TemplatesFile)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Templates = ts

	// Metrics never block the workflow: a broken exporter degrades to no-op.
	app.Metrics = otel.NewNoOpExporter()
	if otelCfg := otel.LoadConfig(); otelCfg.Enabled {
		exporter, err := otel.NewExporter(ctx, otelCfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: metrics disabled: %v\n", err)
		} else {
			app.Metrics = exporter
		}
	}

	app.Sessions = session.NewService(app.SessionRepo, app.Metrics)
	return app, nil
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close() error {
	if a.Metrics != nil {
		_ = a.Metrics.Shutdown(context.Background())
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// Workflow builds the orchestration service over the current working
// directory. The code host is wired only when GitHub is configured; the
// start flow treats it as optional, complete requires it.
func (a *AppContext) Workflow() (*workflow.Service, error) {
	workdir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	svc := &workflow.Service{
		Sessions:   a.Sessions,
		ABTests:    a.ABTestRepo,
		Tracker:    linear.NewClient(a.Config.LinearAPIKey),
		Git:        gitcli.New(workdir),
		Assistant:  claudecli.NewRunner(a.Config.AssistantBin),
		Metrics:    a.Metrics,
		Templates:  a.Templates,
		Repo:       a.Config.Repo,
		BaseBranch: a.Config.BaseBranch,
		CallerKey:  a.Config.CallerKey,
		WorkDir:    workdir,
	}
	if a.Config.GitHubToken != "" && a.Config.Repo != "" {
		svc.Host = githost.NewClient(a.Config.GitHubToken)
	}
	return svc, nil
}
