// Package app assembles the configured service variant and its decorators.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/alexanderramin/gtmdash/internal/config"
	"github.com/alexanderramin/gtmdash/internal/fixtures"
	"github.com/alexanderramin/gtmdash/internal/gitnotes"
	"github.com/alexanderramin/gtmdash/internal/repository"
	"github.com/alexanderramin/gtmdash/internal/service"
)

// ErrNoSnapshotStore is returned when the snapshot backend is selected but
// no store was provided.
var ErrNoSnapshotStore = errors.New("snapshot backend requires a snapshot store")

// Factory builds services from configuration. Zero-valued optional fields
// fall back to production defaults.
type Factory struct {
	Config    config.Config
	Logger    *slog.Logger
	Meter     metric.Meter
	Snapshots repository.SnapshotRepo

	Spawner    service.Spawner
	HTTPClient *http.Client
}

// Build returns the backend wrapped in the decorators the config asks for:
// delay first, then call logging, then metrics.
func (f Factory) Build(ctx context.Context, backend config.Backend) (service.Service, error) {
	svc, err := f.Base(ctx, backend)
	if err != nil {
		return nil, err
	}
	if f.Config.DelayMs > 0 {
		svc = service.NewDelayService(svc, time.Duration(f.Config.DelayMs)*time.Millisecond)
	}
	if f.Config.LogCalls {
		svc = service.NewObservedService(svc, service.NewSlogUseCaseObserver(f.logger()))
	}
	if f.Meter != nil {
		metered, err := service.NewMeteredService(svc, f.Meter)
		if err != nil {
			return nil, fmt.Errorf("instrumenting service: %w", err)
		}
		svc = metered
	}
	return svc, nil
}

// Base returns the undecorated backend.
func (f Factory) Base(ctx context.Context, backend config.Backend) (service.Service, error) {
	cfg := f.Config
	switch backend {
	case config.BackendProcess:
		spawn := f.Spawner
		if spawn == nil {
			spawn = service.ExecSpawner(cfg.GtmBin)
		}
		return service.NewProcessService(spawn), nil

	case config.BackendWeb:
		var opts []service.WebOption
		if f.HTTPClient != nil {
			opts = append(opts, service.WithHTTPClient(f.HTTPClient))
		}
		web := service.NewWebService(cfg.Endpoint, opts...)
		if cfg.Token != "" {
			return service.NewAuthWebService(web, cfg.Token), nil
		}
		return web, nil

	case config.BackendMock:
		loader := service.Loader(fixtures.Loader)
		if cfg.FixturesDir != "" {
			loader = service.FileLoader(cfg.FixturesDir)
		}
		svc, err := service.NewMockService(ctx, loader)
		if err != nil {
			return nil, fmt.Errorf("loading mock data: %w", err)
		}
		return svc, nil

	case config.BackendSnapshot:
		if f.Snapshots == nil {
			return nil, ErrNoSnapshotStore
		}
		loader := repository.SnapshotLoader(f.Snapshots, cfg.SnapshotID)
		if cfg.SnapshotID == "" {
			latest, err := repository.LatestSnapshotLoader(ctx, f.Snapshots)
			if err != nil {
				return nil, err
			}
			loader = latest
		}
		svc, err := service.NewMockService(ctx, loader)
		if err != nil {
			return nil, fmt.Errorf("loading snapshot: %w", err)
		}
		return svc, nil

	case config.BackendGit:
		return gitnotes.New(cfg.ProjectsFile, gitnotes.WithLogger(f.logger())), nil

	case config.BackendReject:
		return service.RejectService{}, nil

	case config.BackendFailure:
		return service.NewFailureService(service.DefaultFailureTarget), nil
	}
	return nil, fmt.Errorf("unknown backend %q", backend)
}

func (f Factory) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return f.Logger
}
