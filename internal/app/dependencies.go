package app

import (
	"context"

	"github.com/overtrack/overtrack/internal/blobstore"
	"github.com/overtrack/overtrack/internal/config"
	"github.com/overtrack/overtrack/internal/event_bus"
	"github.com/overtrack/overtrack/internal/utils"
	"github.com/overtrack/overtrack/pkg/report"
	"github.com/overtrack/overtrack/pkg/tracker"
	"github.com/overtrack/overtrack/pkg/worksheet"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus
	Store    blobstore.Store

	Projector        *worksheet.Projector
	WorksheetHandler *worksheet.Handler

	TrackerService *tracker.ServiceImpl
	TrackerHandler *tracker.Handler

	CsvRenderer   *report.CsvRendererImpl
	XlsxRenderer  *report.XlsxRendererImpl
	ReportHandler *report.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
// The worksheet projector subscribes before the tracker loads so it sees the first state.
func BuildDependencies(ctx context.Context, store blobstore.Store, cfg config.Application, clock utils.Clock) (*Dependencies, error) {
	deps := &Dependencies{Clock: clock, Store: store}

	deps.EventBus = event_bus.NewEventBus()
	deps.Projector = worksheet.NewProjector(deps.EventBus, deps.Clock)
	deps.WorksheetHandler = worksheet.NewHandler(deps.Projector)

	service, err := tracker.NewService(ctx, store, cfg.Storage.Key, deps.EventBus, deps.Clock,
		tracker.SeedFunc(cfg.Seed.Path, utils.Today(deps.Clock)))
	if err != nil {
		deps.Projector.Close()
		return nil, err
	}
	deps.TrackerService = service
	deps.TrackerHandler = tracker.NewHandler(deps.TrackerService)

	deps.CsvRenderer = report.NewCsvRenderer()
	deps.XlsxRenderer = report.NewXlsxRenderer()
	deps.ReportHandler = report.NewHandler(deps.Projector, deps.CsvRenderer, deps.XlsxRenderer)

	return deps, nil
}

// OpenDependencies opens the configured store and builds the dependencies on top of it.
func OpenDependencies(ctx context.Context, cfg config.Application, clock utils.Clock) (*Dependencies, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	deps, err := BuildDependencies(ctx, store, cfg, clock)
	if err != nil {
		if closeErr := store.Close(); closeErr != nil {
			log.Warnf("failed to close store: %v", closeErr)
		}
		return nil, err
	}
	return deps, nil
}

// Close releases the store. Handlers must not be used afterwards.
func (d *Dependencies) Close() error {
	d.Projector.Close()
	return d.Store.Close()
}
