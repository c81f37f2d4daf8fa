package pipeline

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/studyforge/studyforge/pkg/content"
	"github.com/studyforge/studyforge/pkg/errcodes"
	"github.com/studyforge/studyforge/pkg/geocoder"
	"github.com/studyforge/studyforge/pkg/objectstore"
	"github.com/studyforge/studyforge/pkg/pdfutil"
	"github.com/studyforge/studyforge/pkg/search"
	"github.com/uptrace/bun"
)

// Service orchestrates one sync run end to end: snapshot, group, import,
// recompute, geocode, reconcile assets, reap, reindex. At most one run is in
// flight process-wide.
type Service struct {
	db          *bun.DB
	snapshotter Snapshotter
	stores      *objectstore.Stores
	geocoder    geocoder.Geocoder
	thumbnailer pdfutil.Thumbnailer
	search      *search.Service

	mu      sync.Mutex
	syncing bool
}

func NewService(db *bun.DB, snapshotter Snapshotter, stores *objectstore.Stores, geo geocoder.Geocoder, thumbnailer pdfutil.Thumbnailer) *Service {
	return &Service{
		db:          db,
		snapshotter: snapshotter,
		stores:      stores,
		geocoder:    geo,
		thumbnailer: thumbnailer,
		search:      search.NewService(db),
	}
}

// importers in processing order. Builders import before every other resource
// category, and quiz questions after their parent courses; the order pass in
// sortUnits enforces both.
var importers = []importer{
	courseImporter{},
	quizImporter{},
	professorImporter{},
	eventImporter{},
	resourceImporter{},
	tutorialImporter{},
	certificateImporter{},
	blogImporter{},
	legalImporter{},
}

// unitRank gives every unit a processing band. Bands only exist for the two
// real ordering constraints; within a band, first-seen order is preserved.
func unitRank(unit *content.Unit) int {
	switch {
	case unit.Type == content.TypeCourse:
		return 0
	case unit.Type == content.TypeQuizQuestion:
		return 1
	case unit.Type == content.TypeResource && unit.Category == content.CategoryBuilders:
		return 2
	case unit.Type == content.TypeResource:
		return 3
	}
	return 4
}

func sortUnits(units []*content.Unit) {
	sort.SliceStable(units, func(i, j int) bool {
		return unitRank(units[i]) < unitRank(units[j])
	})
}

// Sync executes one pipeline run. A second call while a run is in flight
// fails immediately with AlreadySyncing rather than queue or block. Partial
// content failures never surface as an error here; they land in the report.
func (svc *Service) Sync(ctx context.Context) (*Report, error) {
	svc.mu.Lock()
	if svc.syncing {
		svc.mu.Unlock()
		return nil, errcodes.AlreadySyncing()
	}
	svc.syncing = true
	svc.mu.Unlock()

	defer func() {
		svc.mu.Lock()
		svc.syncing = false
		svc.mu.Unlock()
	}()

	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	run := &Run{StartedAt: report.StartedAt, Report: report}

	log := logger.FromContext(ctx).Data(logger.Data{"run_id": report.RunID})

	snapshot, err := svc.snapshotter.Snapshot(ctx)
	if err != nil {
		// Snapshot failure is run-fatal: nothing has been imported yet, so
		// failing loudly is safe.
		return nil, err
	}
	log.Info("sync started", logger.Data{
		"files":          len(snapshot.Files),
		"public_assets":  len(snapshot.PublicAssets),
		"private_assets": len(snapshot.PrivateAssets),
	})

	units, groupErrs := content.Group(snapshot.Files, snapshot.PublicRepoDir)
	for _, err := range groupErrs {
		report.addError("", err)
	}
	sortUnits(units)

	if err := svc.importUnits(ctx, run, units); err != nil {
		return nil, err
	}

	if err := RecomputeSeats(ctx, svc.db); err != nil {
		return nil, err
	}

	if err := svc.geocodePending(ctx, run); err != nil {
		return nil, err
	}

	svc.reconcileAssets(ctx, run, snapshot)

	if report.Success() {
		reaped, err := reapStale(ctx, svc.db, run)
		if err != nil {
			return nil, err
		}
		report.Reaped = true
		report.ReapedRows = reaped
	} else {
		log.Warn("skipping reap: run recorded import errors", logger.Data{
			"errors": len(report.Errors),
		})
	}

	if err := svc.search.Rebuild(ctx); err != nil {
		return nil, err
	}
	report.SearchRebuilt = true

	report.FinishedAt = time.Now().UTC()
	log.Info("sync finished", logger.Data{
		"units_processed": report.UnitsProcessed,
		"units_failed":    report.UnitsFailed,
		"errors":          len(report.Errors),
		"warnings":        len(report.Warnings),
		"reaped_rows":     report.ReapedRows,
		"duration":        report.FinishedAt.Sub(report.StartedAt).String(),
	})
	return report, nil
}

// importUnits runs every unit through its importer, one transaction per
// unit. A failed unit rolls back alone and is recorded; siblings continue.
func (svc *Service) importUnits(ctx context.Context, run *Run, units []*content.Unit) error {
	byType := make(map[content.Type]importer, len(importers))
	for _, imp := range importers {
		byType[imp.Type()] = imp
	}

	for _, unit := range units {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		imp, ok := byType[unit.Type]
		if !ok {
			run.Report.addError(unit.Path, errors.Errorf("no importer for type %s", unit.Type))
			run.Report.UnitsFailed++
			continue
		}

		err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
			return imp.Import(ctx, tx, unit, run)
		})
		if err != nil {
			run.Report.addError(unit.Path, err)
			run.Report.UnitsFailed++
			continue
		}
		run.Report.UnitsProcessed++
	}
	return nil
}
