package main

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
	"github.com/studyforge/studyforge/pkg/config"
	"github.com/studyforge/studyforge/pkg/database"
	"github.com/studyforge/studyforge/pkg/geocoder"
	"github.com/studyforge/studyforge/pkg/migrations"
	"github.com/studyforge/studyforge/pkg/objectstore"
	"github.com/studyforge/studyforge/pkg/pdfutil"
	"github.com/studyforge/studyforge/pkg/pipeline"
	"github.com/studyforge/studyforge/pkg/server"
	"github.com/studyforge/studyforge/pkg/version"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	log.Info("starting studyforge", logger.Data{"version": version.Version})

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	// Check that FTS5 is available before running migrations
	err = database.CheckFTS5Support(db)
	if err != nil {
		log.Err(err).Fatal("FTS5 check failed")
	}

	group, err := migrations.BringUpToDate(ctx, db)
	if err != nil {
		log.Err(err).Fatal("migrations error")
	}
	if group.ID == 0 {
		log.Info("no new migrations to run")
	} else {
		log.Info("migrated to new group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
	}

	stores, err := objectstore.NewFromConfig(cfg)
	if err != nil {
		log.Err(err).Fatal("object storage error")
	}

	syncService := pipeline.NewService(
		db,
		pipeline.NewDirSnapshotter(cfg),
		stores,
		geocoder.New(cfg),
		pdfutil.NewRenderer(),
	)

	srv, err := server.New(cfg, db, syncService)
	if err != nil {
		log.Err(err).Fatal("server error")
	}

	graceful := signals.Setup()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort)
		lc := net.ListenConfig{}
		listener, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			log.Err(err).Fatal("failed to bind port")
		}

		log.Info("server started", logger.Data{"port": listener.Addr().(*net.TCPAddr).Port})

		err = srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Fatal("server stopped")
		}
		log.Info("server stopped")
	}()

	<-graceful
	log.Info("starting graceful shutdown")

	err = srv.Shutdown(ctx)
	if err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")

	err = db.Close()
	if err != nil {
		log.Err(err).Error("database close error")
	}
	log.Info("database closed")
}
