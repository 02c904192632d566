package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	app "github.com/okian/podium/internal/app"
	"github.com/okian/podium/internal/config"
	"github.com/okian/podium/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestNewStore(t *testing.T) {
	convey.Convey("Given store configurations", t, func() {
		ctx := context.Background()
		log := logger.Nop()

		convey.Convey("When the memory driver is selected", func() {
			cfg := config.New()
			store, err := newStore(ctx, cfg, log)

			convey.Convey("Then an empty store is returned", func() {
				convey.So(err, convey.ShouldBeNil)
				ids, err := store.List(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(ids, convey.ShouldBeEmpty)
				convey.So(store.Close(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the sqlite driver is selected", func() {
			cfg := config.New()
			cfg.StoreDriver = config.StoreSQLite
			cfg.SQLitePath = filepath.Join(t.TempDir(), "podium.db")
			store, err := newStore(ctx, cfg, log)

			convey.Convey("Then the database is created", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(store.Close(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When an unknown driver is selected", func() {
			cfg := config.New()
			cfg.StoreDriver = "etcd"
			_, err := newStore(ctx, cfg, log)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(errors.Is(err, config.ErrUnknownStoreDriver), convey.ShouldBeTrue)
		})
	})
}

func TestNewHandler(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		svc := app.New(app.WithLogger(logger.Nop()))
		convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
		defer svc.Stop()

		h := newHandler(svc, config.New(), logger.Nop())

		convey.Convey("Then health and metrics are served", func() {
			for _, path := range []string{"/healthz", "/metrics", "/stats", "/seasons"} {
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			}
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the background updaters", t, func() {
		svc := app.New(app.WithLogger(logger.Nop()))
		convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("Then they stop with their context", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() {
				startSystemMetricsUpdater(ctx)
				startServiceMetricsUpdater(ctx, svc)
			}, convey.ShouldNotPanic)
		})

		convey.Convey("Then a system metrics update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})
	})
}
