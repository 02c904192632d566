package repository

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/okian/podium/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func fixtureSeason() model.Season {
	return model.Season{
		Teams:   []model.Team{{ID: "t1", Name: "Scuderia"}},
		Drivers: []model.Driver{{ID: "d1", Name: "Alice", TeamID: "t1"}, {ID: "d2", Name: "Bob"}},
		Events: []model.Event{
			{ID: "e1", Name: "Opener", Round: 1, Kind: model.GrandPrix},
			{ID: "e2", Name: "Sprint", Round: 2, Kind: model.Sprint},
		},
		Results: []model.ResultEntry{
			{EventID: "e1", DriverID: "d1", Position: 1, Status: model.Finished, FastestLap: true},
			{EventID: "e1", DriverID: "d2", Position: 2, Status: model.Finished},
			{EventID: "e2", DriverID: "d2", Position: 1, Status: model.Finished},
		},
	}
}

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "seasons.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestStores(t *testing.T) {
	for name, store := range openStores(t) {
		ctx := context.Background()

		Convey("Given an empty "+name+" store", t, func() {
			Convey("Unknown seasons are not found", func() {
				_, err := store.Load(ctx, "missing")
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				So(errors.Is(store.Delete(ctx, "missing"), ErrNotFound), ShouldBeTrue)
				_, err = store.ReplaceEventResults(ctx, "missing", "e1", nil)
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})

			Convey("Empty season ids are rejected", func() {
				_, err := store.Load(ctx, " ")
				So(errors.Is(err, ErrInvalidSeasonID), ShouldBeTrue)
				So(errors.Is(store.Save(ctx, "", model.Season{}), ErrInvalidSeasonID), ShouldBeTrue)
			})
		})

		Convey("Given a saved season in the "+name+" store", t, func() {
			So(store.Save(ctx, "2024", fixtureSeason()), ShouldBeNil)
			Reset(func() { _ = store.Delete(ctx, "2024") })

			Convey("Load returns what was saved", func() {
				got, err := store.Load(ctx, "2024")
				So(err, ShouldBeNil)
				So(cmp.Diff(fixtureSeason(), got, cmpopts.EquateEmpty()), ShouldBeEmpty)
			})

			Convey("List includes the season", func() {
				ids, err := store.List(ctx)
				So(err, ShouldBeNil)
				So(ids, ShouldContain, "2024")
			})

			Convey("Mutating a loaded copy does not touch the store", func() {
				got, _ := store.Load(ctx, "2024")
				got.Results[0].Position = 9
				again, _ := store.Load(ctx, "2024")
				So(again.Results[0].Position, ShouldEqual, 1)
			})

			Convey("ReplaceEventResults swaps only the target event", func() {
				grid := []model.ResultEntry{
					{EventID: "e1", DriverID: "d2", Position: 1, Status: model.Finished},
					{EventID: "e1", DriverID: "d1", Position: 2, Status: model.DidNotFinish},
				}
				next, err := store.ReplaceEventResults(ctx, "2024", "e1", grid)
				So(err, ShouldBeNil)

				want := []model.ResultEntry{
					{EventID: "e1", DriverID: "d2", Position: 1, Status: model.Finished},
					{EventID: "e1", DriverID: "d1", Position: 2, Status: model.DidNotFinish},
					{EventID: "e2", DriverID: "d2", Position: 1, Status: model.Finished},
				}
				So(cmp.Diff(want, next.Results), ShouldBeEmpty)

				stored, err := store.Load(ctx, "2024")
				So(err, ShouldBeNil)
				So(cmp.Diff(want, stored.Results), ShouldBeEmpty)
			})

			Convey("Replacing with an empty grid clears the event", func() {
				next, err := store.ReplaceEventResults(ctx, "2024", "e2", nil)
				So(err, ShouldBeNil)
				So(next.Results, ShouldHaveLength, 2)
			})

			Convey("Delete removes the season", func() {
				So(store.Delete(ctx, "2024"), ShouldBeNil)
				_, err := store.Load(ctx, "2024")
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})
		})
	}
}

func TestMemoryStore_ConcurrentReplace(t *testing.T) {
	Convey("Given concurrent replacements of different events", t, func() {
		ctx := context.Background()
		store := NewMemoryStore()
		So(store.Save(ctx, "s", fixtureSeason()), ShouldBeNil)

		var wg sync.WaitGroup
		for _, eventID := range []string{"e1", "e2"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = store.ReplaceEventResults(ctx, "s", eventID, []model.ResultEntry{
					{EventID: eventID, DriverID: "d1", Position: 1, Status: model.Finished},
				})
			}()
		}
		wg.Wait()

		Convey("Then both grids survive", func() {
			got, err := store.Load(ctx, "s")
			So(err, ShouldBeNil)
			So(got.Results, ShouldHaveLength, 2)
		})
	})
}
