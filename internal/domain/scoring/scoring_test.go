package scoring_test

import (
	"testing"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func entry(driver string, pos int, status model.Status, fl bool) model.ResultEntry {
	return model.ResultEntry{EventID: "e1", DriverID: driver, Position: pos, Status: status, FastestLap: fl}
}

func TestScoreEvent(t *testing.T) {
	gp := model.Event{ID: "e1", Kind: model.GrandPrix, Round: 1}
	sprint := model.Event{ID: "e1", Kind: model.Sprint, Round: 1}

	Convey("Given a Grand Prix where the winner claims fastest lap", t, func() {
		out := scoring.ScoreEvent(gp, []model.ResultEntry{
			entry("D2", 2, model.Finished, false),
			entry("D1", 1, model.Finished, true),
		})

		Convey("Then the winner scores 25+1 and second place 18", func() {
			So(out, ShouldHaveLength, 2)
			So(out[0].DriverID, ShouldEqual, "D1")
			So(out[0].Points, ShouldEqual, 26)
			So(out[0].BasePoints, ShouldEqual, 25)
			So(out[0].FastestLapApplied, ShouldBeTrue)
			So(out[1].DriverID, ShouldEqual, "D2")
			So(out[1].Points, ShouldEqual, 18)
		})
	})

	Convey("Given a Sprint where the winner claims fastest lap", t, func() {
		out := scoring.ScoreEvent(sprint, []model.ResultEntry{entry("D1", 1, model.Finished, true)})

		Convey("Then no bonus is awarded", func() {
			So(out[0].Points, ShouldEqual, 8)
			So(out[0].FastestLapApplied, ShouldBeFalse)
		})
	})

	Convey("Given a Grand Prix with non-finishers", t, func() {
		out := scoring.ScoreEvent(gp, []model.ResultEntry{
			entry("D1", 1, model.DidNotFinish, false),
			entry("D2", 2, model.DidNotStart, false),
			entry("D3", 5, model.DidNotFinish, true),
		})

		Convey("Then non-finishers earn no base points", func() {
			So(out[0].Points, ShouldEqual, 0)
			So(out[1].Points, ShouldEqual, 0)
		})

		Convey("And a non-finisher inside the top ten still gets the fastest-lap bonus", func() {
			So(out[2].BasePoints, ShouldEqual, 0)
			So(out[2].Points, ShouldEqual, 1)
			So(out[2].FastestLapApplied, ShouldBeTrue)
		})
	})

	Convey("Given fastest lap claimed outside the top ten", t, func() {
		out := scoring.ScoreEvent(gp, []model.ResultEntry{
			entry("D10", 10, model.Finished, true),
			entry("D11", 11, model.Finished, true),
		})

		Convey("Then only position 10 earns the bonus", func() {
			So(out[0].Points, ShouldEqual, 2)
			So(out[1].Points, ShouldEqual, 0)
			So(out[1].FastestLapApplied, ShouldBeFalse)
		})
	})

	Convey("Given unsorted entries with shared positions", t, func() {
		out := scoring.ScoreEvent(gp, []model.ResultEntry{
			entry("c", 3, model.Finished, false),
			entry("b", 1, model.Finished, false),
			entry("a", 1, model.Finished, false),
		})

		Convey("Then outcomes come back ordered by position then driver", func() {
			So(out[0].DriverID, ShouldEqual, "a")
			So(out[1].DriverID, ShouldEqual, "b")
			So(out[2].DriverID, ShouldEqual, "c")
			So(out[0].Points, ShouldEqual, 25)
			So(out[1].Points, ShouldEqual, 25)
			So(scoring.Total(out), ShouldEqual, 65)
		})
	})

	Convey("Given no entries", t, func() {
		So(scoring.ScoreEvent(gp, nil), ShouldBeEmpty)
	})
}

func TestFastestLapEligible(t *testing.T) {
	Convey("Bonus applies iff GrandPrix, claimed and position <= 10", t, func() {
		for _, kind := range []model.EventKind{model.GrandPrix, model.Sprint} {
			for _, claimed := range []bool{true, false} {
				for pos := 1; pos <= 12; pos++ {
					e := entry("d", pos, model.Finished, claimed)
					want := kind == model.GrandPrix && claimed && pos <= 10
					So(scoring.FastestLapEligible(kind, e), ShouldEqual, want)
				}
			}
		}
	})
}
