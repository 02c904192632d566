package normalize_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPosition(t *testing.T) {
	Convey("Given raw positions of various shapes", t, func() {
		cases := []struct {
			in    any
			want  int
			clean bool
		}{
			{nil, 1, false},
			{3, 3, true},
			{int64(7), 7, true},
			{float64(4), 4, true},
			{2.7, 2, false},
			{0, 1, false},
			{-4, 1, false},
			{float64(-0.5), 1, false},
			{math.NaN(), 1, false},
			{math.Inf(1), 1, false},
			{"5", 5, true},
			{" 12 ", 12, true},
			{"3rd", 3, false},
			{"2.9", 2, false},
			{"P1", 1, false},
			{"", 1, false},
			{"-2", 1, false},
			{json.Number("6"), 6, true},
			{json.Number("6.5"), 6, false},
			{true, 1, false},
			{[]int{1}, 1, false},
		}
		for _, c := range cases {
			got, clean := normalize.Position(c.in)
			So(got, ShouldEqual, c.want)
			So(clean, ShouldEqual, c.clean)
		}
	})
}

func TestTruthy(t *testing.T) {
	Convey("Given raw fastest-lap flags", t, func() {
		So(normalize.Truthy(nil), ShouldBeFalse)
		So(normalize.Truthy(false), ShouldBeFalse)
		So(normalize.Truthy(true), ShouldBeTrue)
		So(normalize.Truthy(0), ShouldBeFalse)
		So(normalize.Truthy(1), ShouldBeTrue)
		So(normalize.Truthy(float64(0)), ShouldBeFalse)
		So(normalize.Truthy(float64(2)), ShouldBeTrue)
		So(normalize.Truthy(int32(0)), ShouldBeFalse)
		So(normalize.Truthy(int32(2)), ShouldBeTrue)
		So(normalize.Truthy(float32(0)), ShouldBeFalse)
		So(normalize.Truthy(float32(1.5)), ShouldBeTrue)
		So(normalize.Truthy(""), ShouldBeFalse)
		So(normalize.Truthy("false"), ShouldBeFalse)
		So(normalize.Truthy("0"), ShouldBeFalse)
		So(normalize.Truthy("off"), ShouldBeFalse)
		So(normalize.Truthy("true"), ShouldBeTrue)
		So(normalize.Truthy("yes"), ShouldBeTrue)
		So(normalize.Truthy("on"), ShouldBeTrue)
		So(normalize.Truthy(map[string]any{}), ShouldBeTrue)
	})
}

func TestNormalize(t *testing.T) {
	Convey("Given a malformed bulk of raw results", t, func() {
		raw := []model.RawResult{
			{EventID: "e2", DriverID: "d1", Position: "2", Status: "Finished"},
			{EventID: "e1", DriverID: "d2", Position: nil, Status: "crashed", FastestLap: "true"},
			{EventID: "e1", DriverID: "d1", Position: -3, Status: "DNF"},
			{EventID: "e1", DriverID: "d3", Position: 2.0, Status: "DidNotStart", FastestLap: 1.0},
			{EventID: "e2", DriverID: "d1", Position: 4, Status: "dns"},
		}

		Convey("When normalizing with a report", func() {
			out, rep := normalize.NormalizeWithReport(raw)

			Convey("Then duplicates collapse to the last record", func() {
				So(out, ShouldHaveLength, 4)
				So(rep.DuplicatesDropped, ShouldEqual, 1)
				So(out[3], ShouldResemble, model.ResultEntry{
					EventID: "e2", DriverID: "d1", Position: 4, Status: model.DidNotStart,
				})
			})

			Convey("And invalid fields are coerced to safe defaults", func() {
				So(out[0], ShouldResemble, model.ResultEntry{
					EventID: "e1", DriverID: "d1", Position: 1, Status: model.DidNotFinish,
				})
				So(out[1], ShouldResemble, model.ResultEntry{
					EventID: "e1", DriverID: "d2", Position: 1, Status: model.Finished, FastestLap: true,
				})
				So(out[2], ShouldResemble, model.ResultEntry{
					EventID: "e1", DriverID: "d3", Position: 2, Status: model.DidNotStart, FastestLap: true,
				})
			})

			Convey("And the report counts every repair", func() {
				So(rep.Total, ShouldEqual, 5)
				So(rep.PositionsRepaired, ShouldEqual, 2)
				So(rep.StatusesRepaired, ShouldEqual, 1)
				So(rep.Repaired(), ShouldBeTrue)
			})

			Convey("And positions are never below 1", func() {
				for _, e := range out {
					So(e.Position, ShouldBeGreaterThanOrEqualTo, 1)
				}
			})
		})
	})

	Convey("Given an already normalized sequence", t, func() {
		first := normalize.Normalize([]model.RawResult{
			{EventID: "b", DriverID: "x", Position: 3, Status: "Finished"},
			{EventID: "a", DriverID: "y", Position: "1", Status: "DNF", FastestLap: true},
			{EventID: "a", DriverID: "z", Position: 1, Status: "Finished"},
		})

		Convey("When normalizing it again", func() {
			second, rep := normalize.NormalizeWithReport(normalize.Raw(first))

			Convey("Then the sequence is unchanged", func() {
				if diff := cmp.Diff(first, second); diff != "" {
					t.Errorf("normalize is not idempotent (-first +second):\n%s", diff)
				}
				So(rep.Repaired(), ShouldBeFalse)
			})
		})

		Convey("And surviving through JSON keeps it unchanged", func() {
			b, err := json.Marshal(normalize.Raw(first))
			So(err, ShouldBeNil)
			var back []model.RawResult
			So(json.Unmarshal(b, &back), ShouldBeNil)
			if diff := cmp.Diff(first, normalize.Normalize(back)); diff != "" {
				t.Errorf("JSON round trip changed results (-want +got):\n%s", diff)
			}
		})
	})

	Convey("Given nothing to normalize", t, func() {
		out, rep := normalize.NormalizeWithReport(nil)
		So(out, ShouldBeEmpty)
		So(rep.Total, ShouldEqual, 0)
	})
}
