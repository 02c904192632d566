package seasonfile

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/okian/podium/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const messyDocument = `{
  "teams": [{"id": "t1", "name": "Scuderia", "color": "#dc0000"}],
  "drivers": [
    {"id": "d1", "name": "Alice", "teamId": "t1"},
    {"id": "d2", "name": "Bob"}
  ],
  "events": [
    {"id": "e1", "name": "Opener", "round": 1, "kind": "grandprix"},
    {"id": "e2", "name": "Sprint", "round": 2, "kind": "SPRINT"},
    {"id": "e3", "name": "Finale", "round": 3}
  ],
  "results": [
    {"eventId": "e1", "driverId": "d2", "position": "2nd", "status": "finished"},
    {"eventId": "e1", "driverId": "d1", "position": 1, "status": "Finished", "fastestLap": "yes"},
    {"eventId": "e2", "driverId": "d1", "position": -4, "status": "retired"},
    {"eventId": "e2", "driverId": "d1", "position": 3.7, "status": "DidNotFinish"}
  ]
}`

func TestDecode(t *testing.T) {
	Convey("Given a loosely typed season document", t, func() {
		season, rep, err := Decode(strings.NewReader(messyDocument))

		Convey("Then it decodes without error", func() {
			So(err, ShouldBeNil)
			So(season.Teams, ShouldHaveLength, 1)
			So(season.Drivers, ShouldHaveLength, 2)
		})

		Convey("Then event kinds are parsed leniently", func() {
			So(season.Events[0].Kind, ShouldEqual, model.GrandPrix)
			So(season.Events[1].Kind, ShouldEqual, model.Sprint)
			So(season.Events[2].Kind, ShouldEqual, model.GrandPrix)
		})

		Convey("Then results are normalized and ordered", func() {
			want := []model.ResultEntry{
				{EventID: "e1", DriverID: "d1", Position: 1, Status: model.Finished, FastestLap: true},
				{EventID: "e1", DriverID: "d2", Position: 2, Status: model.Finished},
				{EventID: "e2", DriverID: "d1", Position: 3, Status: model.DidNotFinish},
			}
			So(cmp.Diff(want, season.Results), ShouldBeEmpty)
		})

		Convey("Then the report counts the duplicate", func() {
			So(rep.Total, ShouldEqual, 4)
			So(rep.DuplicatesDropped, ShouldEqual, 1)
		})
	})

	Convey("Given malformed JSON", t, func() {
		_, _, err := Decode(strings.NewReader(`{"teams": [`))

		Convey("Then ErrDecode is returned", func() {
			So(errors.Is(err, ErrDecode), ShouldBeTrue)
		})
	})
}

func TestEncodeRoundTrip(t *testing.T) {
	Convey("Given a normalized season", t, func() {
		season, _, err := Decode(strings.NewReader(messyDocument))
		So(err, ShouldBeNil)

		Convey("When it is encoded and decoded again", func() {
			var buf bytes.Buffer
			So(Encode(&buf, season), ShouldBeNil)
			again, rep, err := Decode(&buf)

			Convey("Then nothing changes and nothing is repaired", func() {
				So(err, ShouldBeNil)
				So(rep.Repaired(), ShouldBeFalse)
				So(cmp.Diff(season, again, cmpopts.EquateEmpty()), ShouldBeEmpty)
			})
		})
	})
}

func TestEncodeCanonicalStatus(t *testing.T) {
	Convey("Given results using the long status spellings", t, func() {
		doc := `{"events": [{"id": "e1", "round": 1}], "drivers": [{"id": "d1", "name": "A"}, {"id": "d2", "name": "B"}],
  "results": [
    {"eventId": "e1", "driverId": "d1", "position": 1, "status": "DidNotFinish"},
    {"eventId": "e1", "driverId": "d2", "position": 2, "status": "didnotstart"}
  ]}`
		season, _, err := Decode(strings.NewReader(doc))
		So(err, ShouldBeNil)

		Convey("When the season is encoded", func() {
			var buf bytes.Buffer
			So(Encode(&buf, season), ShouldBeNil)

			Convey("Then the short forms are written", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, `"DNF"`)
				So(out, ShouldContainSubstring, `"DNS"`)
				So(out, ShouldNotContainSubstring, "DidNot")
				So(strings.ToLower(out), ShouldNotContainSubstring, "didnot")
			})
		})
	})
}

func TestDecodeParts(t *testing.T) {
	Convey("DecodeEvent parses the kind leniently", t, func() {
		e, err := DecodeEvent(strings.NewReader(`{"id":"e9","name":"Night","round":9,"kind":"sprint"}`))
		So(err, ShouldBeNil)
		So(e, ShouldResemble, model.Event{ID: "e9", Name: "Night", Round: 9, Kind: model.Sprint})
	})

	Convey("DecodeResults keeps raw shapes for the normalizer", t, func() {
		raw, err := DecodeResults(strings.NewReader(`[{"eventId":"e1","driverId":"d1","position":"4","fastestLap":1}]`))
		So(err, ShouldBeNil)
		So(raw, ShouldHaveLength, 1)
		So(raw[0].Position, ShouldEqual, "4")
	})

	Convey("DecodeResults rejects a non-array body", t, func() {
		_, err := DecodeResults(strings.NewReader(`{"eventId":"e1"}`))
		So(errors.Is(err, ErrDecode), ShouldBeTrue)
	})
}
