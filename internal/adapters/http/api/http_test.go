package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/forgewatch/forgewatch/internal/adapters/http/api"
	"github.com/forgewatch/forgewatch/internal/adapters/ingest"
	"github.com/forgewatch/forgewatch/internal/app"
	"github.com/forgewatch/forgewatch/internal/domain/model"
	"github.com/forgewatch/forgewatch/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func testRecords(n int) []model.UnitRecord {
	recs := make([]model.UnitRecord, n)
	for i := range recs {
		recs[i] = model.UnitRecord{
			ID:          uint64(i + 1),
			Product:     model.ProductMedium,
			AirTempK:    298.6,
			ProcTempK:   309.1,
			RotSpeedRPM: 1480,
			TorqueNm:    39.4,
			ToolWearMin: float64(20 * i),
		}
	}
	return recs
}

func newTestServer(t *testing.T, n int, opts ...api.Option) (*httptest.Server, *app.Service) {
	t.Helper()
	svc := app.New(
		app.WithSource(ingest.NewSliceSource(testRecords(n))),
		app.WithTickInterval(time.Hour),
	)
	mux := http.NewServeMux()
	api.NewServer(svc, opts...).Register(context.Background(), mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(func() {
		ts.Close()
		svc.Stop()
	})
	return ts, svc
}

func postVerb(t *testing.T, ts *httptest.Server, verb string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/stream/"+verb, "application/json", nil)
	if err != nil {
		t.Fatalf("post %s: %v", verb, err)
	}
	return resp
}

func decodeState(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var body struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return body.State
}

func TestStreamControl(t *testing.T) {
	Convey("Given an idle pipeline behind the API", t, func() {
		ts, svc := newTestServer(t, 3)

		Convey("When driven through start, pause, step and stop", func() {
			resp := postVerb(t, ts, "start")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(decodeState(t, resp), ShouldEqual, string(app.StateRunning))

			resp = postVerb(t, ts, "pause")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(decodeState(t, resp), ShouldEqual, string(app.StatePaused))

			resp = postVerb(t, ts, "step")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(decodeState(t, resp), ShouldEqual, string(app.StatePaused))

			resp = postVerb(t, ts, "stop")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(decodeState(t, resp), ShouldEqual, string(app.StateStopped))

			Convey("Then exactly one unit was processed", func() {
				So(len(svc.Recent(context.Background(), 10)), ShouldEqual, 1)
			})
		})

		Convey("When stepping without pausing first", func() {
			resp := postVerb(t, ts, "step")
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusConflict)
		})

		Convey("When posting an unknown verb", func() {
			resp := postVerb(t, ts, "rewind")
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When using the wrong method", func() {
			resp, err := http.Get(ts.URL + "/stream/start")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given a paused pipeline at the end of its stream", t, func() {
		ts, svc := newTestServer(t, 1)
		So(svc.Start(context.Background()), ShouldBeNil)
		So(svc.Pause(context.Background()), ShouldBeNil)
		So(svc.Step(context.Background()), ShouldBeNil)

		Convey("When stepping past exhaustion", func() {
			resp := postVerb(t, ts, "step")

			Convey("Then the API reports the stopped state instead of an error", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(decodeState(t, resp), ShouldEqual, string(app.StateStopped))
			})
		})
	})
}

func TestReadEndpoints(t *testing.T) {
	ctx := context.Background()

	Convey("Given a pipeline with two processed units", t, func() {
		ts, svc := newTestServer(t, 5)
		So(svc.Start(ctx), ShouldBeNil)
		So(svc.Pause(ctx), ShouldBeNil)
		So(svc.Step(ctx), ShouldBeNil)
		So(svc.Step(ctx), ShouldBeNil)

		Convey("When fetching recent history", func() {
			resp, err := http.Get(ts.URL + "/history/recent?k=10")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var views []types.HistoryEntryView
			So(json.NewDecoder(resp.Body).Decode(&views), ShouldBeNil)

			Convey("Then entries come back oldest first", func() {
				So(len(views), ShouldEqual, 2)
				So(views[0].Reading.UnitID, ShouldEqual, 1)
				So(views[1].Reading.UnitID, ShouldEqual, 2)
				So(views[1].Decision.Priority, ShouldBeBetweenOrEqual, 1, 6)
			})
		})

		Convey("When fetching the latest decision", func() {
			resp, err := http.Get(ts.URL + "/decisions/latest")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var view types.DecisionView
			So(json.NewDecoder(resp.Body).Decode(&view), ShouldBeNil)
			So(view.UnitID, ShouldEqual, 2)
		})

		Convey("When fetching stats", func() {
			resp, err := http.Get(ts.URL + "/stats")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var stats map[string]interface{}
			So(json.NewDecoder(resp.Body).Decode(&stats), ShouldBeNil)
			So(stats["state"], ShouldEqual, string(app.StatePaused))
			So(stats["history_size"], ShouldEqual, 2.0)
		})

		Convey("When probing health", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})
	})

	Convey("Given an empty pipeline", t, func() {
		ts, _ := newTestServer(t, 3)

		Convey("Then the latest decision is not found", func() {
			resp, err := http.Get(ts.URL + "/decisions/latest")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then a missing k parameter is rejected", func() {
			resp, err := http.Get(ts.URL + "/history/recent")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then an oversized k parameter is rejected", func() {
			tsSmall, _ := newTestServer(t, 3, api.WithMaxRecent(5))
			resp, err := http.Get(tsSmall.URL + "/history/recent?k=50")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}
