package metrics_test

import (
	"testing"

	"github.com/forgewatch/forgewatch/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a metrics manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		manager := metrics.NewManager(metrics.WithPrometheusRegistry(registry))
		So(manager, ShouldNotBeNil)

		Convey("Then registered metrics are gatherable", func() {
			families, err := registry.Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording pipeline events", func() {
			So(func() {
				metrics.RecordUnitProcessed()
				metrics.RecordDecision("monitor")
				metrics.RecordDegradedOutput("rul")
				metrics.ObserveInferenceLatency("anomaly", 0.002)
				metrics.ObserveTickDuration(0.01)
				metrics.RecordStateTransition("running")
				metrics.UpdateHistorySize(42)
				metrics.UpdateHistoryCapacity(500)
				metrics.RecordHistoryEviction()
				metrics.RecordPublished()
				metrics.RecordPublishDrop("dashboard")
				metrics.RecordHTTPRequest("stats", "200")
				metrics.ObserveHTTPDuration("stats", 0.001)
			}, ShouldNotPanic)
		})

		Convey("Then the shared registry serves them", func() {
			families, err := metrics.GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
