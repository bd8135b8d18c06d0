/*
Package monitoring records per-run Prometheus metrics for the launcher.

A launcher run is too short-lived to be scraped, so metrics are kept in a
private registry and, when a path is configured, written once at exit in the
text exposition format understood by node_exporter's textfile collector.

# Usage

	metrics := monitoring.NewMetrics()

	timer := monitoring.NewTimer(metrics, "connect_tv")
	err := tv.Connect(ctx, ip)
	timer.Stop(err, "adb_failure")

	metrics.RecordDecision("Transferred")
	metrics.Finish(err == nil)

	if path != "" {
	    _ = metrics.WriteTextfile(path)
	}

# Metrics

	spotifytv_step_duration_seconds{step,status}
	spotifytv_step_errors_total{step,kind}
	spotifytv_wake_events_total
	spotifytv_screen_on
	spotifytv_decisions_total{decision}
	spotifytv_run_duration_seconds
	spotifytv_run_success
	spotifytv_last_run_timestamp_seconds
*/
package monitoring
