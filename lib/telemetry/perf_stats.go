package telemetry

import (
	"context"
	"golfboard/internal/components/telemetry"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/process"
	"go.opentelemetry.io/otel"
)

const report_perf_stats_cpu = "perf-stats.cpu"

var meter = otel.Meter("golfboard.perf_stats")
var cpuGauge, _ = meter.Float64Gauge("cpu_usage")
var memoryGauge, _ = meter.Int64Gauge("allocated_mb")
var rssGauge, _ = meter.Int64Gauge("rss_mb")
var liveObjectsGauge, _ = meter.Int64Gauge("live_objects")
var goroutineGauge, _ = meter.Int64Gauge("goroutine_count")

// InstrumentPerfStats records runtime and host stats every interval until ctx
// is done.
func InstrumentPerfStats(ctx context.Context, interval time.Duration, tel telemetry.API) {
	go func() {
		var memStats runtime.MemStats
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		self, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
		if err != nil {
			tel.ReportWarning(report_perf_stats_cpu, err)
		}

		for {
			select {
			case <-ticker.C:
				runtime.ReadMemStats(&memStats)

				// an interval of 0 compares against the previous call
				cpuUsage, err := cpu.PercentWithContext(ctx, 0, false)
				if err == nil && len(cpuUsage) > 0 {
					cpuGauge.Record(ctx, cpuUsage[0])
				} else if err != nil {
					tel.ReportWarning(report_perf_stats_cpu, err)
				}
				if self != nil {
					mem, err := self.MemoryInfoWithContext(ctx)
					if err == nil {
						rssGauge.Record(ctx, int64(mem.RSS/1_000_000))
					}
				}

				memoryGauge.Record(ctx, int64(memStats.Alloc/1_000_000))
				liveObjectsGauge.Record(ctx, int64(memStats.Mallocs)-int64(memStats.Frees))
				goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))
			case <-ctx.Done():
				return
			}
		}
	}()
}
