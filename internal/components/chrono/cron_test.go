package chrono

import (
	"errors"
	"golfboard/internal/components/telemetry"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStandardCronSpec(t *testing.T) {
	rec := &telemetry.Recorder{}
	cron := NewStandardCron(rec, time.UTC)
	defer func() { <-cron.Stop() }()

	require.NoError(t, cron.Cron("*/10 * * * *", func() {}))
	require.NoError(t, cron.Cron("@every 1h", func() {}))
	require.Error(t, cron.Cron("every ten minutes", func() {}))
}

func TestCronLogger(t *testing.T) {
	rec := &telemetry.Recorder{}
	logger := cronLogger{tel: rec}

	logger.Info("skip", "entry", 1)
	logger.Error(errors.New("panic"), "job failed", "entry", 1)

	require.Equal(t, []string{"cron: skip"}, rec.IDs(telemetry.LevelDebug))
	require.Equal(t, []string{"cron"}, rec.IDs(telemetry.LevelBroken))
}

func TestFakeCron(t *testing.T) {
	cron := &FakeCron{}
	runs := 0
	require.NoError(t, cron.Cron("@hourly", func() { runs++ }))

	cron.Tick()
	cron.Tick()
	require.Equal(t, 2, runs)
	require.Equal(t, []string{"@hourly"}, cron.Specs())
	<-cron.Stop()
}
