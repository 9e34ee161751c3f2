package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewConfig(t *testing.T) {
	t.Setenv("CIRCULATION_HTTP_PORT", "9090")
	t.Setenv("SCANNER_RUN_AT", "08:15,20:45")
	t.Setenv("KAFKA_ADDRS", "kafka-1:9092,kafka-2:9092")

	cfg := NewConfig(
		WithLogLevel(zapcore.DebugLevel),
		WithWriteTimeout(time.Minute),
		WithTransport("kafka"),
	)

	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, time.Minute, cfg.Server.WriteTimeout)
	require.Equal(t, zapcore.DebugLevel, cfg.Log.LogLevel)
	require.Equal(t, "kafka", cfg.Transport.Kind)
	require.Equal(t, []string{"08:15", "20:45"}, cfg.Scanner.RunAt)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Addrs)

	require.Equal(t, uint64(50), cfg.Worker.BatchSize)
	require.Equal(t, 2*time.Minute, cfg.Worker.Interval)
	require.Equal(t, 90*24*time.Hour, cfg.Worker.Retention)
	require.Equal(t, 5*24*time.Hour, cfg.Reservation.HoldPeriod)
	require.Equal(t, 3*24*time.Hour, cfg.Scanner.OverdueDedup)
	require.Equal(t, 5*24*time.Hour, cfg.Scanner.DueSoonDedup)

	require.Same(t, cfg, NewConfig(), "config is read once")
}
