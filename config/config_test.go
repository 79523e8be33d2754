package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, ":9090", cfg.GRPC.Address)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Len(t, cfg.Booking.Resources, 5)
	assert.Equal(t, 5*time.Second, cfg.Booking.LockTTL())
	assert.Equal(t, 2*time.Second, cfg.Booking.LockWait())
	assert.Equal(t, 30*time.Second, cfg.Booking.SnapshotTTL())
	assert.Equal(t, 15*time.Minute, cfg.Booking.ReminderLead())
	assert.Equal(t, 1, cfg.Worker.ReminderSweepMinutes)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
}

func TestParse_Values(t *testing.T) {
	raw := `
http:
  address: ":8181"
storage:
  driver: postgres
  run_migrations: true
database:
  host: db
  port: 5432
  user: booking
  password: secret
  name: bookings
  ssl_mode: disable
redis:
  addr: "redis:6379"
kafka:
  brokers: ["kafka:9092"]
  reservation_topic: res
  notifications_topic: notes
booking:
  resources: ["Room 1", "Room 2"]
  lock_wait_millis: 250
logger:
  level: debug
`
	cfg, err := Parse([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, ":8181", cfg.HTTP.Address)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.True(t, cfg.Storage.RunMigrations)
	assert.Equal(t, "host=db port=5432 user=booking password=secret dbname=bookings sslmode=disable", cfg.Database.DSN())
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, "res", cfg.Kafka.ReservationTopic)
	assert.Equal(t, []string{"Room 1", "Room 2"}, cfg.Booking.Resources)
	assert.Equal(t, 250*time.Millisecond, cfg.Booking.LockWait())
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestParse_UnknownDriver(t *testing.T) {
	_, err := Parse([]byte("storage:\n  driver: mongo\n"))
	assert.Error(t, err)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("http: ["))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  address: \":9999\"\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTP.Address)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPath(t *testing.T) {
	assert.Equal(t, "explicit.yaml", Path("explicit.yaml"))

	t.Setenv("CONFIG_PATH", "/etc/booking.yaml")
	assert.Equal(t, "/etc/booking.yaml", Path(""))

	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, "config.yaml", Path(""))
}
