package config

import (
	"fmt"
	"os"
	"time"

	"github.com/Domenick1991/resourcebooking/internal/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
	Logger   LoggerConfig   `yaml:"logger"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type StorageConfig struct {
	Driver         string `yaml:"driver"`
	SeedSampleData bool   `yaml:"seed_sample_data"`
	RunMigrations  bool   `yaml:"run_migrations"`
}

// RedisConfig is optional: an empty Addr disables the snapshot cache and the
// distributed resource lock.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// KafkaConfig is optional: without brokers no events are published.
type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	ReservationTopic   string   `yaml:"reservation_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type BookingConfig struct {
	Resources           []string `yaml:"resources"`
	LockTTLSeconds      int      `yaml:"lock_ttl_seconds"`
	LockWaitMillis      int      `yaml:"lock_wait_millis"`
	SnapshotCacheTTL    int      `yaml:"snapshot_cache_ttl_seconds"`
	ReminderLeadMinutes int      `yaml:"reminder_lead_minutes"`
}

func (b BookingConfig) LockTTL() time.Duration {
	return time.Duration(b.LockTTLSeconds) * time.Second
}

func (b BookingConfig) LockWait() time.Duration {
	return time.Duration(b.LockWaitMillis) * time.Millisecond
}

func (b BookingConfig) SnapshotTTL() time.Duration {
	return time.Duration(b.SnapshotCacheTTL) * time.Second
}

func (b BookingConfig) ReminderLead() time.Duration {
	return time.Duration(b.ReminderLeadMinutes) * time.Minute
}

type WorkerConfig struct {
	ReminderSweepMinutes int `yaml:"reminder_sweep_minutes"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

// LoadConfig reads an optional .env file, then the YAML config at path, and
// fills in defaults for everything left unset.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Path resolves the config file location: explicit flag, then CONFIG_PATH, then config.yaml.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	_ = godotenv.Load()
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.GRPC.Address == "" {
		c.GRPC.Address = ":9090"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageMemory
	}
	if len(c.Booking.Resources) == 0 {
		c.Booking.Resources = append([]string(nil), domain.DefaultResources...)
	}
	if c.Booking.LockTTLSeconds <= 0 {
		c.Booking.LockTTLSeconds = 5
	}
	if c.Booking.LockWaitMillis <= 0 {
		c.Booking.LockWaitMillis = 2000
	}
	if c.Booking.SnapshotCacheTTL <= 0 {
		c.Booking.SnapshotCacheTTL = 30
	}
	if c.Booking.ReminderLeadMinutes <= 0 {
		c.Booking.ReminderLeadMinutes = 15
	}
	if c.Worker.ReminderSweepMinutes <= 0 {
		c.Worker.ReminderSweepMinutes = 1
	}
	if c.Kafka.ReservationTopic == "" {
		c.Kafka.ReservationTopic = "reservations"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "reservation-notifier"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}
