package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Astemirdum/library-circulation/pkg/kafka"
	"github.com/Astemirdum/library-circulation/pkg/logger"
	"github.com/Astemirdum/library-circulation/pkg/postgres"
	"github.com/Astemirdum/library-circulation/pkg/redis"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"CIRCULATION_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"CIRCULATION_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE"`
}

type Postmark struct {
	ServerToken  string `envconfig:"POSTMARK_SERVER_TOKEN" json:"-"`
	AccountToken string `envconfig:"POSTMARK_ACCOUNT_TOKEN" json:"-"`
	From         string `envconfig:"POSTMARK_FROM" default:"circulation@library.local"`
	ReplyTo      string `envconfig:"POSTMARK_REPLY_TO"`
}

type Transport struct {
	// Kind is one of postmark, kafka or log. Empty means log.
	Kind string `envconfig:"TRANSPORT"`

	BreakerWindow    int           `envconfig:"TRANSPORT_BREAKER_WINDOW" default:"20"`
	BreakerTimeout   time.Duration `envconfig:"TRANSPORT_BREAKER_TIMEOUT" default:"30s"`
	BreakerThreshold float64       `envconfig:"TRANSPORT_BREAKER_THRESHOLD" default:"0.5"`
	BreakerRecovery  int           `envconfig:"TRANSPORT_BREAKER_RECOVERY" default:"3"`
}

type Worker struct {
	BatchSize    uint64        `envconfig:"WORKER_BATCH_SIZE" default:"50"`
	Interval     time.Duration `envconfig:"WORKER_INTERVAL" default:"2m"`
	InitialDelay time.Duration `envconfig:"WORKER_INITIAL_DELAY" default:"30s"`
	Retention    time.Duration `envconfig:"WORKER_RETENTION" default:"2160h"`
	LockTTL      time.Duration `envconfig:"WORKER_LOCK_TTL" default:"5m"`
	// CleanupAt is the daily cleanup time, HH:MM.
	CleanupAt string `envconfig:"WORKER_CLEANUP_AT" default:"03:30"`
}

type Scanner struct {
	// RunAt lists the daily scan times, HH:MM.
	RunAt             []string      `envconfig:"SCANNER_RUN_AT" default:"09:00,18:00"`
	OverdueDedup      time.Duration `envconfig:"SCANNER_OVERDUE_DEDUP" default:"72h"`
	DueSoonWindow     time.Duration `envconfig:"SCANNER_DUE_SOON_WINDOW" default:"72h"`
	DueSoonDedup      time.Duration `envconfig:"SCANNER_DUE_SOON_DEDUP" default:"120h"`
	FinePerDayCents   int64         `envconfig:"FINE_PER_DAY_CENTS" default:"25"`
	ExpirySweepPeriod time.Duration `envconfig:"EXPIRY_SWEEP_PERIOD" default:"1h"`
}

type Reservation struct {
	HoldPeriod time.Duration `envconfig:"RESERVATION_HOLD_PERIOD" default:"120h"`
}

type Config struct {
	Server      HTTPServer `yaml:"server"`
	Database    postgres.DB
	Kafka       kafka.Config
	Redis       redis.Config
	Postmark    Postmark
	Transport   Transport
	Worker      Worker
	Scanner     Scanner
	Reservation Reservation
	Log         logger.Log `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		if err := envconfig.Process("", &config); err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
