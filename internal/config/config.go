// Package config loads service configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full runtime configuration of the registration service.
type Config struct {
	Server    Server
	Database  Database
	Rules     Rules
	Services  Services
	Worker    Worker
	Kafka     Kafka
	Redis     Redis
	Welcome   Welcome
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Server holds HTTP listener settings.
type Server struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Database holds PostgreSQL connection settings.
type Database struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName   string `env:"DB_NAME" envDefault:"hellomama_registration"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConns int32  `env:"DB_MAX_CONNS" envDefault:"20"`
	MinConns int32  `env:"DB_MIN_CONNS" envDefault:"2"`
}

// DSN builds a libpq-compatible connection string.
func (c Database) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// URL builds a connection URL for the migration driver.
func (c Database) URL() string {
	return fmt.Sprintf(
		"pgx5://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Rules configures registration validation: week bounds and the
// enumerations the field validators accept.
type Rules struct {
	PrebirthMinWeeks  int      `env:"PREBIRTH_MIN_WEEKS" envDefault:"10"`
	PrebirthMaxWeeks  int      `env:"PREBIRTH_MAX_WEEKS" envDefault:"42"`
	PostbirthMinWeeks int      `env:"POSTBIRTH_MIN_WEEKS" envDefault:"0"`
	PostbirthMaxWeeks int      `env:"POSTBIRTH_MAX_WEEKS" envDefault:"52"`
	Languages         []string `env:"LANGUAGES" envSeparator:"," envDefault:"eng_NG,hau_NG,ibo_NG,yor_NG,pcm_NG"`
	MsgTypes          []string `env:"MSG_TYPES" envSeparator:"," envDefault:"text,audio"`
	MsgReceivers      []string `env:"MSG_RECEIVERS" envSeparator:"," envDefault:"mother_father,mother_only,father_only,mother_family,mother_friend,friend_only,family_only"`
	LossReasons       []string `env:"LOSS_REASONS" envSeparator:"," envDefault:"miscarriage,stillborn,baby_died"`
}

// DefaultRules returns the rule set used when no environment overrides apply.
func DefaultRules() Rules {
	return Rules{
		PrebirthMinWeeks:  10,
		PrebirthMaxWeeks:  42,
		PostbirthMinWeeks: 0,
		PostbirthMaxWeeks: 52,
		Languages:         []string{"eng_NG", "hau_NG", "ibo_NG", "yor_NG", "pcm_NG"},
		MsgTypes:          []string{"text", "audio"},
		MsgReceivers: []string{
			"mother_father", "mother_only", "father_only", "mother_family",
			"mother_friend", "friend_only", "family_only",
		},
		LossReasons: []string{"miscarriage", "stillborn", "baby_died"},
	}
}

// Services holds the endpoints of the collaborating seed services.
type Services struct {
	StageBasedMessagingURL   string        `env:"STAGE_BASED_MESSAGING_URL" envDefault:"http://localhost:8005/api/v1"`
	StageBasedMessagingToken string        `env:"STAGE_BASED_MESSAGING_TOKEN"`
	IdentityStoreURL         string        `env:"IDENTITY_STORE_URL" envDefault:"http://localhost:8001/api/v1"`
	IdentityStoreToken       string        `env:"IDENTITY_STORE_TOKEN"`
	MessageSenderURL         string        `env:"MESSAGE_SENDER_URL" envDefault:"http://localhost:8006/api/v1"`
	MessageSenderToken       string        `env:"MESSAGE_SENDER_TOKEN"`
	RequestTimeout           time.Duration `env:"SERVICE_REQUEST_TIMEOUT" envDefault:"5s"`
	MaxTries                 uint          `env:"SERVICE_MAX_TRIES" envDefault:"3"`
	DescriptorCacheTTL       time.Duration `env:"DESCRIPTOR_CACHE_TTL" envDefault:"10m"`
}

// Worker configures the validation worker pool.
type Worker struct {
	Concurrency int           `env:"WORKER_CONCURRENCY" envDefault:"4"`
	QueueSize   int           `env:"WORKER_QUEUE_SIZE" envDefault:"256"`
	TaskTimeout time.Duration `env:"WORKER_TASK_TIMEOUT" envDefault:"30s"`
	MaxAttempts int           `env:"WORKER_MAX_ATTEMPTS" envDefault:"3"`
	RetryDelay  time.Duration `env:"WORKER_RETRY_DELAY" envDefault:"2s"`
}

// Kafka configures the validation task topic. Empty Brokers keeps task
// submission in-process.
type Kafka struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_VALIDATION_TOPIC" envDefault:"registrations.validate"`
	GroupID string   `env:"KAFKA_GROUP_ID" envDefault:"hellomama-registration"`
}

// Enabled reports whether a broker list was configured.
func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0
}

// Redis configures the descriptor cache. An empty URL disables it.
type Redis struct {
	URL string `env:"REDIS_URL"`
}

// Welcome configures the welcome-audio assets attached to new subscriptions.
type Welcome struct {
	PublicHost string `env:"PUBLIC_HOST" envDefault:"http://registration.dev.example.org"`
	AudioPath  string `env:"WELCOME_AUDIO_PATH" envDefault:"static/audio/registration"`
}

// FromEnv parses the configuration and validates it.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations that make the engine misbehave.
func (c Config) Validate() error {
	var errs []error
	r := c.Rules
	if r.PrebirthMinWeeks > r.PrebirthMaxWeeks {
		errs = append(errs, fmt.Errorf("prebirth week bounds inverted: %d > %d", r.PrebirthMinWeeks, r.PrebirthMaxWeeks))
	}
	if r.PostbirthMinWeeks > r.PostbirthMaxWeeks {
		errs = append(errs, fmt.Errorf("postbirth week bounds inverted: %d > %d", r.PostbirthMinWeeks, r.PostbirthMaxWeeks))
	}
	if r.PostbirthMinWeeks < 0 {
		errs = append(errs, errors.New("postbirth minimum weeks cannot be negative"))
	}
	if c.Worker.Concurrency < 1 {
		errs = append(errs, errors.New("worker concurrency must be at least 1"))
	}
	if c.Worker.MaxAttempts < 1 {
		errs = append(errs, errors.New("worker max attempts must be at least 1"))
	}
	if c.Services.MaxTries < 1 {
		errs = append(errs, errors.New("service max tries must be at least 1"))
	}
	return errors.Join(errs...)
}
