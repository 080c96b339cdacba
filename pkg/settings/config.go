package settings

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

type Config struct {
	Logger Logger `toml:"logger"`
	Soak   Soak   `toml:"soak"`
}

// Logger is the configuration for the logger
type Logger struct {
	LogLevel    string `toml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	FileLogName string `toml:"file_log_name"`
	MaxBackups  int    `toml:"max_backups" validate:"gte=0"`
	MaxAge      int    `toml:"max_age" validate:"gte=0"`  // Days
	MaxSize     int    `toml:"max_size" validate:"gte=0"` // Megabytes
	Compress    bool   `toml:"compress"`
}

// Soak is the configuration for the randomized queue soak run
type Soak struct {
	Workers       int   `toml:"workers" validate:"gte=1,lte=1024"`
	OpsPerWorker  int   `toml:"ops_per_worker" validate:"gte=1"`
	Seed          int64 `toml:"seed"`
	EnqueueWeight int   `toml:"enqueue_weight" validate:"gte=0"`
	DequeueWeight int   `toml:"dequeue_weight" validate:"gte=0"`
	ShrinkWeight  int   `toml:"shrink_weight" validate:"gte=0"`
	ReadWeight    int   `toml:"read_weight" validate:"gte=0"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Logger: Logger{
			LogLevel:   "info",
			MaxBackups: 3,
			MaxAge:     7,
			MaxSize:    100,
		},
		Soak: Soak{
			Workers:       4,
			OpsPerWorker:  100_000,
			Seed:          1,
			EnqueueWeight: 5,
			DequeueWeight: 4,
			ShrinkWeight:  1,
			ReadWeight:    3,
		},
	}
}

var validate = validator.New()

// Load reads a TOML file on top of Default and validates the result.
// An empty path returns the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config")
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config")
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	if c.Soak.EnqueueWeight+c.Soak.DequeueWeight+c.Soak.ShrinkWeight+c.Soak.ReadWeight == 0 {
		return errors.New("invalid config: soak weights are all zero")
	}
	return nil
}
