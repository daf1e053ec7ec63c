package goldbook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the shop settings. It is read from a YAML file and can be
// overridden by GOLDBOOK_* environment variables, a .env file included.
type Config struct {
	PageSize   int    `yaml:"page_size"`
	WeekStart  string `yaml:"week_start"`
	Timezone   string `yaml:"timezone"`
	DateLayout string `yaml:"date_layout"`
	Currency   string `yaml:"currency"`
	GoldRate   string `yaml:"gold_rate"` // currency per gram, a decimal string.

	Store StoreConfig `yaml:"store"`
	Kafka KafkaConfig `yaml:"kafka"`

	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`
}

// StoreConfig selects the ledger store.
type StoreConfig struct {
	Kind     string `yaml:"kind"`      // file, postgres or rest.
	Path     string `yaml:"path"`      // file store folder.
	DSN      string `yaml:"dsn"`       // postgres connection string.
	URL      string `yaml:"url"`       // REST backend base URL.
	Token    string `yaml:"token"`     // REST bearer token.
	DataPath string `yaml:"data_path"` // JSONPath of collections in REST responses.
}

// KafkaConfig enables change events when Brokers is set.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		PageSize:  10,
		WeekStart: "saturday",
		Timezone:  "Local",
		Currency:  DefaultCurrency,
		GoldRate:  "0",
		Store:     StoreConfig{Kind: "file", Path: ".goldbook", DataPath: "$"},
		Kafka:     KafkaConfig{Topic: "goldbook.changes"},
		LogLevel:  "warning",
	}
}

// LoadConfig reads the YAML file at path over the defaults, then applies the
// environment. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("cannot read config %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("cannot parse config %q: %w", path, err)
			}
		}
	}
	// .env is optional.
	_ = godotenv.Load()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// applyEnv overrides settings from the environment.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("GOLDBOOK_WEEK_START", &c.WeekStart)
	str("GOLDBOOK_TIMEZONE", &c.Timezone)
	str("GOLDBOOK_DATE_LAYOUT", &c.DateLayout)
	str("GOLDBOOK_CURRENCY", &c.Currency)
	str("GOLDBOOK_GOLD_RATE", &c.GoldRate)
	str("GOLDBOOK_STORE", &c.Store.Kind)
	str("GOLDBOOK_STORE_PATH", &c.Store.Path)
	str("GOLDBOOK_STORE_DSN", &c.Store.DSN)
	str("GOLDBOOK_STORE_URL", &c.Store.URL)
	str("GOLDBOOK_STORE_TOKEN", &c.Store.Token)
	str("GOLDBOOK_STORE_DATA_PATH", &c.Store.DataPath)
	str("GOLDBOOK_KAFKA_TOPIC", &c.Kafka.Topic)
	str("GOLDBOOK_LOG_LEVEL", &c.LogLevel)

	if v, ok := lookup("GOLDBOOK_PAGE_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid GOLDBOOK_PAGE_SIZE %q: %w", v, err)
		}
		c.PageSize = n
	}
	if v, ok := lookup("GOLDBOOK_KAFKA_BROKERS"); ok && v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	return nil
}

// Validate checks that every setting can be used.
func (c Config) Validate() error {
	var errs error
	if _, err := c.Location(); err != nil {
		errs = errors.Join(errs, err)
	}
	if _, err := c.FirstWeekday(); err != nil {
		errs = errors.Join(errs, err)
	}
	if _, err := c.Rate(); err != nil {
		errs = errors.Join(errs, err)
	}
	switch c.Store.Kind {
	case "file", "postgres", "rest":
	default:
		errs = errors.Join(errs, fmt.Errorf("unknown store kind %q want file, postgres or rest", c.Store.Kind))
	}
	return errs
}

// Location returns the configured time zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// FirstWeekday returns the configured first day of the week.
func (c Config) FirstWeekday() (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(c.WeekStart))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if name == strings.ToLower(d.String()) || name == strings.ToLower(d.String()[:3]) {
			return d, nil
		}
	}
	return time.Saturday, fmt.Errorf("invalid week start %q", c.WeekStart)
}

// Rate returns the fixed price of a gram of gold.
func (c Config) Rate() (Quantity, error) {
	if strings.TrimSpace(c.GoldRate) == "" {
		return Quantity{}, nil
	}
	q, err := ParseQuantity(c.GoldRate)
	if err != nil {
		return Quantity{}, fmt.Errorf("invalid gold rate %q: %w", c.GoldRate, err)
	}
	return q, nil
}

// Calendar returns the calendar described by the configuration.
func (c Config) Calendar() (*Calendar, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	ws, err := c.FirstWeekday()
	if err != nil {
		return nil, err
	}
	cal := NewCalendar(loc, ws)
	cal.Display = Gregorian{Layout: c.DateLayout}
	return cal, nil
}
