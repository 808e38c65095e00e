package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hopefoundation/hopedash/internal/derive"
	"github.com/hopefoundation/hopedash/internal/normalize"
	"github.com/hopefoundation/hopedash/internal/source"
)

// Defaults applied when neither flags nor the config file set a value.
const (
	DefaultAnchorDate   = "2019-01-01"
	DefaultListenAddr   = ":8080"
	DefaultOutputName   = "cleaned_data.csv"
	DefaultIncomePolicy = string(derive.ExcludeInvalidHousehold)
)

// Config holds all runtime configuration for a hopedash run.
type Config struct {
	DSN        string
	DataSource string // cleaned CSV/Parquet: local path, http(s):// or s3:// URL
	LogFormat  string // "text" or "json"
	ConfigPath string

	// Offline cleaner
	SourceDir    string
	SourceURL    string
	OutputDir    string
	WriteParquet bool

	// Dashboard
	ListenAddr    string
	AnchorDate    string
	ReferenceYear int // 0 means the current year at startup
	IncomePolicy  string

	// Export
	Force bool

	DateColumns      []string
	BirthDateColumns []string
	YesNoColumns     []string
	YesNoDateColumns []string
	Lookups          normalize.Lookups

	// S3-compatible object storage for s3:// data sources
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	DataSource       string            `yaml:"data_source"`
	AnchorDate       string            `yaml:"anchor_date"`
	ReferenceYear    int               `yaml:"reference_year"`
	IncomePolicy     string            `yaml:"income_policy"`
	DateColumns      []string          `yaml:"date_columns"`
	BirthDateColumns []string          `yaml:"birth_date_columns"`
	YesNoColumns     []string          `yaml:"yes_no_columns"`
	YesNoDateColumns []string          `yaml:"yes_no_date_columns"`
	Lookups          normalize.Lookups `yaml:"lookups"`
	S3               struct {
		Endpoint string `yaml:"endpoint"`
		UseSSL   *bool  `yaml:"use_ssl"`
	} `yaml:"s3"`
}

// New returns a Config populated with built-in defaults.
func New() Config {
	return Config{
		LogFormat:        "text",
		ListenAddr:       DefaultListenAddr,
		AnchorDate:       DefaultAnchorDate,
		IncomePolicy:     DefaultIncomePolicy,
		DateColumns:      []string{"grant_req_date"},
		BirthDateColumns: []string{"dob", "date_of_birth"},
		YesNoColumns:     []string{"application_signed?"},
		YesNoDateColumns: []string{"payment_submitted?"},
		Lookups:          normalize.DefaultLookups(),
		S3UseSSL:         true,
	}
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Values already set from flags are kept when the file leaves them empty.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if yc.DataSource != "" && c.DataSource == "" {
		c.DataSource = yc.DataSource
	}
	if yc.AnchorDate != "" {
		c.AnchorDate = yc.AnchorDate
	}
	if yc.ReferenceYear != 0 {
		c.ReferenceYear = yc.ReferenceYear
	}
	if yc.IncomePolicy != "" {
		c.IncomePolicy = yc.IncomePolicy
	}
	if len(yc.DateColumns) > 0 {
		c.DateColumns = normalize.ColumnNames(yc.DateColumns)
	}
	if len(yc.BirthDateColumns) > 0 {
		c.BirthDateColumns = normalize.ColumnNames(yc.BirthDateColumns)
	}
	if len(yc.YesNoColumns) > 0 {
		c.YesNoColumns = normalize.ColumnNames(yc.YesNoColumns)
	}
	if len(yc.YesNoDateColumns) > 0 {
		c.YesNoDateColumns = normalize.ColumnNames(yc.YesNoDateColumns)
	}
	if yc.S3.Endpoint != "" {
		c.S3Endpoint = yc.S3.Endpoint
	}
	if yc.S3.UseSSL != nil {
		c.S3UseSSL = *yc.S3.UseSSL
	}
	c.Lookups = c.Lookups.Merge(yc.Lookups)
	return c.validateSettings()
}

// validateSettings checks the values that have a closed domain.
func (c *Config) validateSettings() error {
	if _, ok := derive.ParseIncomePolicy(c.IncomePolicy); !ok {
		return fmt.Errorf("unknown income_policy %q (want %q or %q)",
			c.IncomePolicy, derive.ExcludeInvalidHousehold, derive.BucketUnknown)
	}
	if _, err := c.Anchor(); err != nil {
		return err
	}
	if len(c.Lookups.ValidStates) == 0 {
		return fmt.Errorf("lookups.valid_states must not be empty")
	}
	return nil
}

// Anchor parses AnchorDate.
func (c *Config) Anchor() (time.Time, error) {
	t := normalize.ParseDate(c.AnchorDate)
	if t == nil {
		return time.Time{}, fmt.Errorf("invalid anchor_date %q", c.AnchorDate)
	}
	return *t, nil
}

// RefYear returns the configured reference year for age derivation,
// falling back to the year of now.
func (c *Config) RefYear(now time.Time) int {
	if c.ReferenceYear != 0 {
		return c.ReferenceYear
	}
	return now.Year()
}

// Validate checks the settings needed to render reports.
func (c *Config) Validate() error {
	if c.DataSource == "" {
		return fmt.Errorf("--data or HOPEDASH_DATA is required")
	}
	return c.validateSettings()
}

// ValidateWithDSN checks both the data source and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or HOPEDASH_DB_URL is required")
	}
	return nil
}

// SourceOptions returns the transport settings for the data loader.
func (c *Config) SourceOptions() source.Options {
	return source.Options{
		S3Endpoint:  c.S3Endpoint,
		S3AccessKey: c.S3AccessKey,
		S3SecretKey: c.S3SecretKey,
		S3UseSSL:    c.S3UseSSL,
	}
}
