package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/pipstats/pypinfo/schema"
)

// Default values for configuration.
const (
	MaxResultLimit  = 1000
	DefaultCacheTTL = 24 * time.Hour
)

// Config holds the runtime configuration for a query run.
// This struct remains the "final, validated" config.
type Config struct {
	Project string
	Fields  []schema.Field

	StartDate string
	EndDate   string
	Days      int
	Limit     int
	Where     string
	OrderBy   string
	Pip       bool
	Percent   bool

	Output     schema.OutputMode
	OutputFile string
	Indent     int
	Verbose    bool

	CredsFile string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	UseColors bool // Enable colored messages on stderr
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	ProjectStr string
	FieldNames []string

	// --- Fields from rootCmd.PersistentFlags() ---
	Start          string `mapstructure:"start"`
	End            string `mapstructure:"end"`
	Days           int    `mapstructure:"days"`
	Limit          int    `mapstructure:"limit"`
	Where          string `mapstructure:"where"`
	Order          string `mapstructure:"order"`
	Pip            bool   `mapstructure:"pip"`
	Percent        bool   `mapstructure:"percent"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Indent         int    `mapstructure:"indent"`
	Verbose        bool   `mapstructure:"verbose"`
	CredsFile      string `mapstructure:"creds-file"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	CacheTTL       string `mapstructure:"cache-ttl"`
	Color          string `mapstructure:"color"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processFields(cfg, input); err != nil {
		return err
	}
	if err := validateOutputConfig(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all scalar query fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Project = strings.TrimSpace(input.ProjectStr)
	cfg.StartDate = strings.TrimSpace(input.Start)
	cfg.EndDate = strings.TrimSpace(input.End)
	cfg.Where = input.Where
	cfg.OrderBy = strings.TrimSpace(input.Order)
	cfg.Pip = input.Pip
	cfg.Percent = input.Percent
	cfg.Verbose = input.Verbose
	cfg.CredsFile = input.CredsFile

	if input.Days < 0 {
		return fmt.Errorf("days must be greater than 0 (received %d)", input.Days)
	}
	cfg.Days = input.Days

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.Limit = input.Limit

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	return nil
}

// processFields resolves the positional field names against the catalog.
func processFields(cfg *Config, input *ConfigRawInput) error {
	fields, err := schema.LookupFields(input.FieldNames)
	if err != nil {
		return err
	}
	cfg.Fields = fields
	return nil
}

// validateOutputConfig validates the output mode and its file requirements.
func validateOutputConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, markdown, json, parquet", input.Output)
	}
	cfg.OutputFile = input.OutputFile

	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	if input.Indent < 0 {
		return fmt.Errorf("indent cannot be negative (received %d)", input.Indent)
	}
	cfg.Indent = input.Indent

	return nil
}

// validateBackendConfig validates the cache backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid --cache-ttl value: %w", err)
		}
		if ttl <= 0 {
			return fmt.Errorf("cache-ttl must be positive (received %s)", ttl)
		}
		cfg.CacheTTL = ttl
	}

	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}
