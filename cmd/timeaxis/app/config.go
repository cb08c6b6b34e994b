package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/timeaxis/pkg/constants"
	"github.com/agentstation/timeaxis/pkg/errors"
	"github.com/agentstation/timeaxis/pkg/logging"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Engine configuration
	Jobs        int
	Copy        bool
	OutputDir   string
	TruncSuffix string
	UnitsOut    string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (TIMEAXIS_ prefix)
// 3. .env files
// 4. Config file (~/.timeaxis.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig("")
}

// LoadConfigFile is LoadConfig with an explicit config file path.
func LoadConfigFile(path string) (*Config, error) {
	return loadConfig(path)
}

func loadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// units_out keeps the historical variable name of the side channel
	_ = v.BindEnv("units_out", constants.UnitsOutEnv)

	v.SetDefault("jobs", constants.DefaultJobs)
	v.SetDefault("trunc_suffix", constants.TruncSuffix)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		// Search for config in standard locations
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".timeaxis")

		// A missing config file is fine, a broken one is reported and skipped
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				logging.Warn().Err(err).Str("file", v.ConfigFileUsed()).Msg("Ignoring unreadable config file")
			}
		} else {
			logging.Debug().Str("file", v.ConfigFileUsed()).Msg("Loaded config file")
		}
	}

	config := &Config{
		// Global flags (may be overridden by cobra flags later)
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		Jobs:        v.GetInt("jobs"),
		Copy:        v.GetBool("copy"),
		OutputDir:   v.GetString("output_dir"),
		TruncSuffix: v.GetString("trunc_suffix"),
		UnitsOut:    v.GetString("units_out"),

		// LOG_* are shared with pkg/logging and read without the prefix
		LogLevel:  firstNonEmpty(v.GetString("log_level"), os.Getenv("LOG_LEVEL")),
		LogFormat: firstNonEmpty(os.Getenv("LOG_FORMAT"), v.GetString("log_format")),
		LogOutput: firstNonEmpty(os.Getenv("LOG_OUTPUT"), v.GetString("log_output")),
	}

	if config.Jobs < 1 {
		config.Jobs = constants.DefaultJobs
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
