package config

import (
	"strings"
	"time"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const settingsEnvPrefix = "STEMS"

// Settings are the tunables shared by the server and the CLI. Every key can
// be overridden with a STEMS_ prefixed env var (STEMS_CLEANUP_DELAY=10s) or a
// stems.toml / stems.yaml in the working directory.
type Settings struct {
	DataDir            string        `mapstructure:"data_dir" validate:"required"`
	Port               string        `mapstructure:"port" validate:"required"`
	CleanupDelay       time.Duration `mapstructure:"cleanup_delay" validate:"gte=0"`
	MaxUploadBytes     int64         `mapstructure:"max_upload_bytes" validate:"gt=0"`
	RetentionPeriod    time.Duration `mapstructure:"retention_period" validate:"gte=0"`
	JanitorInterval    time.Duration `mapstructure:"janitor_interval" validate:"gt=0"`
	DefaultSplitType   string        `mapstructure:"default_split_type" validate:"oneof=2stems 4stems 5stems"`
	DefaultEngine      string        `mapstructure:"default_engine" validate:"oneof=spleeter demucs"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins" validate:"min=1"`
	LogLevel           string        `mapstructure:"log_level" validate:"oneof=debug info warn error fatal"`
}

func DefaultSettings() Settings {
	return Settings{
		DataDir:            "./data",
		Port:               ":5000",
		CleanupDelay:       5 * time.Second,
		MaxUploadBytes:     200 << 20,
		RetentionPeriod:    0,
		JanitorInterval:    10 * time.Minute,
		DefaultSplitType:   "4stems",
		DefaultEngine:      "spleeter",
		CORSAllowedOrigins: []string{"*"},
		LogLevel:           "info",
	}
}

func LoadSettings() (Settings, error) {
	return loadSettings(viper.New())
}

func loadSettings(v *viper.Viper) (Settings, error) {
	defaults := DefaultSettings()

	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("port", defaults.Port)
	v.SetDefault("cleanup_delay", defaults.CleanupDelay)
	v.SetDefault("max_upload_bytes", defaults.MaxUploadBytes)
	v.SetDefault("retention_period", defaults.RetentionPeriod)
	v.SetDefault("janitor_interval", defaults.JanitorInterval)
	v.SetDefault("default_split_type", defaults.DefaultSplitType)
	v.SetDefault("default_engine", defaults.DefaultEngine)
	v.SetDefault("cors_allowed_origins", defaults.CORSAllowedOrigins)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(settingsEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("stems")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, cerr.Wrap(err).Error("Failed to read settings file")
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, cerr.Wrap(err).Error("Failed to decode settings")
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

func (s Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return cerr.Field("settings", s).Wrap(err).Error("Invalid settings")
	}

	return nil
}
