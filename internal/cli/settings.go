package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	postgrest "github.com/pgrst/postgrest-query-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Settings is the resolved configuration of a pgrst invocation. Values come
// from flags, then PGRST_* environment variables, then the config file.
type Settings struct {
	postgrest.Config `mapstructure:",squash"`

	Token    string `mapstructure:"token"`
	LogLevel string `mapstructure:"log_level"`
	Retries  int    `mapstructure:"retries"`
	Metrics  bool   `mapstructure:"metrics"`
}

// flag name -> settings key
var boundFlags = map[string]string{
	"endpoint":  "endpoint",
	"token":     "token",
	"schema":    "schema",
	"log-level": "log_level",
	"retries":   "retries",
	"metrics":   "metrics",
}

// LoadSettings reads cfgFile, or pgrst.yaml from $HOME/.config or the working
// directory when cfgFile is empty. A missing default config file is not an
// error.
func LoadSettings(cfgFile string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("pgrst")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config"))
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("PGRST")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("log_level", "none")

	if flags != nil {
		for name, key := range boundFlags {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if s.Retries < 0 {
		return nil, fmt.Errorf("retries must not be negative, got %d", s.Retries)
	}
	return &s, nil
}

// clientConfig returns the client configuration with the token applied.
func (s *Settings) clientConfig() *postgrest.Config {
	config := s.Config
	if s.Token != "" {
		headers := make(map[string]string, len(config.Headers)+1)
		for k, v := range config.Headers {
			headers[k] = v
		}
		headers["Authorization"] = "Bearer " + s.Token
		config.Headers = headers
	}
	return &config
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "" || level == "none" {
		return zap.NewNop(), nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return config.Build()
}

func dumpMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
