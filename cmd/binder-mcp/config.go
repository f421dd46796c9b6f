package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type config struct {
	APIURL    string
	Token     string
	ProjectID string
	LogLevel  string
}

var cfgFile string

func registerFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/binder-mcp/config.yaml)")
	cmd.Flags().String("api-url", "", "JotFrame API base URL")
	cmd.Flags().String("token", "", "API bearer token")
	cmd.Flags().String("log-level", "", "log level (trace, debug, info, warn, error)")
}

// loadConfig resolves configuration with the usual precedence: flags over
// environment (BINDER_ prefix) over config file over defaults.
func loadConfig(cmd *cobra.Command, args []string) (config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "binder-mcp"))
		}
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("BINDER")

	v.SetDefault("api_url", "http://localhost:8787")
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if f := cmd.Flags().Lookup("api-url"); f.Changed {
		v.Set("api_url", f.Value.String())
	}
	if f := cmd.Flags().Lookup("token"); f.Changed {
		v.Set("token", f.Value.String())
	}
	if f := cmd.Flags().Lookup("log-level"); f.Changed {
		v.Set("log_level", f.Value.String())
	}

	cfg := config{
		APIURL:    v.GetString("api_url"),
		Token:     v.GetString("token"),
		ProjectID: v.GetString("project_id"),
		LogLevel:  v.GetString("log_level"),
	}
	if len(args) > 0 {
		cfg.ProjectID = args[0]
	}
	if cfg.ProjectID == "" {
		return config{}, fmt.Errorf("project id required: pass it as an argument or set BINDER_PROJECT_ID")
	}

	return cfg, nil
}
