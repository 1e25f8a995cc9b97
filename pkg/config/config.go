// Package config loads service configuration files through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// configDir is the directory searched when CONFIG_PATH is unset.
const configDir = "configs"

// Load reads the YAML config for serviceName and returns the viper instance.
//
// CONFIG_PATH may point to a file or a directory. Without it the loader looks in
// configs/{APP_ENV} and then configs/. Every key can be overridden by an
// environment variable named {SERVICE}_{KEY} with dots replaced by underscores.
// A .env file in the working directory is loaded first when present.
func Load(serviceName string, defaults map[string]interface{}) (*viper.Viper, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigType("yaml")
	v.SetEnvPrefix(strings.ToUpper(serviceName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	configPath := os.Getenv("CONFIG_PATH")
	switch {
	case configPath != "" && filepath.Ext(configPath) != "":
		v.SetConfigFile(configPath)
	case configPath != "":
		v.SetConfigName(serviceName)
		v.AddConfigPath(configPath)
	default:
		v.SetConfigName(serviceName)
		v.AddConfigPath(filepath.Join(configDir, env))
		v.AddConfigPath(configDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return v, nil
}
