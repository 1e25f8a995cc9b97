package config

import "time"

type ServerConfig struct {
	HTTP HTTPConfig `yaml:"http" mapstructure:"http"`
	CORS CORSConfig `yaml:"cors" mapstructure:"cors"`
}

type HTTPConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins" mapstructure:"allow_origins"`
}
