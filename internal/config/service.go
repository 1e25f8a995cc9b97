package config

import "time"

type ServiceConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Version     string `yaml:"version" mapstructure:"version"`
}

type LogConfig struct {
	Level    string `yaml:"level" mapstructure:"level"`
	Format   string `yaml:"format" mapstructure:"format"`
	Output   string `yaml:"output" mapstructure:"output"`
	FilePath string `yaml:"file_path" mapstructure:"file_path"`
}

type JWTConfig struct {
	Secret    string `yaml:"secret" mapstructure:"secret"`
	AdminRole string `yaml:"admin_role" mapstructure:"admin_role"`
}

// ProofConfig controls screenshot uploads.
type ProofConfig struct {
	MaxBytes  int64         `yaml:"max_bytes" mapstructure:"max_bytes"`
	URLTTL    time.Duration `yaml:"url_ttl" mapstructure:"url_ttl"`
	KeyPrefix string        `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// PayeeConfig is shown to buyers as the UPI payment destination.
type PayeeConfig struct {
	UPIID string `yaml:"upi_id" mapstructure:"upi_id"`
	Name  string `yaml:"name" mapstructure:"name"`
}
