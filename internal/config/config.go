package config

import (
	"fmt"

	pkgconfig "github.com/shiv90154/CarrerPath-sub002/pkg/config"
)

// ServiceName is the config file name and the env prefix (PAYMENT_).
const ServiceName = "payment"

type Config struct {
	Service  ServiceConfig  `yaml:"service" mapstructure:"service"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	JWT      JWTConfig      `yaml:"jwt" mapstructure:"jwt"`
	Proof    ProofConfig    `yaml:"proof" mapstructure:"proof"`
	Payee    PayeeConfig    `yaml:"payee" mapstructure:"payee"`
	Storage  StorageConfig  `yaml:"storage" mapstructure:"storage"`
	Catalog  CatalogConfig  `yaml:"catalog" mapstructure:"catalog"`
	Redis    RedisConfig    `yaml:"redis" mapstructure:"redis"`
	Events   EventsConfig   `yaml:"events" mapstructure:"events"`
}

// LoadConfig reads configs/payment.yaml (or CONFIG_PATH) with PAYMENT_* overrides.
func LoadConfig() (*Config, error) {
	v, err := pkgconfig.Load(ServiceName, defaults())
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if c.Proof.MaxBytes <= 0 {
		return fmt.Errorf("proof.max_bytes must be positive")
	}
	if c.Payee.UPIID == "" {
		return fmt.Errorf("payee.upi_id is required")
	}
	switch c.Storage.Driver {
	case StorageDriverS3, StorageDriverMinio:
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required")
	}
	switch c.Catalog.Driver {
	case CatalogDriverMongo:
		if c.Catalog.MongoURI == "" {
			return fmt.Errorf("catalog.mongo_uri is required for the mongo driver")
		}
	case CatalogDriverStatic:
		if c.Catalog.File == "" {
			return fmt.Errorf("catalog.file is required for the static driver")
		}
	default:
		return fmt.Errorf("unknown catalog.driver %q", c.Catalog.Driver)
	}
	switch c.Events.Driver {
	case EventsDriverKafka, EventsDriverRedis, EventsDriverNone, "":
	default:
		return fmt.Errorf("unknown events.driver %q", c.Events.Driver)
	}
	return nil
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"service.name":                 ServiceName,
		"service.environment":          "development",
		"server.http.host":             "0.0.0.0",
		"server.http.port":             8080,
		"server.http.shutdown_timeout": "10s",
		"database.host":                "localhost",
		"database.port":                5432,
		"database.sslmode":             "disable",
		"database.max_open_conns":      25,
		"database.max_idle_conns":      5,
		"database.conn_max_lifetime":   "30m",
		"database.conn_max_idle_time":  "5m",
		"database.slow_threshold":      "200ms",
		"database.connect_attempts":    5,
		"log.level":                    "info",
		"log.format":                   "json",
		"log.output":                   "stdout",
		"jwt.admin_role":               "admin",
		"proof.max_bytes":              5 << 20,
		"proof.url_ttl":                "5m",
		"proof.key_prefix":             "proofs",
		"storage.driver":               StorageDriverMinio,
		"storage.region":               "ap-south-1",
		"catalog.driver":               CatalogDriverStatic,
		"catalog.mongo_database":       "careerpath",
		"redis.entitlement_ttl":        "10m",
		"events.driver":                EventsDriverNone,
		"events.topic":                 "order-events",
		"events.write_timeout":         "10s",
		"events.batch_timeout":         "10ms",
		"server.cors.allow_origins":    []string{"*"},
	}
}
