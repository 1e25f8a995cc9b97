package config

import "time"

const (
	StorageDriverS3    = "s3"
	StorageDriverMinio = "minio"

	CatalogDriverMongo  = "mongo"
	CatalogDriverStatic = "static"

	EventsDriverKafka = "kafka"
	EventsDriverRedis = "redis"
	EventsDriverNone  = "none"
)

type StorageConfig struct {
	Driver    string `yaml:"driver" mapstructure:"driver"`
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	Region    string `yaml:"region" mapstructure:"region"`
	Bucket    string `yaml:"bucket" mapstructure:"bucket"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
}

type CatalogConfig struct {
	Driver        string `yaml:"driver" mapstructure:"driver"`
	File          string `yaml:"file" mapstructure:"file"`
	MongoURI      string `yaml:"mongo_uri" mapstructure:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database" mapstructure:"mongo_database"`
}

// RedisConfig is optional; an empty Addr disables the entitlement cache.
type RedisConfig struct {
	Addr           string        `yaml:"addr" mapstructure:"addr"`
	Password       string        `yaml:"password" mapstructure:"password"`
	DB             int           `yaml:"db" mapstructure:"db"`
	EntitlementTTL time.Duration `yaml:"entitlement_ttl" mapstructure:"entitlement_ttl"`
}

type EventsConfig struct {
	Driver       string        `yaml:"driver" mapstructure:"driver"`
	Brokers      []string      `yaml:"brokers" mapstructure:"brokers"`
	Topic        string        `yaml:"topic" mapstructure:"topic"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	BatchTimeout time.Duration `yaml:"batch_timeout" mapstructure:"batch_timeout"`
}
