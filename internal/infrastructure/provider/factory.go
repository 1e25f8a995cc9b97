package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shiv90154/CarrerPath-sub002/internal/adapter/cache"
	"github.com/shiv90154/CarrerPath-sub002/internal/config"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/provider"
	"github.com/shiv90154/CarrerPath-sub002/internal/infrastructure/provider/catalog"
	"github.com/shiv90154/CarrerPath-sub002/internal/infrastructure/provider/events"
	"github.com/shiv90154/CarrerPath-sub002/internal/infrastructure/provider/storage"
	"github.com/shiv90154/CarrerPath-sub002/pkg/messaging"
	"go.uber.org/zap"
)

// Providers are the external collaborators selected by configuration.
type Providers struct {
	Storage   provider.ObjectStorage
	Catalog   provider.Catalog
	Cache     provider.EntitlementCache
	Publisher provider.EventPublisher

	closers []func(ctx context.Context) error
}

// Close releases every client opened by the factory, last opened first.
func (p *Providers) Close(ctx context.Context) error {
	var errs []error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Factory creates providers based on the configured drivers
type Factory struct {
	config *config.Config
	logger *zap.Logger
}

// NewFactory creates a new provider factory
func NewFactory(config *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		config: config,
		logger: logger,
	}
}

// Build connects every provider. On error the ones already opened are closed.
func (f *Factory) Build(ctx context.Context) (*Providers, error) {
	p := &Providers{}

	fail := func(err error) (*Providers, error) {
		_ = p.Close(context.Background())
		return nil, err
	}

	var redisClient redis.UniversalClient
	if f.config.Redis.Addr != "" {
		client, err := f.createRedisClient(ctx)
		if err != nil {
			return fail(err)
		}
		redisClient = client
		p.closers = append(p.closers, func(context.Context) error { return client.Close() })
	}

	var err error
	if p.Storage, err = f.createStorage(ctx); err != nil {
		return fail(err)
	}
	if p.Catalog, err = f.createCatalog(ctx, p); err != nil {
		return fail(err)
	}
	if p.Publisher, err = f.createPublisher(redisClient); err != nil {
		return fail(err)
	}
	p.closers = append(p.closers, func(context.Context) error { return p.Publisher.Close() })

	if redisClient != nil {
		p.Cache = cache.NewRedisEntitlementCache(redisClient, f.config.Redis.EntitlementTTL, f.logger)
	} else {
		f.logger.Info("Redis not configured, entitlement cache disabled")
		p.Cache = cache.NoopEntitlementCache{}
	}

	return p, nil
}

func (f *Factory) createRedisClient(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     f.config.Redis.Addr,
		Password: f.config.Redis.Password,
		DB:       f.config.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	f.logger.Info("Connected to Redis", zap.String("addr", f.config.Redis.Addr))
	return client, nil
}

func (f *Factory) createStorage(ctx context.Context) (provider.ObjectStorage, error) {
	cfg := &f.config.Storage
	switch cfg.Driver {
	case config.StorageDriverS3:
		client, err := storage.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewS3Storage(client, cfg.Bucket, f.logger), nil
	case config.StorageDriverMinio:
		client, err := storage.NewMinioClient(cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewMinioStorage(client, cfg.Bucket), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

func (f *Factory) createCatalog(ctx context.Context, p *Providers) (provider.Catalog, error) {
	cfg := &f.config.Catalog
	switch cfg.Driver {
	case config.CatalogDriverMongo:
		client, err := catalog.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		p.closers = append(p.closers, client.Disconnect)
		return catalog.NewMongoCatalog(client.Database(cfg.MongoDatabase), f.logger), nil
	case config.CatalogDriverStatic:
		static, err := catalog.LoadStaticCatalog(cfg.File)
		if err != nil {
			return nil, err
		}
		return static, nil
	default:
		return nil, fmt.Errorf("unsupported catalog driver: %s", cfg.Driver)
	}
}

func (f *Factory) createPublisher(redisClient redis.UniversalClient) (provider.EventPublisher, error) {
	cfg := &f.config.Events
	switch cfg.Driver {
	case config.EventsDriverKafka:
		if len(cfg.Brokers) == 0 {
			f.logger.Warn("Kafka events enabled without brokers, publishing disabled")
			return events.NoopPublisher{}, nil
		}
		return events.NewKafkaPublisher(cfg, f.logger), nil
	case config.EventsDriverRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("events driver redis requires redis.addr")
		}
		return events.NewRedisPublisher(messaging.NewRedisPubSub(redisClient), cfg.Topic, f.logger), nil
	case config.EventsDriverNone, "":
		return events.NoopPublisher{}, nil
	default:
		return nil, fmt.Errorf("unsupported events driver: %s", cfg.Driver)
	}
}
