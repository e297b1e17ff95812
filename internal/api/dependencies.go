package api

import (
	"context"
	"errors"
	"fmt"

	"airport-ops/tarmac/internal/common"
	"airport-ops/tarmac/internal/config"
	"airport-ops/tarmac/internal/constants"
	"airport-ops/tarmac/internal/db"
	"airport-ops/tarmac/internal/db/repositories"
	"airport-ops/tarmac/internal/events"
	"airport-ops/tarmac/internal/logging"
	"airport-ops/tarmac/internal/metrics"
	"airport-ops/tarmac/internal/services"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

type Repositories struct {
	Flights    services.FlightStore
	FlightList services.FlightQuery
	Airports   *repositories.AirportRepository
	Airlines   *repositories.AirlineRepository
	FlightLogs *repositories.FlightLogRepository
}

type Services struct {
	Cache     common.CacheInterface
	Publisher events.Publisher
	// Stream is set only when EVENT_SINK=redis; the audit workers read it
	Stream    *events.RedisStreamPublisher
	Directory *services.ReferenceDirectory
	Flights   *services.FlightPairService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Health   map[string]HealthCheck

	orm   *gorm.DB
	sqlDB *sqlx.DB
	mongo *mongo.Client
	redis *redis.Client
}

// InitDependencies opens every backend the configuration asks for and wires
// the flight engine on top of them
func InitDependencies(ctx context.Context, cfg *config.Config, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	deps := &Dependencies{Health: map[string]HealthCheck{}}
	ok := false
	defer func() {
		if !ok {
			deps.Close()
		}
	}()

	if err := deps.openDatabase(cfg); err != nil {
		return nil, err
	}
	if err := db.Migrate(deps.orm); err != nil {
		return nil, err
	}

	repos := &Repositories{
		Airports:   repositories.NewAirportRepository(deps.orm),
		Airlines:   repositories.NewAirlineRepository(deps.orm),
		FlightLogs: repositories.NewFlightLogRepository(deps.orm),
	}
	if err := deps.openFlightStore(ctx, cfg, repos); err != nil {
		return nil, err
	}

	if cfg.EventSink == "redis" || cfg.CacheBackend == "redis" {
		deps.redis = common.NewRedisClient(cfg.RedisAddr(), cfg.RedisPassword)
		client := deps.redis
		deps.Health["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}

	svcs := &Services{}
	switch cfg.CacheBackend {
	case "redis":
		svcs.Cache = common.NewRedisCacheService(deps.redis, "tarmac:")
	default:
		svcs.Cache = common.NewCacheService(cfg.ReferenceCacheTTL, 2*cfg.ReferenceCacheTTL)
	}

	switch cfg.EventSink {
	case "redis":
		svcs.Stream = events.NewRedisStreamPublisher(deps.redis, constants.FlightEventStream, 100000)
		svcs.Publisher = svcs.Stream
	case "nats":
		pub, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			return nil, err
		}
		svcs.Publisher = pub
	default:
		svcs.Publisher = events.NewLogPublisher()
	}

	svcs.Directory = services.NewReferenceDirectory(repos.Airports, repos.Airlines, svcs.Cache, cfg.ReferenceCacheTTL, metricsReg)
	svcs.Flights = services.NewFlightPairService(
		repos.Flights,
		repos.FlightList,
		services.NewReferenceValidator(repos.Airports, repos.Airlines),
		svcs.Directory,
		svcs.Publisher,
		metricsReg,
	)

	deps.Repo = repos
	deps.Services = svcs
	ok = true

	logging.Info("Dependencies initialized",
		"db_driver", cfg.DBDriver,
		"flight_store", cfg.FlightStore,
		"event_sink", svcs.Publisher.Name(),
		"cache_backend", cfg.CacheBackend,
	)
	return deps, nil
}

func (d *Dependencies) openDatabase(cfg *config.Config) error {
	var err error
	switch cfg.DBDriver {
	case "sqlite":
		d.orm, err = db.InitSQLiteORM(cfg.SQLitePath)
	default:
		d.orm, err = db.InitPostgresORM(cfg.PostgresDSN())
		if err == nil {
			d.sqlDB, err = db.InitPostgres(cfg.PostgresDSN())
		}
	}
	if err != nil {
		return err
	}

	sqlDB, err := d.orm.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	d.Health["database"] = sqlDB.PingContext
	return nil
}

func (d *Dependencies) openFlightStore(ctx context.Context, cfg *config.Config, repos *Repositories) error {
	if cfg.FlightStore == "mongo" {
		client, err := db.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return err
		}
		d.mongo = client
		d.Health["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }

		store, err := repositories.NewFlightMongoRepository(ctx, client.Database(cfg.MongoDB))
		if err != nil {
			return err
		}
		repos.Flights, repos.FlightList = store, store
		return nil
	}

	store := repositories.NewFlightRepository(d.orm)
	repos.Flights, repos.FlightList = store, store
	if d.sqlDB != nil {
		repos.FlightList = repositories.NewFlightQueryRepository(d.sqlDB)
	}
	return nil
}

// Close releases every connection opened by InitDependencies
func (d *Dependencies) Close() error {
	var errs []error
	if d.Services != nil && d.Services.Publisher != nil {
		errs = append(errs, d.Services.Publisher.Close())
	}
	if d.Services != nil && d.Services.Cache != nil {
		errs = append(errs, d.Services.Cache.Close())
	}
	if d.redis != nil {
		errs = append(errs, d.redis.Close())
	}
	if d.mongo != nil {
		errs = append(errs, d.mongo.Disconnect(context.Background()))
	}
	if d.sqlDB != nil {
		errs = append(errs, d.sqlDB.Close())
	}
	if d.orm != nil {
		if sqlDB, err := d.orm.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
