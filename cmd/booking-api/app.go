package main

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/vedaclinic/booking-api/internal/api"
	"github.com/vedaclinic/booking-api/internal/api/handler"
	"github.com/vedaclinic/booking-api/internal/core/service"
	"github.com/vedaclinic/booking-api/internal/infrastructure/config"
	mongostore "github.com/vedaclinic/booking-api/internal/infrastructure/db/mongo"
	redisstore "github.com/vedaclinic/booking-api/internal/infrastructure/db/redis"
	"github.com/vedaclinic/booking-api/internal/infrastructure/directory"
	"github.com/vedaclinic/booking-api/pkg/logger"
)

// app is the composition root shared by every subcommand.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	mongoClient *mongo.Client
	db          *mongo.Database
	redis       *goredis.Client

	appointmentRepo *mongostore.AppointmentRepository
	authRepo        *mongostore.MongoAuthRepository
	profileRepo     *mongostore.ProfileRepository
	promotionRepo   *mongostore.PromotionRepository
	contactRepo     *mongostore.ContactRepository

	directory    *directory.Catalog
	availability *service.AvailabilityChecker
	appointments *service.AppointmentService
	auth         *service.AuthService
	gate         *service.IdentityGate
	admin        *service.AdminService
	contact      *service.ContactService
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	log := logger.Get()

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	a := &app{
		cfg:             cfg,
		log:             log,
		mongoClient:     client,
		db:              db,
		redis:           rdb,
		appointmentRepo: mongostore.NewAppointmentRepository(db),
		authRepo:        mongostore.NewAuthRepository(db),
		profileRepo:     mongostore.NewProfileRepository(db),
		promotionRepo:   mongostore.NewPromotionRepository(db),
		contactRepo:     mongostore.NewContactRepository(db),
		directory:       directory.Default(),
	}

	a.availability = service.NewAvailabilityChecker(a.appointmentRepo)
	a.appointments = service.NewAppointmentService(
		a.appointmentRepo,
		a.profileRepo,
		a.directory,
		a.availability,
		redisstore.NewIdempotencyStore(rdb, cfg.Booking.IdempotencyTTL),
		service.AppointmentConfig{Location: loc, HorizonDays: cfg.Booking.HorizonDays},
		logger.Component("appointments"),
	)
	a.auth = service.NewAuthService(a.authRepo, a.profileRepo, cfg.JWTSecret, cfg.Session.TTL, logger.Component("auth"))
	a.gate = service.NewIdentityGate(a.auth, redisstore.NewSessionStore(rdb), a.promotionRepo, logger.Component("identity"))
	a.admin = service.NewAdminService(a.appointmentRepo, a.profileRepo, a.promotionRepo, loc, logger.Component("admin"))
	a.contact = service.NewContactService(a.contactRepo, logger.Component("contact"))

	return a, nil
}

func (a *app) indexers() []mongostore.Indexer {
	return []mongostore.Indexer{a.appointmentRepo, a.authRepo, a.profileRepo, a.promotionRepo, a.contactRepo}
}

func (a *app) routerDeps() api.Deps {
	return api.Deps{
		Appointments: a.appointments,
		Availability: a.availability,
		Directory:    a.directory,
		Auth:         a.auth,
		Gate:         a.gate,
		Admin:        a.admin,
		Contact:      a.contact,
		Health: map[string]handler.CheckFunc{
			"mongodb": func(ctx context.Context) error { return a.mongoClient.Ping(ctx, readpref.Primary()) },
			"redis":   func(ctx context.Context) error { return a.redis.Ping(ctx).Err() },
		},
		RateLimitRPS:   a.cfg.RateLimit.RPS,
		RateLimitBurst: a.cfg.RateLimit.Burst,
		Logger:         logger.Component("http"),
	}
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.redis.Close(); err != nil {
		a.log.Warn().Err(err).Msg("redis close")
	}
	if err := a.mongoClient.Disconnect(ctx); err != nil {
		a.log.Warn().Err(err).Msg("mongo disconnect")
	}
}
