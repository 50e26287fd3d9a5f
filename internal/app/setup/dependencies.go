package setup

import (
	"fmt"
	"time"

	"github.com/apostamax/affiliate-service/internal/config"
	"github.com/apostamax/affiliate-service/internal/domain"
	"github.com/apostamax/affiliate-service/internal/infrastructure/configprovider"
	publisher "github.com/apostamax/affiliate-service/internal/infrastructure/kafka"
	"github.com/apostamax/affiliate-service/internal/infrastructure/metrics"
	"github.com/apostamax/affiliate-service/internal/infrastructure/postgres"
	"github.com/apostamax/affiliate-service/internal/infrastructure/postgres/repository"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config     *config.AffiliateConfig
	DB         *gorm.DB
	Redis      *redis.Client
	Publisher  *publisher.DefaultKafkaPublisher
	Subscriber *publisher.DefaultKafkaSubscriber
	Tables     *configprovider.CachedProvider
	Metrics    *metrics.EngineMetrics
	UnitOfWork domain.UnitOfWork

	Repositories *Repositories
}

type Repositories struct {
	AffiliateRepo   domain.AffiliateRepository
	CommissionRepo  domain.CommissionRepository
	TransactionRepo domain.TransactionRepository
	ValidationRepo  domain.ValidationRepository
	SettlementRepo  domain.SettlementRepository
}

func InitializeDependencies() (*Dependencies, error) {
	cfg := config.MustLoad()

	db := postgres.MustInitDB(cfg)

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers)
	sub := publisher.NewDefaultKafkaSubscriber(brokers)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisService.Addr,
		Password: cfg.RedisService.Password,
		DB:       cfg.RedisService.DB,
	})

	engineMetrics := metrics.NewEngineMetrics()

	tablesAddr := fmt.Sprintf("http://%s:%s", cfg.ConfigService.Host, cfg.ConfigService.Port)
	tables := configprovider.NewCachedProvider(
		configprovider.NewHTTPTableLoader(tablesAddr),
		redisClient,
		time.Duration(cfg.ConfigService.CacheTTLSeconds)*time.Second,
		engineMetrics,
	)

	repos := &Repositories{
		AffiliateRepo:   repository.NewDefaultAffiliateRepository(db),
		CommissionRepo:  repository.NewDefaultCommissionRepository(db),
		TransactionRepo: repository.NewDefaultTransactionRepository(db),
		ValidationRepo:  repository.NewDefaultValidationRepository(db),
		SettlementRepo:  repository.NewDefaultSettlementRepository(db),
	}

	return &Dependencies{
		Config:       cfg,
		DB:           db,
		Redis:        redisClient,
		Publisher:    pub,
		Subscriber:   sub,
		Tables:       tables,
		Metrics:      engineMetrics,
		UnitOfWork:   repository.NewGormUnitOfWork(db),
		Repositories: repos,
	}, nil
}
