package postgres

import (
	"log"

	"github.com/apostamax/affiliate-service/internal/config"
	"github.com/apostamax/affiliate-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.AffiliateConfig) *gorm.DB {
	dsn := cfg.AffiliateDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.AffiliateModel{},
		&models.CommissionModel{},
		&models.TransactionModel{},
		&models.CPAValidationModel{},
		&models.IndicationEventModel{},
		&models.ProgressionEventModel{},
		&models.SettlementPeriodModel{},
		&models.AffiliateSettlementModel{},
		&models.VaultModel{},
	)

	return db
}
