package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xenn00/pair-chat/internal/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitPostgres(dsn string) (*gorm.DB, *sql.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		log.Error().Msg(fmt.Errorf("failed to connect to database: %w", err).Error())
		return nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Error().Msg(fmt.Errorf("failed to get underlying sql.DB: %w", err).Error())
		return nil, nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxIdleTime(300 * time.Second)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := db.AutoMigrate(&entity.Room{}); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate room schema: %w", err)
	}

	// Partial unique index: at most one active room per canonical pair.
	// Concurrent creators race on this index and the loser re-reads, see
	// room_repo.FindOrCreateRoom.
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_rooms_active_pair
		 ON rooms (pair_key) WHERE status = 'active'`,
	).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create active pair index: %w", err)
	}

	log.Info().Msg("Postgres database connection established successfully")
	return db, sqlDB, nil
}
