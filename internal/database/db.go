package database

import (
	"fmt"
	"time"

	"go-clinic-panel/internal/config"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens MySQL (waiting for it to come up) and syncs the panel's own tables.
func Connect(dsn string) (*gorm.DB, error) {
	log := config.GetLogger()

	var db *gorm.DB
	var err error
	for i := 0; i < 5; i++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			break
		}
		log.Warnf("failed to connect to database, retrying in 2 seconds (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect mysql after 5 attempts: %w", err)
	}

	if err := db.AutoMigrate(&SessionValue{}); err != nil {
		return nil, fmt.Errorf("migrate session values: %w", err)
	}
	log.Info("connected to mysql, session table synced")
	return db, nil
}
