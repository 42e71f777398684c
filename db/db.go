package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"lottery_bot/config"
	"lottery_bot/logger"
	"lottery_bot/models"
)

func Init(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=true",
			cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBName)
		dialector = mysql.Open(dsn)
	default:
		dialector = sqlite.Open(cfg.DBPath + "?_busy_timeout=5000&_journal_mode=WAL")
	}

	logger.Debug("initializing database...")
	return open(dialector)
}

func open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.Ticket{}); err != nil {
		return nil, err
	}

	logger.Debug("initializing database... done")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}
