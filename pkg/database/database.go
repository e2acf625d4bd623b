package database

import (
	"fmt"
	"log"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedSubjects(db)

	return db, nil
}

// Migrate creates the schema. The composite unique indexes on module order,
// content order and the enrollment pair are part of the model tags, so they
// are enforced by the database rather than application logic.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Subject{},
		&model.Course{},
		&model.Module{},
		&model.Content{},
		&model.Text{},
		&model.File{},
		&model.Image{},
		&model.Video{},
		&model.Enrollment{},
	)
}

// seedSubjects inserts a starter category set on an empty database.
func seedSubjects(db *gorm.DB) {
	var count int64
	db.Model(&model.Subject{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.Subject{
		{Title: "Mathematics", Slug: "mathematics"},
		{Title: "Programming", Slug: "programming"},
		{Title: "Physics", Slug: "physics"},
		{Title: "Music", Slug: "music"},
	}
	for _, s := range defaults {
		db.Create(&s)
	}
}
