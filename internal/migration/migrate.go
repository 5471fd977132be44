package migration

import (
	"github.com/foliopress/foliopress-backend/internal/domain"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for the content lifecycle tables and seeds
// default settings when the table is empty.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Content{},
		&domain.ContentVersion{},
		&domain.Setting{},
	); err != nil {
		return err
	}

	var count int64
	db.Model(&domain.Setting{}).Count(&count)
	if count == 0 {
		return seedSettings(db)
	}

	return nil
}

func seedSettings(db *gorm.DB) error {
	settings := make([]domain.Setting, len(domain.DefaultSettings))
	copy(settings, domain.DefaultSettings)
	return db.Create(&settings).Error
}
