package database

import (
	"parking-api/internal/models"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the SQLite database at path and runs migrations.
// Using glebarez/sqlite which is a pure Go implementation (no CGO required).
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate the schema (it will create tables if they don't exist)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Place{},
		&models.FreePlace{},
		&models.Message{},
	); err != nil {
		return nil, err
	}

	return db, nil
}

// EnsureAdmin seeds the initial administrator account on a fresh database
// so the first login is possible. Existing databases are left untouched.
func EnsureAdmin(db *gorm.DB, username, password string) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Username: username,
		Password: string(hash),
		Lastname: "Administrator",
		Role:     models.RoleAdmin,
	}
	return db.Create(&admin).Error
}
