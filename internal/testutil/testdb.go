// Package testutil provides shared fixtures for database-backed tests.
package testutil

import (
	"testing"
	"time"

	"parking-api/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewInMemoryDB opens a fresh in-memory SQLite database with the full schema.
func NewInMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Place{},
		&models.FreePlace{},
		&models.Message{},
	))
	return db
}

// CreateUser inserts a user with a bcrypt-hashed password.
func CreateUser(t *testing.T, db *gorm.DB, username, password string, role models.Role) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	u := models.User{
		Username: username,
		Password: string(hash),
		Lastname: username,
		Role:     role,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// CreatePlace inserts a place owned by ownerID.
func CreatePlace(t *testing.T, db *gorm.DB, number, ownerID int) models.Place {
	t.Helper()

	p := models.Place{Number: number, OwnerID: ownerID}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// CreateFreePlace puts a place into the free pool with the given window.
func CreateFreePlace(t *testing.T, db *gorm.DB, placeID int, from, to time.Time) models.FreePlace {
	t.Helper()

	fp := models.FreePlace{
		PlaceID:  placeID,
		DateFrom: from,
		DateTo:   to,
		Status:   models.StatusFree,
	}
	require.NoError(t, db.Create(&fp).Error)
	return fp
}
