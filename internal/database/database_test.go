package database

import (
	"testing"

	"parking-api/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestEnsureAdmin_SeedsAdminRole(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)

	require.NoError(t, EnsureAdmin(db, "admin", "admin"))

	var u models.User
	require.NoError(t, db.Where("username = ?", "admin").First(&u).Error)
	// The zero-valued admin role must survive the insert as-is.
	require.Equal(t, models.RoleAdmin, u.Role)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("admin")))
}

func TestEnsureAdmin_LeavesExistingUsersAlone(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)

	require.NoError(t, EnsureAdmin(db, "admin", "admin"))
	require.NoError(t, EnsureAdmin(db, "admin2", "other"))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}
