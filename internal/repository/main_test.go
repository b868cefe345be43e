package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vsp-live/profile-service/internal/domain"
	"github.com/vsp-live/profile-service/pkg/database"
)

// setupTestDB opens a fresh in-memory sqlite database per test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.New(&database.Config{
		Driver:   "sqlite",
		FilePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	})
	require.NoError(t, err)

	require.NoError(t, database.AutoMigrate(db, &domain.AvatarModel{}, &domain.ProfileModel{}))
	return db
}
