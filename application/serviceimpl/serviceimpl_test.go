package serviceimpl

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cold-17/smart-todo-app-sub000/domain/models"
	"github.com/cold-17/smart-todo-app-sub000/infrastructure/postgres"
)

// testRef is the fixed "now" most tests run at: Friday, 2025-01-10 09:00 UTC.
var testRef = time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)

// newTestDB opens an in-memory sqlite database with the same schema and
// error translation the production database uses.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A second pooled connection would see its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, postgres.Migrate(db))

	return db
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	id := uuid.New()
	user := &models.User{
		ID:       id,
		Email:    id.String()[:8] + "@example.com",
		Username: "user-" + id.String()[:8],
		Password: "hashed",
		Role:     "user",
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

func timePtr(t time.Time) *time.Time { return &t }
