// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"socialnet/internal/database"
	"socialnet/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a migrated in-memory database private to t.
// It is limited to one connection so concurrent readers see the same database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

var userSeq atomic.Uint64

// CreateUser inserts a user with unique nick and email.
func CreateUser(t *testing.T, db *gorm.DB, overrides ...func(*models.User)) *models.User {
	t.Helper()
	n := userSeq.Add(1)
	user := &models.User{
		Name:     "Test",
		Surname:  fmt.Sprintf("User%d", n),
		Nick:     fmt.Sprintf("user%d", n),
		Email:    fmt.Sprintf("user%d@example.com", n),
		Password: "hashed",
		Role:     models.RoleUser,
	}
	for _, o := range overrides {
		o(user)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreateFollow inserts the edge follower -> followed.
func CreateFollow(t *testing.T, db *gorm.DB, follower, followed uint) *models.Follow {
	t.Helper()
	follow := &models.Follow{UserID: follower, FollowedID: followed}
	if err := db.Create(follow).Error; err != nil {
		t.Fatalf("create follow: %v", err)
	}
	return follow
}

// CreatePublication inserts a publication by author at createdAt (unix seconds).
func CreatePublication(t *testing.T, db *gorm.DB, author uint, text string, createdAt int64) *models.Publication {
	t.Helper()
	pub := &models.Publication{UserID: author, Text: text, CreatedAt: createdAt}
	if err := db.Create(pub).Error; err != nil {
		t.Fatalf("create publication: %v", err)
	}
	return pub
}
