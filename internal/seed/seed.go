package seed

import (
	"fmt"
	"log/slog"

	"socialnet/internal/models"
	"socialnet/internal/observability"

	"gorm.io/gorm"
)

// Result reports what a seeding run created.
type Result struct {
	Users        int
	Follows      int
	Publications int
}

// ClearAll deletes publications, follows and users in dependency order.
func ClearAll(db *gorm.DB) error {
	for _, model := range []any{&models.Publication{}, &models.Follow{}, &models.User{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Run seeds users, then follow edges between them, then publications.
func Run(db *gorm.DB, opts Options) (*Result, error) {
	f, err := NewFactory(db, opts)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := range opts.NumUsers {
		u, err := f.CreateUser(i)
		if err != nil {
			return nil, fmt.Errorf("create user %d: %w", i, err)
		}
		users = append(users, u)
	}
	observability.Logger.Info("seeded users", slog.Int("count", len(users)))

	follows, err := f.CreateFollows(users, opts.FollowsPerUser)
	if err != nil {
		return nil, fmt.Errorf("create follows: %w", err)
	}
	observability.Logger.Info("seeded follows", slog.Int("count", follows))

	pubs, err := f.CreatePublications(users, opts.NumPublications)
	if err != nil {
		return nil, fmt.Errorf("create publications: %w", err)
	}
	observability.Logger.Info("seeded publications", slog.Int("count", pubs))

	return &Result{Users: len(users), Follows: follows, Publications: pubs}, nil
}
