// Package seed creates demo data for development databases and tests.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"socialnet/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the plaintext password of every seeded account.
const DefaultPassword = "password123"

// Options controls how much data the seeder produces.
type Options struct {
	NumUsers        int
	FollowsPerUser  int
	NumPublications int
	// MaxDays spreads publication timestamps over this many past days.
	MaxDays int
	// BcryptCost defaults to bcrypt.DefaultCost when zero.
	BcryptCost int
}

// Factory builds entities with fake content and persists them.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
	hash string
}

// NewFactory hashes DefaultPassword once so every seeded user shares it.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}

	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(seed)), hash: string(hash)}, nil
}

// CreateUser persists a user with a unique nick and email.
func (f *Factory) CreateUser(n int, overrides ...func(*models.User)) (*models.User, error) {
	first := gofakeit.FirstName()
	user := &models.User{
		Name:     first,
		Surname:  gofakeit.LastName(),
		Nick:     fmt.Sprintf("%s%d", gofakeit.Username(), n),
		Email:    fmt.Sprintf("user%d.%s", n, gofakeit.Email()),
		Password: f.hash,
		Role:     models.RoleUser,
	}
	for _, o := range overrides {
		o(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateFollows links each user to up to perUser random others, never to
// itself and never twice. It returns the number of edges created.
func (f *Factory) CreateFollows(users []*models.User, perUser int) (int, error) {
	if len(users) < 2 || perUser <= 0 {
		return 0, nil
	}
	if perUser > len(users)-1 {
		perUser = len(users) - 1
	}

	var follows []models.Follow
	for i, u := range users {
		picked := make(map[int]bool, perUser)
		for len(picked) < perUser {
			j := f.rng.Intn(len(users))
			if j == i || picked[j] {
				continue
			}
			picked[j] = true
			follows = append(follows, models.Follow{UserID: u.ID, FollowedID: users[j].ID})
		}
	}

	if err := f.db.CreateInBatches(follows, 200).Error; err != nil {
		return 0, err
	}
	return len(follows), nil
}

// BuildPublication returns an unsaved publication by author dated within
// the last MaxDays days.
func (f *Factory) BuildPublication(author *models.User) models.Publication {
	back := time.Duration(f.rng.Intn(f.opts.MaxDays*24*60)) * time.Minute
	return models.Publication{
		UserID:    author.ID,
		Text:      gofakeit.Sentence(gofakeit.Number(4, 20)),
		CreatedAt: time.Now().Add(-back).Unix(),
	}
}

// CreatePublications spreads n publications over random authors.
func (f *Factory) CreatePublications(users []*models.User, n int) (int, error) {
	if len(users) == 0 || n <= 0 {
		return 0, nil
	}
	pubs := make([]models.Publication, 0, n)
	for range n {
		pubs = append(pubs, f.BuildPublication(users[f.rng.Intn(len(users))]))
	}
	if err := f.db.CreateInBatches(pubs, 200).Error; err != nil {
		return 0, err
	}
	return len(pubs), nil
}
