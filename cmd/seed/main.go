// Command seed fills the configured database with demo users, follows and publications.
package main

import (
	"flag"
	"log"

	"socialnet/internal/config"
	"socialnet/internal/database"
	"socialnet/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	follows := flag.Int("follows", 10, "Follows created per user")
	numPosts := flag.Int("posts", 200, "Number of publications to create")
	days := flag.Int("days", 30, "Spread publications over this many past days")
	clean := flag.Bool("clean", true, "Clear existing data before seeding")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *clean {
		if err := seed.ClearAll(db); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	res, err := seed.Run(db, seed.Options{
		NumUsers:        *numUsers,
		FollowsPerUser:  *follows,
		NumPublications: *numPosts,
		MaxDays:         *days,
		BcryptCost:      cfg.BcryptCost,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d follows, %d publications", res.Users, res.Follows, res.Publications)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
