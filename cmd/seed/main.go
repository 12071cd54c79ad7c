package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/laavis/dev-link/config"
	"github.com/laavis/dev-link/internal/domain/entity"
	"github.com/laavis/dev-link/internal/domain/repository"
	"github.com/laavis/dev-link/internal/infrastructure/mongodb"
	"github.com/laavis/dev-link/pkg/helpers"
)

// Seeds a demo user with a profile for local development.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoConnTimeout)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDatabase)

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	users := mongodb.NewUserRepository(db, cfg.MongoOpTimeout)
	profiles := mongodb.NewProfileRepository(db, cfg.MongoOpTimeout)

	email := "demo@devlink.local"
	password := "password123"

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	u := &entity.User{
		Name:     "Demo User",
		Email:    email,
		Password: hash,
		Avatar:   helpers.GravatarURL(email),
	}
	if err := users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			existing, gErr := users.GetByEmail(ctx, email)
			if gErr != nil {
				log.Fatalf("failed to load existing seed user: %v", gErr)
			}
			u = existing
			fmt.Printf("seed user already present: id=%s\n", u.ID.Hex())
		} else {
			log.Fatalf("failed to seed user: %v", err)
		}
	} else {
		fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID.Hex(), email, password)
	}

	from, _ := time.Parse("2006-01-02", "2020-01-01")
	p, err := profiles.Upsert(ctx, u.ID.Hex(), repository.ProfileFields{
		Handle: "demouser",
		Status: "Developer",
		Bio:    "Seeded development account",
		Skills: []string{"Go", "MongoDB", "HTTP"},
	})
	if err != nil {
		log.Fatalf("failed to seed profile: %v", err)
	}
	if len(p.Experience) == 0 {
		if _, err := profiles.AddExperience(ctx, u.ID.Hex(), entity.Experience{
			Title:   "Backend Developer",
			Company: "DevLink",
			From:    from,
			Current: true,
		}); err != nil {
			log.Fatalf("failed to seed experience: %v", err)
		}
	}
	fmt.Printf("seeded profile: handle=%s\n", p.Handle)
}
