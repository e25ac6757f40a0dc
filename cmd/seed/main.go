package main

import (
	"bytes"
	"fmt"

	"feedstream/internal/asset"
	"feedstream/internal/entity"
	"feedstream/internal/repo/persistent"
	"feedstream/pkg/config"
	"feedstream/pkg/database"
	"feedstream/pkg/logger"
	"feedstream/pkg/s3"

	"golang.org/x/crypto/bcrypt"
)

// Seeds a handful of users and posts for local development. Safe to run
// against an empty database only; duplicate emails will fail on the unique
// index.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		panic(err)
	}

	userRepo := persistent.NewUserRepository(db)
	postRepo := persistent.NewPostRepository(db)
	assets := asset.NewManager(s3Client, log)

	testUsers := []struct {
		email    string
		name     string
		password string
	}{
		{"alice@test.com", "Alice", "password123"},
		{"bob@test.com", "Bob", "password123"},
		{"charlie@test.com", "Charlie", "password123"},
	}

	userIDs := make([]string, 0, len(testUsers))
	for _, tu := range testUsers {
		hashed, err := bcrypt.GenerateFromPassword([]byte(tu.password), 12)
		if err != nil {
			log.Error("Failed to hash password for %s: %v", tu.email, err)
			panic(err)
		}

		user := &entity.User{
			Email:    tu.email,
			Name:     tu.name,
			Password: string(hashed),
		}
		if err := userRepo.Create(user); err != nil {
			log.Error("Failed to create user %s: %v", tu.email, err)
			panic(err)
		}
		userIDs = append(userIDs, user.ID)
		log.Info("Created user %s (%s)", tu.name, user.ID)
	}

	placeholder := []byte("\x89PNG\r\n\x1a\n")
	samplePosts := []struct {
		title   string
		content string
	}{
		{"Hello feedstream", "First post on a fresh instance."},
		{"Second thoughts", "Pagination needs more than one post."},
		{"Third time lucky", "And one more to spill onto page two."},
	}

	for i, sp := range samplePosts {
		creatorID := userIDs[i%len(userIDs)]

		key, err := assets.Store(bytes.NewReader(placeholder), fmt.Sprintf("seed-%d.png", i+1), "image/png")
		if err != nil {
			log.Error("Failed to store seed image: %v", err)
			panic(err)
		}

		post := &entity.Post{
			CreatorID: creatorID,
			Title:     sp.title,
			Content:   sp.content,
			ImageKey:  key,
		}
		if err := postRepo.Create(post); err != nil {
			log.Error("Failed to create post %q: %v", sp.title, err)
			panic(err)
		}
		if err := userRepo.AppendPost(creatorID, post.ID); err != nil {
			log.Error("Failed to link post %s to user %s: %v", post.ID, creatorID, err)
			panic(err)
		}
		log.Info("Created post %q (%s)", sp.title, post.ID)
	}

	log.Info("Database seeded successfully!")
}
