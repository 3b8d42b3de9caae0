package main

import (
	"errors"
	"flag"
	"fmt"

	"recipe-share/pkg/config"
	"recipe-share/pkg/database"
	"recipe-share/pkg/jwt"
	"recipe-share/pkg/logger"
	"recipe-share/pkg/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedUser struct {
	email    string
	username string
	password string
}

var testUsers = []seedUser{
	{"alice@test.com", "alice_cooks", "password123"},
	{"bob@test.com", "bob_bakes", "password123"},
	{"charlie@test.com", "charlie_grills", "password123"},
	{"diana@test.com", "diana_ferments", "password123"},
	{"eve@test.com", "eve_roasts", "password123"},
}

func main() {
	var printTokens bool
	flag.BoolVar(&printTokens, "tokens", true, "Print a development access token for every seeded user")
	flag.Parse()

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

	userIDs, err := seedDatabase(db, testUsers, log)
	if err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	if printTokens {
		jwtService := jwt.NewService(cfg.JWTSecret)
		for i, id := range userIDs {
			token, err := jwtService.GenerateToken(id)
			if err != nil {
				log.Error("Failed to issue token for %s: %v", testUsers[i].username, err)
				continue
			}
			fmt.Printf("%s\t%s\t%s\n", testUsers[i].username, id, token)
		}
	}

	log.Info("Database seeded successfully!")
}

// seedDatabase creates the users (skipping existing ones) and makes every user follow
// all users seeded before them. It returns user ids in input order.
func seedDatabase(db *gorm.DB, users []seedUser, log *logger.Logger) ([]string, error) {
	userIDs := make([]string, 0, len(users))

	for _, userData := range users {
		var existingUser models.User
		result := db.Where("email = ? OR username = ?", userData.email, userData.username).First(&existingUser)
		if result.Error == nil {
			log.Info("User %s already exists, skipping", existingUser.Username)
			userIDs = append(userIDs, existingUser.ID)
			continue
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up user %s: %w", userData.username, result.Error)
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(userData.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %s: %w", userData.username, err)
		}

		user := &models.User{
			Email:    userData.email,
			Username: userData.username,
			Password: string(hashedPassword),
			IsActive: true,
		}
		if err := db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.username, err)
		}

		log.Info("Created user: %s (%s)", user.Username, user.Email)
		userIDs = append(userIDs, user.ID)
	}

	created := 0
	for i := 0; i < len(userIDs); i++ {
		for j := 0; j < i; j++ {
			followerID := userIDs[i]
			followingID := userIDs[j]

			var existing models.Follower
			result := db.Where("follower_id = ? AND following_id = ?", followerID, followingID).First(&existing)
			if result.Error == nil {
				continue
			}
			if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to look up follower pair: %w", result.Error)
			}

			follower := &models.Follower{
				FollowerID:  followerID,
				FollowingID: followingID,
			}
			if err := db.Omit("Follower", "Following").Create(follower).Error; err != nil {
				log.Error("Failed to create follower pair: %v", err)
				continue
			}
			created++
		}
	}

	log.Info("Created %d follower pairs", created)
	return userIDs, nil
}
