package main

import (
	"fmt"

	"twitline/pkg/config"
	"twitline/pkg/database"
	"twitline/pkg/logger"
	"twitline/services/twit/internal/entity"
	"twitline/services/twit/internal/repo/persistent"

	"github.com/google/uuid"
)

// Seeds a handful of twits, replies, likes and retwits for local
// development. User identities come from the external auth service, so
// fixed UUIDs stand in for two users here.
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

	repo := persistent.NewTwitRepository(db)

	alice := uuid.New().String()
	bob := uuid.New().String()

	twits := []*entity.Twit{
		{AuthorID: alice, Content: "hello twitline", IsTwit: true},
		{AuthorID: alice, Content: "shipping the feed today", IsTwit: true},
		{AuthorID: bob, Content: "first!", IsTwit: true},
	}

	for _, t := range twits {
		if err := repo.Create(t); err != nil {
			log.Error("Failed to seed twit: %v", err)
			panic(err)
		}
	}

	reply := &entity.Twit{
		AuthorID:   bob,
		Content:    "welcome aboard",
		IsReply:    true,
		ReplyForID: twits[0].ID,
	}
	if err := repo.Create(reply); err != nil {
		log.Error("Failed to seed reply: %v", err)
		panic(err)
	}

	if err := repo.CreateLike(bob, twits[0].ID); err != nil {
		log.Error("Failed to seed like: %v", err)
		panic(err)
	}
	if err := repo.CreateRetwit(bob, twits[1].ID); err != nil {
		log.Error("Failed to seed retwit: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully! users: alice=%s bob=%s", alice, bob)
}
