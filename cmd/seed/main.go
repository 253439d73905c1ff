// Seed fills a fresh database with demo accounts, reports and a sample
// conversation, so the frontend has something to show in development.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"itshere/auth"
	"itshere/internal"
	"itshere/moderation"
	"itshere/repositories"
	"itshere/services"
)

const demoPassword = "Itshere-Demo-2026!"

func main() {
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		log.Fatalf("Failed to open bluge writer: %v", err)
	}
	defer blugeWriter.Close()

	logger := internal.NewLogger("ERROR")
	ctx := context.Background()

	users := repositories.NewUserRepository(db)
	rooms := repositories.NewRoomRepository(db, logger)
	messages, err := repositories.NewMessageRepository(db, logger, nil)
	if err != nil {
		log.Fatalf("Message repository: %v", err)
	}
	defer messages.Close()
	posts := repositories.NewPostRepository(db, blugeWriter, logger, config.SearchLimit)

	codec := auth.NewCodec([]byte(config.JWTSecret), config.AuthTokenDuration)
	censor, err := moderation.NewCensor(nil, '*')
	if err != nil {
		log.Fatalf("Censor: %v", err)
	}

	authService := services.NewAuthService(users, codec)
	chatService := services.NewChatService(users, rooms, messages, censor, logger)
	postService := services.NewPostService(posts, users)

	color.Cyan.Println("Seeding demo data...")

	demoUsers := []auth.RegisterRequest{
		{Username: "alice", Gmail: "alice@example.com", PhoneNumber: "0600000001", Password: demoPassword},
		{Username: "bob", Gmail: "bob@example.com", PhoneNumber: "0600000002", Password: demoPassword},
		{Username: "charlie", Gmail: "charlie@example.com", PhoneNumber: "0600000003", Password: demoPassword},
	}
	for _, req := range demoUsers {
		if err := authService.Register(req); err != nil {
			color.Yellow.Printf("skip user %s: %v\n", req.Username, err)
		}
	}

	demoPosts := []struct {
		author string
		post   services.NewPost
	}{
		{"alice", services.NewPost{
			Description: "Missing since Monday near the central station",
			Date:        "2026-08-24", Place: "Lyon Part-Dieu",
		}},
		{"bob", services.NewPost{
			Description: "Last seen walking a brown dog by the river",
			Date:        "2026-08-27", Place: "Quai de Saône",
		}},
	}
	for _, entry := range demoPosts {
		if _, err := postService.AddPost(ctx, entry.author, entry.post); err != nil {
			color.Yellow.Printf("skip post by %s: %v\n", entry.author, err)
		}
	}

	room, err := chatService.CreateOrGetRoom(ctx, "alice", "bob")
	if err != nil {
		log.Fatalf("Create room: %v", err)
	}
	for _, body := range []string{"Hi, I saw your report", "Any news since Monday?"} {
		if _, err := chatService.SendMessage(ctx, "alice", room.ID, body); err != nil {
			color.Yellow.Printf("skip message: %v\n", err)
		}
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Username", "Email", "Password"})
	for _, req := range demoUsers {
		table.Append([]string{req.Username, req.Gmail, demoPassword})
	}
	table.Render()

	color.Green.Println("Done.")
	fmt.Printf("Room %s seeded for alice/bob\n", room.ID)
}
