// Viewer opens the database read-only and serves the Badger inspector
// without the rest of the stack, for poking at a live deployment.
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"

	"itshere/internal"
)

func main() {
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// BypassLockGuard allows opening while the server holds the lock.
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	stats := func() map[string]any {
		return map[string]any{
			"Status": "Viewer Mode (Read-Only)",
			"Time":   time.Now().Format(time.RFC822),
		}
	}

	fmt.Printf("Viewer started at http://localhost:%d/inspect\n", config.DebugPort)
	internal.StartDebugServer(db, config.DebugPort, "/inspect", internal.DefaultMapper, stats)
	select {}
}
