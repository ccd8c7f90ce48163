package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/kdimtricp/geoclips/internal/config"
	"github.com/kdimtricp/geoclips/internal/database"
)

func main() {
	status := flag.Bool("status", false, "Show migration status only")
	flag.Parse()

	// Connection settings come from the same environment as the server.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	db, err := database.NewDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	migrator := database.NewMigrator(db.Conn(), db.Dialect())

	if *status {
		migrations, err := migrator.Status(ctx)
		if err != nil {
			log.Fatal("Failed to get migration status:", err)
		}

		fmt.Println("Migration Status:")
		fmt.Println("=================")
		for _, m := range migrations {
			state := "pending"
			if m.Applied {
				state = "applied " + m.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("%05d - %s [%s]\n", m.Version, m.Name, state)
		}
		return
	}

	fmt.Printf("Running %s migrations...\n", cfg.Database.Type)
	applied, err := migrator.Run(ctx)
	if err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	for _, m := range applied {
		fmt.Printf("Applied migration: %s\n", m.Name)
	}
	if len(applied) == 0 {
		fmt.Println("No pending migrations")
	} else {
		fmt.Printf("Successfully applied %d migration(s)\n", len(applied))
	}
}
