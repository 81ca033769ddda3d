package main

// Run database migrations:
//   go run ./cmd/migrate [up|down|version]

import (
	"context"
	"fmt"
	"log"
	"os"

	"jobfit-backend/internal/shared/config"
	"jobfit-backend/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	switch cmd {
	case "up":
		err = db.RunMigrations(ctx, sqlDB)
	case "down":
		err = db.RollbackMigration(ctx, sqlDB)
	case "version":
		var v int64
		v, err = db.MigrationVersion(ctx, sqlDB)
		if err == nil {
			fmt.Println(v)
		}
	default:
		err = fmt.Errorf("unknown command %q (want up, down or version)", cmd)
	}
	if err != nil {
		log.Printf("migrate %s: %v", cmd, err)
		os.Exit(1)
	}
}
