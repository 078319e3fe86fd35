// Command migrate manages the SQLite schema behind the slice store.
//
//	migrate              apply every pending migration
//	migrate -down        revert every applied migration
//	migrate -steps N     apply N migrations, or revert |N| when negative
//	migrate -version     print the applied schema version
package main

import (
	"flag"
	"fmt"
	"log"

	"quiz-maker/internal/config"
	"quiz-maker/internal/database"
	"quiz-maker/internal/logger"

	"go.uber.org/zap"
)

func main() {
	down := flag.Bool("down", false, "revert every applied migration")
	steps := flag.Int("steps", 0, "apply N migrations, or revert |N| when negative")
	showVersion := flag.Bool("version", false, "print the applied schema version and exit")
	dbPath := flag.String("db", "", "SQLite file, overriding store.sqlite_path")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	path := cfg.Store.SQLitePath
	if *dbPath != "" {
		path = *dbPath
	}
	db, err := database.NewSQLiteDB(path)
	if err != nil {
		l.Fatal("Failed to open database", zap.String("path", path), zap.Error(err))
	}
	defer db.Close()

	switch {
	case *showVersion:
		version, dirty, ok, verr := database.MigrationVersion(db.DB)
		if verr != nil {
			l.Fatal("Failed to read schema version", zap.Error(verr))
		}
		if !ok {
			fmt.Println("no migrations applied")
			return
		}
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)
		return
	case *down:
		err = database.RollbackMigrations(db.DB)
	case *steps != 0:
		err = database.MigrateSteps(db.DB, *steps)
	default:
		err = database.RunMigrations(db.DB)
	}
	if err != nil {
		l.Fatal("Migration failed", zap.Error(err), zap.Bool("down", *down), zap.Int("steps", *steps))
	}
}
