package main

import (
	"errors"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/seanzhanng/teaelo/internal/config"
)

func migrateDatabase() error {
	conf, err := config.NewFromUserConfigDir()
	if err != nil {
		return err
	}

	migrator, err := migrate.New(
		"file://resources/migrations",
		"sqlite3://"+conf.SQLDSN,
	)
	if err != nil {
		return err
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Print("info: database schema already up to date")
			return nil
		}

		return err
	}

	log.Print("info: database schema migrated")

	return nil
}
