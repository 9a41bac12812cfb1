package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"github.com/seanzhanng/teaelo/internal/back"
	"github.com/seanzhanng/teaelo/internal/config"
)

// Version holds the build-time version string.
var Version = "unknown" // nolint:gochecknoglobals

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: unable to load .env: %s", err)
	}

	flag.Parse()

	switch flag.Arg(0) { // nolint, TODO
	case "version":
		fmt.Fprintf(os.Stdout, "teaelo %s\n", Version)
	case "serve":
		if err := serve(); err != nil {
			log.Fatal(err)
		}
	case "migrate":
		if err := migrateDatabase(); err != nil {
			log.Fatal(err)
		}
	case "rerank":
		if err := rerank(); err != nil {
			log.Fatal(err)
		}
	case "dev:fixtures":
		if err := loadFixtures(); err != nil {
			log.Fatal(err)
		}
	case "help":
		fmt.Fprint(os.Stdout, help())
		return
	default:
		fmt.Fprint(os.Stderr, help())
		os.Exit(1)
	}
}

func help() string {
	return fmt.Sprintf(`
teaelo ranks boba tea brands through pairwise votes.

Usage: %[1]s COMMAND [ARGS…]

COMMANDS
    serve        run the rating engine and its HTTP API
    migrate      bring the database schema up to date
    rerank       recompute all ratings by replaying the match history
    dev:fixtures create default data for quick testing during development
    help         display this help
    version      display the current version
`,
		os.Args[0],
	)
}

func newBack() (*back.Back, *config.Config, error) {
	conf, err := config.NewFromUserConfigDir()
	if err != nil {
		return nil, nil, err
	}

	b, err := back.New("sqlite3", conf.SQLDSN, conf)
	if err != nil {
		return nil, nil, err
	}

	return b, conf, nil
}

func rerank() error {
	b, _, err := newBack()
	if err != nil {
		return err
	}

	return b.Rerank()
}

func loadFixtures() error {
	b, _, err := newBack()
	if err != nil {
		return err
	}

	return b.LoadFixtures()
}
