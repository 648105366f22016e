package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/overtrack/overtrack/internal/cli"
	log "github.com/sirupsen/logrus"
)

func init() {
	// A missing .env is fine, the environment may already be set.
	_ = godotenv.Load()

	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	cli.Execute()
}
