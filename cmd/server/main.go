package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/in-nis/planner/internal/cli"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system env")
	}
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
