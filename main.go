package main

import (
	"github.com/joho/godotenv"

	"github.com/ameyrk/intervu/cmd"
)

func main() {
	// Optional .env for INTERVU_API_URL / INTERVU_API_KEY; absence is fine.
	_ = godotenv.Load()

	cmd.Execute()
}
