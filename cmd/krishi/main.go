package main

import (
	"github.com/joho/godotenv"

	"krishimitra/internal/cli"
)

func main() {
	godotenv.Load()
	cli.Execute()
}
