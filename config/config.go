package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	SearchWindow int
	Debug        bool
	MaxFileSize  int64
}

func LoadConfig() *Config {
	// Optional .env for local runs; environment wins in deployments.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	searchWindow := 2
	if raw := os.Getenv("SEARCH_WINDOW"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			searchWindow = v
		}
	}

	debug := false
	if raw := os.Getenv("DEBUG"); raw != "" {
		debug, _ = strconv.ParseBool(raw)
	}

	return &Config{
		ServerPort:   serverPort,
		SearchWindow: searchWindow,
		Debug:        debug,
		MaxFileSize:  32 * 1024 * 1024, // 32 MB
	}
}
