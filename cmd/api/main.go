package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/examplanner/examplanner/internal/pkg/logger"
	"github.com/examplanner/examplanner/internal/server"
)

func main() {
	// Load .env before anything reads the environment. Missing file is fine;
	// production sets real environment variables.
	_ = godotenv.Load()

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run the server (this blocks until shutdown signal)
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
