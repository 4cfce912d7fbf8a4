package main

import (
	"os"

	"github.com/suraj/version24/internal/pkg/logger"
	"github.com/suraj/version24/internal/server"
)

// @title Version24 API
// @version 1.0
// @description Event registration backend for the Version24 tech fest

// @host localhost:8080
// @BasePath /

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
