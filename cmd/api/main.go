package main

import (
	"os"

	"github.com/act/eventportal/internal/pkg/logger"
	"github.com/act/eventportal/internal/server"
)

// @title Event Portal API
// @version 1.0
// @description Role-based academic event portal: admins approve faculty and manage events, faculty mark attendance, students register for events.

// @host localhost:8000
// @BasePath /api

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name EVENTPORTAL_SESSION
// @description Server-side session established by any of the login endpoints

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
