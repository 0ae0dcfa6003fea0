package main

import (
	"errors"
	"os"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/platform/logger"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/services"
)

// seedAdmin creates the first administrator account on a fresh
// database when ENCUESTAS_ADMIN_EMAIL and ENCUESTAS_ADMIN_PASSWORD are
// set. An account that already exists is left untouched.
func seedAdmin(auth *services.AuthService, log *logger.Logger) error {
	email := os.Getenv("ENCUESTAS_ADMIN_EMAIL")
	password := os.Getenv("ENCUESTAS_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	_, err := auth.Register(email, password)
	if err != nil {
		var serr *services.ServiceError
		if errors.As(err, &serr) && (serr.Code == services.ErrorConflict || serr.Code == services.ErrorForbidden) {
			return nil // already seeded on a previous boot
		}
		return err
	}
	log.Info("administrador inicial creado", "email", email)
	return nil
}
