package service

import "github.com/google/uuid"

// Actor identifies who triggers an operation, for audit entries.
type Actor struct {
	UsuarioID *uuid.UUID
	UserAgent string
	IP        string
}

// ActorSistema is used by the CLI and background jobs.
var ActorSistema = Actor{UserAgent: "posctl"}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
