package factory

import (
	"context"

	"github.com/rayymaxx/CinePal/repository"
	"github.com/rayymaxx/CinePal/repository/interfaces"
)

type Factory interface {
	NewSession(ctx context.Context) interfaces.Session
	NewUserRepository(session interfaces.Session) (repository.UserRepository, error)
	NewUserPreferenceRepository(session interfaces.Session) (repository.UserPreferenceRepository, error)
	NewInteractionRepository(session interfaces.Session) (repository.InteractionRepository, error)
	NewCachedShowRepository(session interfaces.Session) (repository.CachedShowRepository, error)
	NewShowIndexRepository(session interfaces.Session) (repository.ShowIndexRepository, error)
}
