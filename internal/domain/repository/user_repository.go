package repository

import (
	"context"

	"github.com/uranusgroup/uranus-web/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Las lecturas devuelven (nil, nil) si no existe el registro.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f UserFilter) ([]*entity.User, int, error)
	// ListActiveByRoles devuelve una página de usuarios activos con alguno de los roles (fan-out por lotes).
	ListActiveByRoles(ctx context.Context, roles []entity.Role, page Page) ([]*entity.User, error)
}
