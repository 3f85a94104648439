package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/policy"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
)

// UserUseCase gestión de usuarios desde el back-office (solo admin).
type UserUseCase struct {
	repo repository.UserRepository
	cost int
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo, cost: bcrypt.DefaultCost}
}

// WithBcryptCost ajusta el coste de bcrypt (tests).
func (uc *UserUseCase) WithBcryptCost(cost int) *UserUseCase {
	uc.cost = cost
	return uc
}

// List usuarios con filtro de rol y búsqueda.
func (uc *UserUseCase) List(ctx context.Context, actor *entity.User, f repository.UserFilter) ([]*entity.User, int, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, 0, err
	}
	if f.Role != "" && !f.Role.Valid() {
		return nil, 0, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, f.Role)
	}
	return uc.repo.List(ctx, f)
}

// ListStaff usuarios activos del staff, para los selectores de responsable.
func (uc *UserUseCase) ListStaff(ctx context.Context, actor *entity.User) ([]*entity.User, error) {
	if err := policy.Staff(actor); err != nil {
		return nil, err
	}
	return uc.repo.ListActiveByRoles(ctx, entity.StaffRoles, repository.Page{Limit: 200})
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, actor *entity.User, id string) (*entity.User, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// Save crea (id vacío, password obligatorio) o sobrescribe un usuario, rol incluido.
// Un admin no puede quitarse a sí mismo el rol ni desactivarse.
func (uc *UserUseCase) Save(ctx context.Context, actor *entity.User, id string, in dto.AdminUserRequest) (*entity.User, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, err
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if id == "" && in.Password == "" {
		return nil, fmt.Errorf("%w: password obligatorio", domain.ErrInvalidInput)
	}
	if id == actor.ID && (entity.Role(in.Role) != entity.RoleAdmin || !in.IsActive) {
		return nil, fmt.Errorf("%w: no puede retirarse el acceso de administrador", domain.ErrConflict)
	}

	if other, err := uc.repo.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if other != nil && other.ID != id {
		return nil, domain.ErrUsernameTaken
	}
	if other, err := uc.repo.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if other != nil && other.ID != id {
		return nil, domain.ErrEmailAlreadyExists
	}

	now := time.Now()
	user := &entity.User{CreatedAt: now}
	if id != "" {
		existing, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, domain.ErrUserNotFound
		}
		user = existing
	}
	user.Username = in.Username
	user.Email = in.Email
	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)
	user.Role = entity.Role(in.Role)
	user.Phone = strings.TrimSpace(in.Phone)
	user.Company = strings.TrimSpace(in.Company)
	user.Position = strings.TrimSpace(in.Position)
	user.IsVerified = in.IsVerified
	user.IsActive = in.IsActive
	user.UpdatedAt = now
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
		if err != nil {
			return nil, fmt.Errorf("hash de password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	if id == "" {
		user.ID = uuid.New().String()
		return user, uc.repo.Create(ctx, user)
	}
	return user, uc.repo.Update(ctx, user)
}

// Delete borra un usuario. Un admin no puede borrarse a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, actor *entity.User, id string) error {
	if err := policy.Admin(actor); err != nil {
		return err
	}
	if id == actor.ID {
		return fmt.Errorf("%w: no puede eliminarse la cuenta propia", domain.ErrConflict)
	}
	return uc.repo.Delete(ctx, id)
}

// CreateSuperuser crea un admin activo y verificado (línea de comandos, sin actor).
func (uc *UserUseCase) CreateSuperuser(ctx context.Context, username, email, password string) (*entity.User, error) {
	in := dto.AdminUserRequest{
		Username:   strings.TrimSpace(username),
		Email:      strings.ToLower(strings.TrimSpace(email)),
		Password:   password,
		Role:       string(entity.RoleAdmin),
		IsVerified: true,
		IsActive:   true,
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password obligatorio", domain.ErrInvalidInput)
	}
	// El actor del sistema solo existe para reutilizar Save.
	system := &entity.User{ID: "system", Role: entity.RoleAdmin, IsActive: true}
	return uc.Save(ctx, system, "", in)
}
