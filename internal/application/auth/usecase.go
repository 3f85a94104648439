package auth

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
	"github.com/uranusgroup/uranus-web/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y perfil propio.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	cost     int
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, cost: bcrypt.DefaultCost}
}

// WithBcryptCost ajusta el coste de bcrypt (bcrypt.MinCost en tests).
func (uc *AuthUseCase) WithBcryptCost(cost int) *AuthUseCase {
	uc.cost = cost
	return uc
}

// RegisterUser crea una cuenta client: la confirmación debe coincidir y username/email deben ser únicos.
// El registro público nunca elige rol.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Password != in.PasswordConfirm {
		return nil, domain.ErrPasswordMismatch
	}
	existing, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("registro: buscar username: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}
	existing, err = uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("registro: buscar email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := uc.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         entity.RoleClient,
		Phone:        strings.TrimSpace(in.Phone),
		Company:      strings.TrimSpace(in.Company),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Login verifica username o email y password, genera el JWT y retorna token + usuario.
// Usuario inexistente y password incorrecto devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	in.Login = strings.TrimSpace(in.Login)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var (
		user *entity.User
		err  error
	)
	if strings.Contains(in.Login, "@") {
		user, err = uc.userRepo.GetByEmail(ctx, strings.ToLower(in.Login))
	} else {
		user, err = uc.userRepo.GetByUsername(ctx, in.Login)
	}
	if err != nil {
		return nil, fmt.Errorf("login: buscar usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	token, err := uc.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *ToUserResponse(user),
	}, nil
}

// IssueToken firma un JWT para user con la configuración del caso de uso.
func (uc *AuthUseCase) IssueToken(user *entity.User) (string, error) {
	return jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
}

// UpdateProfile actualiza los datos propios del actor. El email sigue siendo único.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, actor *entity.User, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if err := policy.Authenticated(actor); err != nil {
		return nil, err
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("perfil: obtener: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !strings.EqualFold(user.Email, in.Email) {
		other, err := uc.userRepo.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, fmt.Errorf("perfil: buscar email: %w", err)
		}
		if other != nil && other.ID != user.ID {
			return nil, domain.ErrEmailAlreadyExists
		}
	}
	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)
	user.Email = in.Email
	user.Phone = strings.TrimSpace(in.Phone)
	user.Company = strings.TrimSpace(in.Company)
	user.Position = strings.TrimSpace(in.Position)
	user.Bio = strings.TrimSpace(in.Bio)
	user.LinkedIn = strings.TrimSpace(in.LinkedIn)
	user.Website = strings.TrimSpace(in.Website)
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// CurrentUser carga el usuario del token. Devuelve (nil, nil) si no existe o está inactivo.
func (uc *AuthUseCase) CurrentUser(ctx context.Context, userID string) (*entity.User, error) {
	if userID == "" {
		return nil, nil
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, nil
	}
	return user, nil
}

// HashPassword genera el hash bcrypt.
func (uc *AuthUseCase) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.cost)
	if err != nil {
		return "", fmt.Errorf("hash de password: %w", err)
	}
	return string(hash), nil
}

// ToUserResponse mapea la entidad al DTO sin el hash.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       string(u.Role),
		Phone:      u.Phone,
		Company:    u.Company,
		Position:   u.Position,
		Avatar:     u.Avatar,
		Bio:        u.Bio,
		LinkedIn:   u.LinkedIn,
		Website:    u.Website,
		IsVerified: u.IsVerified,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
