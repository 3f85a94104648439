package dto

import "time"

// RegisterRequest registro público. El rol siempre es client.
type RegisterRequest struct {
	Username        string `json:"username" form:"username" validate:"required,min=3,max=150"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password1" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" form:"password2" validate:"required"`
	FirstName       string `json:"first_name" form:"first_name" validate:"max=150"`
	LastName        string `json:"last_name" form:"last_name" validate:"max=150"`
	Phone           string `json:"phone" form:"phone" validate:"max=20"`
	Company         string `json:"company" form:"company" validate:"max=200"`
}

// LoginRequest login por username o email.
type LoginRequest struct {
	Login    string `json:"login" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UpdateProfileRequest datos editables por el propio usuario.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" form:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" form:"last_name" validate:"max=150"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Phone     string `json:"phone" form:"phone" validate:"max=20"`
	Company   string `json:"company" form:"company" validate:"max=200"`
	Position  string `json:"position" form:"position" validate:"max=100"`
	Bio       string `json:"bio" form:"bio" validate:"max=2000"`
	LinkedIn  string `json:"linkedin" form:"linkedin" validate:"omitempty,url"`
	Website   string `json:"website" form:"website" validate:"omitempty,url"`
}

// AdminUserRequest alta/edición de usuario desde el back-office.
// Password vacío en edición = sin cambio.
type AdminUserRequest struct {
	Username   string `form:"username" validate:"required,min=3,max=150"`
	Email      string `form:"email" validate:"required,email"`
	Password   string `form:"password" validate:"omitempty,min=8"`
	FirstName  string `form:"first_name" validate:"max=150"`
	LastName   string `form:"last_name" validate:"max=150"`
	Role       string `form:"role" validate:"required,oneof=admin manager_qhse manager_info client"`
	Phone      string `form:"phone" validate:"max=20"`
	Company    string `form:"company" validate:"max=200"`
	Position   string `form:"position" validate:"max=100"`
	IsVerified bool   `form:"is_verified"`
	IsActive   bool   `form:"is_active"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Role       string    `json:"role"`
	Phone      string    `json:"phone,omitempty"`
	Company    string    `json:"company,omitempty"`
	Position   string    `json:"position,omitempty"`
	Avatar     string    `json:"avatar,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	LinkedIn   string    `json:"linkedin,omitempty"`
	Website    string    `json:"website,omitempty"`
	IsVerified bool      `json:"is_verified"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserListResponse listado paginado de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
