package entity

import "time"

// Role clasifica a un usuario. Conjunto cerrado: admin, manager_qhse, manager_info, client.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleManagerQHSE Role = "manager_qhse"
	RoleManagerInfo Role = "manager_info"
	RoleClient      Role = "client"
)

// Roles en el orden en que se muestran en formularios y filtros.
var Roles = []Role{RoleAdmin, RoleManagerQHSE, RoleManagerInfo, RoleClient}

// StaffRoles reciben las notificaciones de nuevas solicitudes de servicio.
var StaffRoles = []Role{RoleManagerQHSE, RoleManagerInfo, RoleAdmin}

// Valid indica si r pertenece al conjunto cerrado de roles.
func (r Role) Valid() bool {
	for _, x := range Roles {
		if r == x {
			return true
		}
	}
	return false
}

// Label nombre visible del rol.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrateur"
	case RoleManagerQHSE:
		return "Manager QHSE"
	case RoleManagerInfo:
		return "Manager Informatique"
	case RoleClient:
		return "Client"
	}
	return string(r)
}

// User cuenta del sitio. El perfil público (bio, linkedin, website) vive en la misma fila.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt, nunca texto plano
	FirstName    string
	LastName     string
	Role         Role
	Phone        string
	Company      string
	Position     string
	Avatar       string
	Bio          string
	LinkedIn     string
	Website      string
	IsVerified   bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName nombre completo o, si falta, el username.
func (u *User) DisplayName() string {
	full := u.FirstName
	if u.LastName != "" {
		if full != "" {
			full += " "
		}
		full += u.LastName
	}
	if full == "" {
		return u.Username
	}
	return full
}

// IsStaff admin o cualquiera de los managers.
func (u *User) IsStaff() bool {
	return u != nil && u.Role.IsStaff()
}

// IsStaff admin o cualquiera de los managers.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleManagerQHSE || r == RoleManagerInfo
}
