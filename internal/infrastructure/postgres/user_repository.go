package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, username, email, password_hash, first_name, last_name, role, phone, company,
	position, avatar, bio, linkedin, website, is_verified, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.Phone,
		&u.Company, &u.Position, &u.Avatar, &u.Bio, &u.LinkedIn, &u.Website, &u.IsVerified, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// userWriteError traduce las violaciones de unicidad a errores de dominio.
func userWriteError(op string, err error) error {
	if isUniqueViolation(err) {
		switch violatedConstraint(err) {
		case "users_username_key":
			return domain.ErrUsernameTaken
		case "users_email_key":
			return domain.ErrEmailAlreadyExists
		}
		return domain.ErrDuplicate
	}
	return fmt.Errorf("%s user: %w", op, err)
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role, u.Phone,
		u.Company, u.Position, u.Avatar, u.Bio, u.LinkedIn, u.Website, u.IsVerified, u.IsActive,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return userWriteError("insert", err)
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, cond string, arg any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+cond, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByUsername búsqueda sin distinguir mayúsculas.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, "LOWER(username) = LOWER($1)", username)
}

// GetByEmail búsqueda sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, "LOWER(email) = LOWER($1)", email)
}

// Update sobrescribe todos los campos editables.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	query := `
		UPDATE users SET username = $2, email = $3, password_hash = $4, first_name = $5, last_name = $6,
			role = $7, phone = $8, company = $9, position = $10, avatar = $11, bio = $12, linkedin = $13,
			website = $14, is_verified = $15, is_active = $16, updated_at = $17
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role, u.Phone,
		u.Company, u.Position, u.Avatar, u.Bio, u.LinkedIn, u.Website, u.IsVerified, u.IsActive, u.UpdatedAt,
	)
	if err != nil {
		return userWriteError("update", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete elimina un usuario por ID (sus solicitudes, tickets y notificaciones caen en cascada).
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// List filtra por rol y búsqueda libre, ordenado por username.
func (r *UserRepo) List(ctx context.Context, f repository.UserFilter) ([]*entity.User, int, error) {
	w := &where{}
	if f.Role != "" {
		w.add("role = ?", f.Role)
	}
	w.search(f.Search, "username", "email", "first_name", "last_name", "company")

	total, err := w.count(ctx, r.q, "users")
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	limit, args := w.page(f.Page)
	list, err := r.list(ctx, `SELECT `+userColumns+` FROM users`+w.sql()+` ORDER BY username`+limit, args...)
	return list, total, err
}

// ListActiveByRoles página de usuarios activos con alguno de los roles, ordenada por id.
func (r *UserRepo) ListActiveByRoles(ctx context.Context, roles []entity.Role, p repository.Page) ([]*entity.User, error) {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	w := &where{}
	w.add("is_active")
	w.add("role = ANY(?)", names)
	limit, args := w.page(p)
	return r.list(ctx, `SELECT `+userColumns+` FROM users`+w.sql()+` ORDER BY id`+limit, args...)
}

func (r *UserRepo) list(ctx context.Context, query string, args ...any) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}
