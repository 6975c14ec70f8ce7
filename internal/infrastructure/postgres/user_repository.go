package postgres

import (
	"context"

	"github.com/jhoicas/leadportal-api/internal/domain"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
	"github.com/jhoicas/leadportal-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, email, password_hash, name, superadmin, status, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (users + user_roles).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, superadmin, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Superadmin, u.Status, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return wrap("insert user", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, "get user", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail obtiene un usuario por email (comparación sin mayúsculas).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "get user by email", `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

// Update actualiza nombre, estado, superadmin y hash.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	query := `
		UPDATE users SET email = $2, password_hash = $3, name = $4, superadmin = $5, status = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, u.ID, u.Email, u.PasswordHash, u.Name, u.Superadmin, u.Status, u.UpdatedAt)
	if err != nil {
		return wrap("update user", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ListIDs todos los ids de usuario en orden de alta.
func (r *UserRepo) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, wrap("list user ids", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, wrap("scan user id", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetDirectRole rol de user_roles o "" si no tiene.
func (r *UserRepo) GetDirectRole(ctx context.Context, userID string) (string, error) {
	var role string
	err := r.q.QueryRow(ctx, `SELECT role FROM user_roles WHERE user_id = $1`, userID).Scan(&role)
	if err != nil {
		if isNoRows(err) {
			return "", nil
		}
		return "", wrap("get direct role", err)
	}
	return role, nil
}

// SetDirectRole crea o reemplaza el rol directo.
func (r *UserRepo) SetDirectRole(ctx context.Context, userID, role string) error {
	query := `
		INSERT INTO user_roles (user_id, role, created_at) VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role`
	if _, err := r.q.Exec(ctx, query, userID, role); err != nil {
		return wrap("set direct role", err)
	}
	return nil
}

// ListDirectory usuario + rol directo + su asociación (si tiene) + nombre de la empresa.
func (r *UserRepo) ListDirectory(ctx context.Context, limit, offset int) ([]repository.UserDirectoryEntry, error) {
	query := `
		SELECT u.id, u.email, u.name, u.status, u.superadmin,
		       COALESCE(ur.role, ''),
		       COALESCE(cu.company_id::text, ''), COALESCE(c.name, ''),
		       COALESCE(cu.role, ''), COALESCE(cu.is_admin, FALSE),
		       u.created_at
		FROM users u
		LEFT JOIN user_roles ur    ON ur.user_id = u.id
		LEFT JOIN company_users cu ON cu.user_id = u.id
		LEFT JOIN companies c      ON c.id = cu.company_id
		ORDER BY u.created_at DESC, u.id
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, wrap("list user directory", err)
	}
	defer rows.Close()

	var out []repository.UserDirectoryEntry
	for rows.Next() {
		var e repository.UserDirectoryEntry
		if err := rows.Scan(
			&e.UserID, &e.Email, &e.Name, &e.Status, &e.Superadmin,
			&e.DirectRole,
			&e.CompanyID, &e.CompanyName,
			&e.CompanyRole, &e.IsAdmin,
			&e.CreatedAt,
		); err != nil {
			return nil, wrap("scan user directory", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *UserRepo) findOne(ctx context.Context, op, query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Superadmin, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return &u, nil
}
