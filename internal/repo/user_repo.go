package repo

import (
	"context"

	dom "github.com/josh-kartchner/traction/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	// Create fails with a unique violation when the username exists.
	Create(ctx context.Context, username, passwordHash string) (dom.User, error)
}

type PGUserRepo struct {
	db *pgxpool.Pool
}

func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

const userColumns = `id, username, password_hash, created_at`

func scanUser(row pgx.Row) (dom.User, error) {
	var u dom.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

func (r *PGUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (r *PGUserRepo) Create(ctx context.Context, username, passwordHash string) (dom.User, error) {
	return scanUser(r.db.QueryRow(ctx, `
		INSERT INTO users (id, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		newID(), username, passwordHash))
}
