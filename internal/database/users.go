package database

import (
	"context"

	"github.com/google/uuid"
)

const getUserByEmail = `
SELECT id, email, name, password_hash, role, is_active, created_at
FROM users
WHERE email = $1 AND is_active = true
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, getUserByEmail, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	return u, err
}

const getUserByID = `
SELECT id, email, name, password_hash, role, is_active, created_at
FROM users
WHERE id = $1 AND is_active = true
`

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, getUserByID, id).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	return u, err
}

const createUser = `
INSERT INTO users (email, name, password_hash, role)
VALUES ($1, $2, $3, $4)
ON CONFLICT (email) DO UPDATE
SET name = EXCLUDED.name, password_hash = EXCLUDED.password_hash, role = EXCLUDED.role
RETURNING id, email, name, password_hash, role, is_active, created_at
`

type CreateUserParams struct {
	Email        string
	Name         string
	PasswordHash string
	Role         string
}

// CreateUser upserts by email; the seed command reruns safely.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, createUser, arg.Email, arg.Name, arg.PasswordHash, arg.Role).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	return u, err
}
