package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/volunteerhub/server/internal/model"
	"github.com/volunteerhub/server/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already registered")

// Create hashes the password and inserts a user row, returning its ID.
// The plaintext password never leaves this call. A duplicate email is
// detected via the unique index and reported as ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, name, email, password string, role model.Role, orgName *string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, organization_name) VALUES (?,?,?,?,?)",
		name, email, hash, role.String(), orgName)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 { // duplicate key
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(ctx,
		"SELECT id,name,email,password_hash,role,organization_name,created_at FROM users WHERE email=? LIMIT 1",
		email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(ctx,
		"SELECT id,name,email,password_hash,role,organization_name,created_at FROM users WHERE id=? LIMIT 1",
		id)
}

func (r *UserRepo) scanOne(ctx context.Context, query string, arg interface{}) (model.User, error) {
	var (
		u       model.User
		role    string
		orgName sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &orgName, &u.CreatedAt)
	if err != nil {
		return model.User{}, err
	}
	// Rows predating the closed enum would fail here rather than slip
	// through authorization with an unknown role.
	u.Role, err = model.ParseRole(role)
	if err != nil {
		return model.User{}, err
	}
	if orgName.Valid {
		v := orgName.String
		u.OrganizationName = &v
	}
	return u, nil
}
