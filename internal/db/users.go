package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/torchlight-safety/warden/internal/model"
)

// CreateUser inserts a new user and returns the new user ID.
func (s *pgStore) CreateUser(email, hashedPassword string, name *string, role string) (int, error) {
	query := `
	INSERT INTO users (email, hashed_password, name, role, created_at, updated_at)
	VALUES ($1, $2, $3, $4, now(), now())
	RETURNING id;
	`
	var newID int
	err := s.db.QueryRow(query, email, hashedPassword, name, role).Scan(&newID)
	if err != nil {
		log.Error().Err(err).Msg("failed to create user")
		return 0, err
	}
	return newID, nil
}

// GetUserByEmail fetches a user by email. Returns nil, sql.ErrNoRows if not found.
func (s *pgStore) GetUserByEmail(email string) (*model.User, error) {
	var u model.User
	query := `
	SELECT id, email, hashed_password, name, role, created_at, updated_at
	FROM users
	WHERE email = $1;
	`
	err := s.db.Get(&u, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Err(err).Msg("failed to get user by email")
		return nil, err
	}
	return &u, nil
}

// GetUserByID fetches a user by ID. Returns nil, sql.ErrNoRows if not found.
func (s *pgStore) GetUserByID(id int) (*model.User, error) {
	var u model.User
	query := `
	SELECT id, email, hashed_password, name, role, created_at, updated_at
	FROM users
	WHERE id = $1;
	`
	err := s.db.Get(&u, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Err(err).Msg("failed to get user by id")
		return nil, err
	}
	return &u, nil
}

// UpdateUserProfile updates a user's email and name, and bumps updated_at.
// Returns an error if no rows were affected.
func (s *pgStore) UpdateUserProfile(id int, email string, name *string) error {
	query := `
	UPDATE users
	SET email = $2,
	name = $3,
	updated_at = now()
	WHERE id = $1;
	`
	res, err := s.db.Exec(query, id, email, name)
	if err != nil {
		log.Error().Err(err).Msg("failed to update user profile - exec")
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		log.Error().Err(err).Msg("failed to update user profile - rows affected")
		return err
	}
	if rows == 0 {
		log.Error().Int("user_id", id).Msg("failed to update user profile - no such user")
		return errors.New("no such user")
	}
	return nil
}

// ListWorkers returns every account with the worker role, for the roster sweep.
func (s *pgStore) ListWorkers() ([]model.User, error) {
	var out []model.User
	const q = `
	SELECT id, email, hashed_password, name, role, created_at, updated_at
	  FROM users
	 WHERE role = $1
	 ORDER BY id;`
	if err := s.db.Select(&out, q, model.RoleWorker); err != nil {
		log.Error().Err(err).Msg("ListWorkers failed")
		return nil, err
	}
	return out, nil
}
