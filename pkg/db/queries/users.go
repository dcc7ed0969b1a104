package queries

import (
	"database/sql"
	"fmt"

	"github.com/FIFI1803/threadflow-studio/pkg/db"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// CreateUserWithProfile inserts a user and their profile in a single
// transaction. A failed profile insert rolls back the user row, so a half
// registered account can never be left behind.
func CreateUserWithProfile(user *db.User, profile *db.Profile) error {
	tx, err := db.DB.Beginx()
	if err != nil {
		log.Errorf("Error starting registration transaction: %v", err)
		return fmt.Errorf("failed to start registration transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.NamedQuery(`
		INSERT INTO users (email, password_hash)
		VALUES (:email, :password_hash)
		RETURNING id, created_at, updated_at`, user)
	if err != nil {
		log.Errorf("Error creating user: %v", err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	if !rows.Next() {
		rows.Close()
		log.Error("No rows returned after user creation.")
		return sql.ErrNoRows
	}
	if err := rows.StructScan(user); err != nil {
		rows.Close()
		log.Errorf("Error scanning user data after creation: %v", err)
		return err
	}
	rows.Close()

	profile.UserID = user.ID
	rows, err = tx.NamedQuery(`
		INSERT INTO profiles (user_id, display_name, credits, tier)
		VALUES (:user_id, :display_name, :credits, :tier)
		RETURNING id, created_at, updated_at`, profile)
	if err != nil {
		log.Errorf("Error creating profile for user '%s': %v", user.ID.String(), err)
		return fmt.Errorf("failed to create profile: %w", err)
	}
	if !rows.Next() {
		rows.Close()
		log.Error("No rows returned after profile creation.")
		return sql.ErrNoRows
	}
	if err := rows.StructScan(profile); err != nil {
		rows.Close()
		log.Errorf("Error scanning profile data after creation: %v", err)
		return err
	}
	rows.Close()

	if err := tx.Commit(); err != nil {
		log.Errorf("Error committing registration for user '%s': %v", user.Email, err)
		return fmt.Errorf("failed to commit registration: %w", err)
	}

	log.Infof("User %s registered with ID: %s (credits: %d)", user.Email, user.ID.String(), profile.Credits)
	return nil
}

// FindUserByEmail retrieves a user by email. Returns (nil, nil) when no user
// exists with that address.
func FindUserByEmail(email string) (*db.User, error) {
	user := &db.User{}
	query := `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = $1`
	err := db.DB.Get(user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debugf("User with email '%s' not found.", email)
			return nil, nil
		}
		log.Errorf("Error finding user by email '%s': %v", email, err)
		return nil, err
	}
	return user, nil
}

// FindUserByID retrieves a user by ID. Returns (nil, nil) when not found.
func FindUserByID(id uuid.UUID) (*db.User, error) {
	user := &db.User{}
	query := `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = $1`
	err := db.DB.Get(user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debugf("User with ID '%s' not found.", id.String())
			return nil, nil
		}
		log.Errorf("Error finding user by ID '%s': %v", id.String(), err)
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user. Profile and project rows are removed by the
// ON DELETE CASCADE constraints in the schema.
func DeleteUser(id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`
	result, err := db.DB.Exec(query, id)
	if err != nil {
		log.Errorf("Error deleting user with ID '%s': %v", id.String(), err)
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Warnf("No user found with ID '%s' for deletion.", id.String())
		return sql.ErrNoRows
	}

	log.Infof("User with ID '%s' deleted.", id.String())
	return nil
}
