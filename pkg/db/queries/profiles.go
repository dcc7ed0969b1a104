package queries

import (
	"database/sql"
	"fmt"

	"github.com/FIFI1803/threadflow-studio/pkg/db"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Profile rows are created inside the registration transaction; see
// CreateUserWithProfile in users.go.

// FindProfileByUserID retrieves a user's profile. Returns (nil, nil) when the
// user has no profile row.
func FindProfileByUserID(userID uuid.UUID) (*db.Profile, error) {
	profile := &db.Profile{}
	query := `SELECT id, user_id, display_name, avatar_url, credits, tier, created_at, updated_at FROM profiles WHERE user_id = $1`
	err := db.DB.Get(profile, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debugf("Profile for user ID '%s' not found.", userID.String())
			return nil, nil
		}
		log.Errorf("Error finding profile for user ID '%s': %v", userID.String(), err)
		return nil, fmt.Errorf("error finding profile by user ID: %w", err)
	}
	return profile, nil
}

// UpdateProfileCredits sets the credit balance to newValue. Pure pass-through:
// the non-negativity invariant is the workflow controller's responsibility.
func UpdateProfileCredits(userID uuid.UUID, newValue int) error {
	query := `UPDATE profiles SET credits = $1, updated_at = NOW() WHERE user_id = $2`
	result, err := db.DB.Exec(query, newValue, userID)
	if err != nil {
		log.Errorf("Error updating credits for user ID '%s': %v", userID.String(), err)
		return fmt.Errorf("failed to update credits: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Warnf("No profile found for user ID '%s' for credit update.", userID.String())
		return sql.ErrNoRows
	}

	log.Infof("Credits for user ID '%s' updated to %d.", userID.String(), newValue)
	return nil
}

// UpdateProfileDisplayName updates the display name shown in the app shell.
func UpdateProfileDisplayName(userID uuid.UUID, displayName string) error {
	query := `UPDATE profiles SET display_name = $1, updated_at = NOW() WHERE user_id = $2`
	result, err := db.DB.Exec(query, displayName, userID)
	if err != nil {
		log.Errorf("Error updating display name for user ID '%s': %v", userID.String(), err)
		return fmt.Errorf("failed to update display name: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Warnf("No profile found for user ID '%s' for display name update.", userID.String())
		return sql.ErrNoRows
	}

	return nil
}
