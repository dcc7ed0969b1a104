package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

type User struct {
	ID           uuid.UUID `db:"id"`            // primary key, auto-generated UUID
	Email        string    `db:"email"`         // unique email
	PasswordHash string    `db:"password_hash"` // bcrypt hash
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Profile carries the per-user display data and the credit balance consumed
// by script generation. One row per user, created at registration.
type Profile struct {
	ID          uuid.UUID      `db:"id"`
	UserID      uuid.UUID      `db:"user_id"`
	DisplayName sql.NullString `db:"display_name"`
	AvatarURL   sql.NullString `db:"avatar_url"`
	Credits     int            `db:"credits"` // never negative
	Tier        string         `db:"tier"`    // e.g. "free"
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// Project is a persisted script generation: the source thread, the vibe it
// was generated with, and the resulting scene sequence as jsonb. Rows are
// never mutated after creation, only deleted by their owner.
type Project struct {
	ID            uuid.UUID      `db:"id"`
	UserID        uuid.UUID      `db:"user_id"`
	Title         string         `db:"title"`
	ThreadContent string         `db:"thread_content"`
	VideoVibe     string         `db:"video_vibe"`
	Status        string         `db:"status"` // "processing", "completed" or "failed"
	ScriptData    types.JSONText `db:"script_data"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}
