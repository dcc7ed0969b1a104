package queries

import (
	"database/sql"
	"fmt"

	"github.com/FIFI1803/threadflow-studio/pkg/db"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// CreateProject inserts a new project row wrapping a generated script.
func CreateProject(project *db.Project) (*db.Project, error) {
	if project.Status == "" {
		project.Status = "processing"
	}

	query := `
        INSERT INTO projects (user_id, title, thread_content, video_vibe, status, script_data)
        VALUES (:user_id, :title, :thread_content, :video_vibe, :status, :script_data)
        RETURNING id, created_at, updated_at`

	rows, err := db.DB.NamedQuery(query, project)
	if err != nil {
		log.Errorf("Error creating project: %v", err)
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.StructScan(project); err != nil {
			log.Errorf("Error scanning project data after creation: %v", err)
			return nil, fmt.Errorf("error scanning project after creation: %w", err)
		}
	} else {
		log.Error("No rows returned after project creation.")
		return nil, fmt.Errorf("no rows returned after project creation")
	}

	log.Infof("Project '%s' created for user ID: %s (ID: %s)", project.Title, project.UserID.String(), project.ID.String())
	return project, nil
}

// FindProjectByID retrieves a project by its ID. Returns (nil, nil) when not
// found; ownership is checked by the caller.
func FindProjectByID(projectID uuid.UUID) (*db.Project, error) {
	project := &db.Project{}
	query := `SELECT id, user_id, title, thread_content, video_vibe, status, script_data, created_at, updated_at FROM projects WHERE id = $1`
	err := db.DB.Get(project, query, projectID)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debugf("Project with ID '%s' not found.", projectID.String())
			return nil, nil
		}
		log.Errorf("Error finding project by ID '%s': %v", projectID.String(), err)
		return nil, fmt.Errorf("error finding project by ID: %w", err)
	}
	return project, nil
}

// FindProjectsByUserID retrieves all projects owned by a user, newest first.
func FindProjectsByUserID(userID uuid.UUID) ([]db.Project, error) {
	var projects []db.Project
	query := `SELECT id, user_id, title, thread_content, video_vibe, status, script_data, created_at, updated_at FROM projects WHERE user_id = $1 ORDER BY created_at DESC`
	err := db.DB.Select(&projects, query, userID)
	if err != nil {
		log.Errorf("Error finding projects for user ID '%s': %v", userID.String(), err)
		return nil, fmt.Errorf("error finding projects by user ID: %w", err)
	}
	return projects, nil
}

// DeleteProject removes a project. The user_id in the WHERE clause enforces
// ownership.
func DeleteProject(projectID, userID uuid.UUID) error {
	query := `DELETE FROM projects WHERE id = $1 AND user_id = $2`
	result, err := db.DB.Exec(query, projectID, userID)
	if err != nil {
		log.Errorf("Error deleting project with ID '%s' for user ID '%s': %v", projectID.String(), userID.String(), err)
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Warnf("No project found with ID '%s' for user ID '%s' for deletion.", projectID.String(), userID.String())
		return sql.ErrNoRows
	}

	log.Infof("Project with ID '%s' deleted.", projectID.String())
	return nil
}
