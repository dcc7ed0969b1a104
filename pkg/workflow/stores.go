package workflow

import (
	"github.com/FIFI1803/threadflow-studio/pkg/db"
	"github.com/FIFI1803/threadflow-studio/pkg/db/queries"
	"github.com/google/uuid"
)

// dbProjectStore and dbProfileStore adapt the queries package to the
// controller's store interfaces.

type dbProjectStore struct{}

func (dbProjectStore) CreateProject(project *db.Project) (*db.Project, error) {
	return queries.CreateProject(project)
}

type dbProfileStore struct{}

func (dbProfileStore) FindProfileByUserID(userID uuid.UUID) (*db.Profile, error) {
	return queries.FindProfileByUserID(userID)
}

func (dbProfileStore) UpdateProfileCredits(userID uuid.UUID, newValue int) error {
	return queries.UpdateProfileCredits(userID, newValue)
}

// NewDBStores returns store implementations backed by the Postgres pool.
func NewDBStores() (ProjectStore, ProfileStore) {
	return dbProjectStore{}, dbProfileStore{}
}
