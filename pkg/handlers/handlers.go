package handlers

import (
	"context"

	"github.com/FIFI1803/threadflow-studio/pkg/config"
	"github.com/FIFI1803/threadflow-studio/pkg/db"
	"github.com/FIFI1803/threadflow-studio/pkg/db/queries"
	"github.com/FIFI1803/threadflow-studio/pkg/services"
	"github.com/FIFI1803/threadflow-studio/pkg/workflow"
	"github.com/google/uuid"
)

// ScriptWorkflow runs one generation attempt end to end. Run always returns
// a non-nil Result whose State is terminal; implementations may still return
// (nil, err) and callers must not rely on the Result when err is non-nil.
type ScriptWorkflow interface {
	Run(ctx context.Context, session workflow.Session, threadContent, vibe string) (*workflow.Result, error)
}

// AccountStore persists accounts. CreateUserWithProfile is atomic: the user
// and profile rows commit together or not at all.
type AccountStore interface {
	FindUserByEmail(email string) (*db.User, error)
	CreateUserWithProfile(user *db.User, profile *db.Profile) error
	DeleteUser(id uuid.UUID) error
}

// dbAccountStore adapts the queries package to AccountStore.
type dbAccountStore struct{}

func (dbAccountStore) FindUserByEmail(email string) (*db.User, error) {
	return queries.FindUserByEmail(email)
}

func (dbAccountStore) CreateUserWithProfile(user *db.User, profile *db.Profile) error {
	return queries.CreateUserWithProfile(user, profile)
}

func (dbAccountStore) DeleteUser(id uuid.UUID) error {
	return queries.DeleteUser(id)
}

// Handlers holds the dependencies shared by the API handlers.
type Handlers struct {
	Config   *config.Config
	Tokens   *services.TokenService
	Workflow ScriptWorkflow
	Accounts AccountStore
}

// NewHandlers creates a new instance of Handlers backed by the Postgres
// account store.
func NewHandlers(cfg *config.Config, tokens *services.TokenService, wf ScriptWorkflow) *Handlers {
	return &Handlers{
		Config:   cfg,
		Tokens:   tokens,
		Workflow: wf,
		Accounts: dbAccountStore{},
	}
}
