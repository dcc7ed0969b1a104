package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/FIFI1803/threadflow-studio/pkg/db"
	"github.com/FIFI1803/threadflow-studio/pkg/script"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	log "github.com/sirupsen/logrus"
)

// State tracks where a single generation attempt is in its pipeline. Every
// attempt moves Idle → CheckingQuota → Generating → Persisting →
// DebitingCredit → Done; any error exits to Failed.
type State string

const (
	StateIdle           State = "idle"
	StateCheckingQuota  State = "checking_quota"
	StateGenerating     State = "generating"
	StatePersisting     State = "persisting"
	StateDebitingCredit State = "debiting_credit"
	StateDone           State = "done"
	StateFailed         State = "failed"
)

// Session identifies the caller. It is passed explicitly at call time; the
// controller never reads ambient auth state.
type Session struct {
	UserID uuid.UUID
}

// Result is what a terminal attempt hands back to the caller.
type Result struct {
	State            State
	Script           *script.Script
	ProjectID        uuid.UUID
	CreditsRemaining int
	// DebitFailed records a non-fatal accounting failure: the credit debit
	// did not go through but the attempt still succeeded. CreditsRemaining
	// then reports the undecremented balance.
	DebitFailed bool
}

// Generator is the generation gateway.
type Generator interface {
	GenerateScript(ctx context.Context, threadContent, vibe string) (*script.Script, error)
}

// ProjectStore persists generated scripts.
type ProjectStore interface {
	CreateProject(project *db.Project) (*db.Project, error)
}

// ProfileStore reads and writes the caller's credit balance. Pass-through
// only; the non-negativity invariant lives here in the controller.
type ProfileStore interface {
	FindProfileByUserID(userID uuid.UUID) (*db.Profile, error)
	UpdateProfileCredits(userID uuid.UUID, newValue int) error
}

// SessionLocker guards against concurrent attempts by the same user.
type SessionLocker interface {
	Acquire(ctx context.Context, userID uuid.UUID) (bool, error)
	Release(ctx context.Context, userID uuid.UUID)
}

// Controller orchestrates one generation attempt: quota check, gateway call,
// project persistence, credit debit. Sequential, no internal parallelism, no
// automatic retries.
type Controller struct {
	generator Generator
	projects  ProjectStore
	profiles  ProfileStore
	locks     SessionLocker
}

func NewController(generator Generator, projects ProjectStore, profiles ProfileStore, locks SessionLocker) *Controller {
	return &Controller{
		generator: generator,
		projects:  projects,
		profiles:  profiles,
		locks:     locks,
	}
}

// Run executes a single generation attempt for the given session. The ctx
// bounds the outbound completion call; cancellation or timeout surfaces as a
// generation error. Returns the terminal Result alongside any error; on
// error the Result's State is always StateFailed.
func (c *Controller) Run(ctx context.Context, session Session, threadContent, vibe string) (*Result, error) {
	res := &Result{State: StateIdle}

	acquired, err := c.locks.Acquire(ctx, session.UserID)
	if err != nil {
		return c.fail(res, fmt.Errorf("failed to check in-flight generations: %w", err))
	}
	if !acquired {
		return c.fail(res, ErrGenerationInFlight)
	}
	// The lease must be dropped even when the caller's ctx is already done.
	defer c.locks.Release(context.WithoutCancel(ctx), session.UserID)

	res.State = StateCheckingQuota
	profile, err := c.profiles.FindProfileByUserID(session.UserID)
	if err != nil {
		return c.fail(res, err)
	}
	if profile == nil {
		return c.fail(res, ErrProfileNotFound)
	}
	if profile.Credits <= 0 {
		log.Debugf("Generation rejected for user %s: credit balance %d.", session.UserID.String(), profile.Credits)
		return c.fail(res, ErrQuotaExceeded)
	}
	res.CreditsRemaining = profile.Credits

	res.State = StateGenerating
	generated, err := c.generator.GenerateScript(ctx, threadContent, vibe)
	if err != nil {
		// Surface the gateway's message verbatim. Nothing was persisted.
		return c.fail(res, err)
	}
	res.Script = generated

	res.State = StatePersisting
	payload, err := json.Marshal(generated)
	if err != nil {
		return c.fail(res, &PersistenceError{Err: err})
	}
	project := &db.Project{
		UserID:        session.UserID,
		Title:         script.DeriveTitle(threadContent),
		ThreadContent: threadContent,
		VideoVibe:     script.NormalizeVibe(vibe),
		Status:        "completed",
		ScriptData:    types.JSONText(payload),
	}
	created, err := c.projects.CreateProject(project)
	if err != nil {
		// The generated script is discarded: generation is not
		// idempotent-safe to redo silently, and the balance is untouched.
		return c.fail(res, &PersistenceError{Err: err})
	}
	res.ProjectID = created.ID

	res.State = StateDebitingCredit
	newBalance := profile.Credits - 1
	if err := c.profiles.UpdateProfileCredits(session.UserID, newBalance); err != nil {
		// Non-fatal accounting failure: the attempt still succeeds, the
		// failure is recorded for diagnostics rather than swallowed.
		log.WithFields(log.Fields{
			"user_id":    session.UserID.String(),
			"project_id": created.ID.String(),
			"balance":    profile.Credits,
		}).Warnf("Credit debit failed after successful generation: %v", err)
		res.DebitFailed = true
	} else {
		res.CreditsRemaining = newBalance
	}

	res.State = StateDone
	log.Infof("Generation completed for user %s: project %s, %d scenes, %d credits remaining.",
		session.UserID.String(), created.ID.String(), len(generated.Scenes), res.CreditsRemaining)
	return res, nil
}

func (c *Controller) fail(res *Result, err error) (*Result, error) {
	res.State = StateFailed
	return res, err
}
