package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/FIFI1803/threadflow-studio/pkg/db"
	"github.com/FIFI1803/threadflow-studio/pkg/llm"
	"github.com/FIFI1803/threadflow-studio/pkg/script"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	script *script.Script
	err    error
	calls  int
}

func (f *fakeGenerator) GenerateScript(ctx context.Context, threadContent, vibe string) (*script.Script, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.script, nil
}

type fakeProjectStore struct {
	created []*db.Project
	err     error
}

func (f *fakeProjectStore) CreateProject(project *db.Project) (*db.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	project.ID = uuid.New()
	f.created = append(f.created, project)
	return project, nil
}

type fakeProfileStore struct {
	profile   *db.Profile
	findErr   error
	updateErr error
	updates   []int
}

func (f *fakeProfileStore) FindProfileByUserID(userID uuid.UUID) (*db.Profile, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.profile, nil
}

func (f *fakeProfileStore) UpdateProfileCredits(userID uuid.UUID, newValue int) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, newValue)
	return nil
}

type fakeLocker struct {
	held     bool
	acquires int
	releases int
}

func (f *fakeLocker) Acquire(ctx context.Context, userID uuid.UUID) (bool, error) {
	f.acquires++
	if f.held {
		return false, nil
	}
	f.held = true
	return true, nil
}

func (f *fakeLocker) Release(ctx context.Context, userID uuid.UUID) {
	f.releases++
	f.held = false
}

func twoSceneScript() *script.Script {
	return &script.Script{Scenes: []script.Scene{
		{ID: 1, Dialogue: "This cat did the unthinkable...", VisualInstruction: "Close-up of cat", Duration: "3s"},
		{ID: 2, Dialogue: "And here is how it ends.", VisualInstruction: "Slow zoom out", Duration: "4s"},
	}}
}

func newTestController(gen *fakeGenerator, projects *fakeProjectStore, profiles *fakeProfileStore, locks *fakeLocker) *Controller {
	return NewController(gen, projects, profiles, locks)
}

func TestRun_QuotaExceeded(t *testing.T) {
	userID := uuid.New()
	gen := &fakeGenerator{script: twoSceneScript()}
	projects := &fakeProjectStore{}
	profiles := &fakeProfileStore{profile: &db.Profile{UserID: userID, Credits: 0}}
	locks := &fakeLocker{}

	ctrl := newTestController(gen, projects, profiles, locks)
	res, err := ctrl.Run(context.Background(), Session{UserID: userID}, "some thread", "cinematic")

	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, StateFailed, res.State)
	// No outbound call and nothing persisted.
	assert.Zero(t, gen.calls)
	assert.Empty(t, projects.created)
	assert.Empty(t, profiles.updates)
	assert.Equal(t, 1, locks.releases)
}

func TestRun_EndToEndSuccess(t *testing.T) {
	userID := uuid.New()
	thread := "A very long saga about a cat..."
	gen := &fakeGenerator{script: twoSceneScript()}
	projects := &fakeProjectStore{}
	profiles := &fakeProfileStore{profile: &db.Profile{UserID: userID, Credits: 3}}
	locks := &fakeLocker{}

	ctrl := newTestController(gen, projects, profiles, locks)
	res, err := ctrl.Run(context.Background(), Session{UserID: userID}, thread, "fast-paced")

	require.NoError(t, err)
	assert.Equal(t, StateDone, res.State)
	assert.Len(t, res.Script.Scenes, 2)

	// Balance 3 → 2, decrement by exactly 1.
	assert.Equal(t, 2, res.CreditsRemaining)
	require.Len(t, profiles.updates, 1)
	assert.Equal(t, 2, profiles.updates[0])

	// Persisted project carries the completed script.
	require.Len(t, projects.created, 1)
	created := projects.created[0]
	assert.Equal(t, userID, created.UserID)
	assert.Equal(t, "completed", created.Status)
	assert.Equal(t, "fast-paced", created.VideoVibe)
	assert.Equal(t, thread+"...", created.Title)
	assert.Equal(t, thread, created.ThreadContent)
	assert.Equal(t, res.ProjectID, created.ID)

	var stored script.Script
	require.NoError(t, json.Unmarshal(created.ScriptData, &stored))
	assert.Len(t, stored.Scenes, 2)

	assert.Equal(t, 1, locks.releases)
	assert.False(t, locks.held)
}

func TestRun_GatewayErrorPersistsNothing(t *testing.T) {
	userID := uuid.New()
	upstream := &llm.UpstreamError{Message: "model overloaded"}
	gen := &fakeGenerator{err: upstream}
	projects := &fakeProjectStore{}
	profiles := &fakeProfileStore{profile: &db.Profile{UserID: userID, Credits: 3}}
	locks := &fakeLocker{}

	ctrl := newTestController(gen, projects, profiles, locks)
	res, err := ctrl.Run(context.Background(), Session{UserID: userID}, "thread", "cinematic")

	require.Error(t, err)
	// The gateway message surfaces verbatim.
	assert.Equal(t, "model overloaded", err.Error())
	assert.Equal(t, StateFailed, res.State)
	assert.Empty(t, projects.created)
	assert.Empty(t, profiles.updates)
	assert.Equal(t, 1, locks.releases)
}

func TestRun_PersistenceFailureLeavesBalanceUnchanged(t *testing.T) {
	userID := uuid.New()
	gen := &fakeGenerator{script: twoSceneScript()}
	projects := &fakeProjectStore{err: errors.New("connection reset")}
	profiles := &fakeProfileStore{profile: &db.Profile{UserID: userID, Credits: 3}}
	locks := &fakeLocker{}

	ctrl := newTestController(gen, projects, profiles, locks)
	res, err := ctrl.Run(context.Background(), Session{UserID: userID}, "thread", "cinematic")

	require.Error(t, err)
	var pe *PersistenceError
	assert.ErrorAs(t, err, &pe)
	assert.Equal(t, StateFailed, res.State)
	// Debit only happens after successful persistence.
	assert.Empty(t, profiles.updates)
	assert.Equal(t, 1, locks.releases)
}

func TestRun_DebitFailureIsNonFatal(t *testing.T) {
	userID := uuid.New()
	gen := &fakeGenerator{script: twoSceneScript()}
	projects := &fakeProjectStore{}
	profiles := &fakeProfileStore{
		profile:   &db.Profile{UserID: userID, Credits: 3},
		updateErr: errors.New("timeout updating credits"),
	}
	locks := &fakeLocker{}

	ctrl := newTestController(gen, projects, profiles, locks)
	res, err := ctrl.Run(context.Background(), Session{UserID: userID}, "thread", "cinematic")

	// The attempt still reports success; the failure is recorded.
	require.NoError(t, err)
	assert.Equal(t, StateDone, res.State)
	assert.True(t, res.DebitFailed)
	assert.Equal(t, 3, res.CreditsRemaining)
	assert.Len(t, projects.created, 1)
}

func TestRun_RejectsConcurrentAttempt(t *testing.T) {
	userID := uuid.New()
	gen := &fakeGenerator{script: twoSceneScript()}
	projects := &fakeProjectStore{}
	profiles := &fakeProfileStore{profile: &db.Profile{UserID: userID, Credits: 3}}
	locks := &fakeLocker{held: true} // another attempt is in flight

	ctrl := newTestController(gen, projects, profiles, locks)
	res, err := ctrl.Run(context.Background(), Session{UserID: userID}, "thread", "cinematic")

	assert.ErrorIs(t, err, ErrGenerationInFlight)
	assert.Equal(t, StateFailed, res.State)
	assert.Zero(t, gen.calls)
	assert.Empty(t, projects.created)
	// The rejected attempt must not release the holder's lease.
	assert.Zero(t, locks.releases)
	assert.True(t, locks.held)
}

// ctxGenerator fails with whatever the context reports, like a real
// outbound call would after cancellation.
type ctxGenerator struct{}

func (ctxGenerator) GenerateScript(ctx context.Context, threadContent, vibe string) (*script.Script, error) {
	return nil, ctx.Err()
}

func TestRun_CancelledContext(t *testing.T) {
	userID := uuid.New()
	projects := &fakeProjectStore{}
	profiles := &fakeProfileStore{profile: &db.Profile{UserID: userID, Credits: 3}}
	locks := &fakeLocker{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ctrl := NewController(ctxGenerator{}, projects, profiles, locks)
	res, err := ctrl.Run(ctx, Session{UserID: userID}, "thread", "cinematic")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateFailed, res.State)
	assert.Empty(t, projects.created)
	assert.Empty(t, profiles.updates)
	// The lease is released even when the caller has gone away.
	assert.Equal(t, 1, locks.releases)
	assert.False(t, locks.held)
}

func TestRun_ProfileMissing(t *testing.T) {
	userID := uuid.New()
	gen := &fakeGenerator{script: twoSceneScript()}
	projects := &fakeProjectStore{}
	profiles := &fakeProfileStore{profile: nil}
	locks := &fakeLocker{}

	ctrl := newTestController(gen, projects, profiles, locks)
	res, err := ctrl.Run(context.Background(), Session{UserID: userID}, "thread", "cinematic")

	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.Equal(t, StateFailed, res.State)
	assert.Zero(t, gen.calls)
	assert.Equal(t, 1, locks.releases)
}
