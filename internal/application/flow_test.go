package application

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datahiredevops/datahire-workspace/internal/types"
)

type fakeAPI struct {
	mu sync.Mutex

	resumes []types.Resume
	letters []types.CoverLetter

	resumesErr error
	lettersErr error
	applyErr   error
	detailErr  error

	applied []types.ApplyRequest
}

func (f *fakeAPI) Resumes(_ context.Context, _ int) ([]types.Resume, error) {
	if f.resumesErr != nil {
		return nil, f.resumesErr
	}
	return f.resumes, nil
}

func (f *fakeAPI) CoverLetters(_ context.Context, _ int) ([]types.CoverLetter, error) {
	if f.lettersErr != nil {
		return nil, f.lettersErr
	}
	return f.letters, nil
}

func (f *fakeAPI) Apply(_ context.Context, _ int, req types.ApplyRequest) error {
	f.mu.Lock()
	f.applied = append(f.applied, req)
	f.mu.Unlock()
	return f.applyErr
}

func (f *fakeAPI) ApplicationDetail(_ context.Context, jobID, _ int) (*types.Application, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return &types.Application{JobID: jobID, ResumeID: 1, ResumeName: "backend.pdf"}, nil
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		resumes: []types.Resume{{ID: 1, Name: "backend.pdf"}, {ID: 2, Name: "platform.pdf"}},
		letters: []types.CoverLetter{{ID: 10, Name: "generic"}},
	}
}

func TestInitiateOpensWithBothLists(t *testing.T) {
	f := NewFlow(newFakeAPI(), 3)

	require.NoError(t, f.Initiate(context.Background(), 42))
	assert.Equal(t, StateChoosing, f.State())

	resumes, letters := f.Choices()
	assert.Len(t, resumes, 2)
	assert.Len(t, letters, 1)
}

func TestInitiateGatherFailureStaysClosed(t *testing.T) {
	api := newFakeAPI()
	api.lettersErr = errors.New("cover letters unavailable")
	f := NewFlow(api, 3)

	err := f.Initiate(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, StateClosed, f.State(), "either list failing keeps the modal closed")
}

func TestInitiateGuardedWhenApplied(t *testing.T) {
	f := NewFlow(newFakeAPI(), 3, WithAppliedCheck(func(jobID int) bool { return jobID == 42 }))

	err := f.Initiate(context.Background(), 42)
	assert.ErrorIs(t, err, ErrAlreadyApplied)
	assert.Equal(t, StateClosed, f.State())

	require.NoError(t, f.Initiate(context.Background(), 43))
}

func TestInitiateGuardedWhileOpen(t *testing.T) {
	f := NewFlow(newFakeAPI(), 3)
	require.NoError(t, f.Initiate(context.Background(), 42))

	err := f.Initiate(context.Background(), 43)
	assert.ErrorIs(t, err, ErrBusy)
}

func TestConfirmSubmitsAndCloses(t *testing.T) {
	api := newFakeAPI()
	var appliedJob int
	var detail *types.Application
	f := NewFlow(api, 3, WithOnApplied(func(jobID int, app *types.Application) {
		appliedJob = jobID
		detail = app
	}))
	require.NoError(t, f.Initiate(context.Background(), 42))

	require.NoError(t, f.Confirm(context.Background(), 1))

	assert.Equal(t, StateClosed, f.State())
	assert.Equal(t, 42, appliedJob)
	require.NotNil(t, detail)
	assert.Equal(t, "backend.pdf", detail.ResumeName)

	require.Len(t, api.applied, 1)
	assert.Equal(t, 3, api.applied[0].UserID)
	assert.Equal(t, 1, api.applied[0].ResumeID)
}

func TestConfirmWithoutCoverLetterSendsNull(t *testing.T) {
	api := newFakeAPI()
	f := NewFlow(api, 3)
	require.NoError(t, f.Initiate(context.Background(), 42))
	require.NoError(t, f.Confirm(context.Background(), 2))

	require.Len(t, api.applied, 1)
	body, err := json.Marshal(api.applied[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_id":3,"resume_id":2,"cover_letter_id":null}`, string(body))
}

func TestConfirmWithCoverLetter(t *testing.T) {
	api := newFakeAPI()
	f := NewFlow(api, 3)
	require.NoError(t, f.Initiate(context.Background(), 42))
	require.NoError(t, f.ChooseCoverLetter(10))
	require.NoError(t, f.Confirm(context.Background(), 1))

	require.Len(t, api.applied, 1)
	require.NotNil(t, api.applied[0].CoverLetterID)
	assert.Equal(t, 10, *api.applied[0].CoverLetterID)
}

func TestConfirmFailureReturnsToChoosing(t *testing.T) {
	api := newFakeAPI()
	api.applyErr = errors.New("server rejected")
	called := false
	f := NewFlow(api, 3, WithOnApplied(func(int, *types.Application) { called = true }))
	require.NoError(t, f.Initiate(context.Background(), 42))

	err := f.Confirm(context.Background(), 1)
	require.Error(t, err)

	// The user stays in the modal to retry; membership is untouched.
	assert.Equal(t, StateChoosing, f.State())
	assert.False(t, called)

	api.applyErr = nil
	require.NoError(t, f.Confirm(context.Background(), 1))
	assert.Equal(t, StateClosed, f.State())
}

func TestConfirmSucceedsWhenDetailFetchFails(t *testing.T) {
	api := newFakeAPI()
	api.detailErr = errors.New("detail unavailable")
	var detail *types.Application
	called := false
	f := NewFlow(api, 3, WithOnApplied(func(_ int, app *types.Application) {
		called = true
		detail = app
	}))
	require.NoError(t, f.Initiate(context.Background(), 42))

	require.NoError(t, f.Confirm(context.Background(), 1))
	assert.True(t, called, "applied membership still settles")
	assert.Nil(t, detail)
}

func TestConfirmRejectsUnknownResume(t *testing.T) {
	f := NewFlow(newFakeAPI(), 3)
	require.NoError(t, f.Initiate(context.Background(), 42))

	err := f.Confirm(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUnknownChoice)
	assert.Equal(t, StateChoosing, f.State())
}

func TestChooseCoverLetterGuards(t *testing.T) {
	f := NewFlow(newFakeAPI(), 3)
	assert.ErrorIs(t, f.ChooseCoverLetter(10), ErrNotChoosing)

	require.NoError(t, f.Initiate(context.Background(), 42))
	assert.ErrorIs(t, f.ChooseCoverLetter(99), ErrUnknownChoice)
}

func TestCancelClosesAndClears(t *testing.T) {
	f := NewFlow(newFakeAPI(), 3)
	require.NoError(t, f.Initiate(context.Background(), 42))
	require.NoError(t, f.ChooseCoverLetter(10))

	require.NoError(t, f.Cancel())
	assert.Equal(t, StateClosed, f.State())

	resumes, letters := f.Choices()
	assert.Nil(t, resumes)
	assert.Nil(t, letters)
}
