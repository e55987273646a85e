package service

import (
	"context"
	"testing"
	"time"

	"evote-api/internal/domain"
	apperrors "evote-api/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestElectionService(elections *fakeElectionStore, audit *fakeAuditStore) *ElectionService {
	svc := NewElectionService(elections, audit, nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC) }
	return svc
}

func adminPrincipal() *domain.Principal {
	return &domain.Principal{
		ID:       "admin-001",
		Email:    "commissioner@university.edu",
		Name:     "Election Commissioner",
		UserType: domain.UserTypeFaculty,
		Role:     domain.RoleAdmin,
	}
}

func TestListElections_SyncsStaleStatuses(t *testing.T) {
	election := testElection()
	election.Status = domain.ElectionUpcoming // stale, window already opened

	elections := &fakeElectionStore{election: election}
	svc := newTestElectionService(elections, &fakeAuditStore{})

	listed, err := svc.ListElections(context.Background())

	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, domain.ElectionOngoing, listed[0].Status)
	require.Len(t, elections.statusUpdates, 1)
}

func TestGetElection_AssemblesBallotPaper(t *testing.T) {
	elections := &fakeElectionStore{
		election:   testElection(),
		positions:  testPositions(),
		candidates: testCandidates(),
	}
	svc := newTestElectionService(elections, &fakeAuditStore{})

	detail, err := svc.GetElection(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "Student Council 2026", detail.Title)
	require.Len(t, detail.Positions, 2)
	assert.Equal(t, "President", detail.Positions[0].Title)
	assert.Len(t, detail.Positions[0].Candidates, 2)
	assert.Equal(t, "Senator", detail.Positions[1].Title)
	assert.Len(t, detail.Positions[1].Candidates, 3)
}

func TestGetElection_NotFound(t *testing.T) {
	svc := newTestElectionService(&fakeElectionStore{}, &fakeAuditStore{})

	_, err := svc.GetElection(context.Background(), 42)

	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestMarkOfficial_Success(t *testing.T) {
	election := testElection()
	elections := &fakeElectionStore{election: election}
	audit := &fakeAuditStore{}
	svc := newTestElectionService(elections, audit)
	svc.now = func() time.Time { return election.EndDate.Add(time.Hour) }

	certified, err := svc.MarkOfficial(context.Background(), adminPrincipal(), 1)

	require.NoError(t, err)
	assert.True(t, certified.IsOfficial)
	assert.Equal(t, domain.ElectionCompleted, certified.Status)
	require.Len(t, elections.markedIDs, 1)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, domain.AuditActionElectionOfficial, audit.entries[0].Action)
	assert.Equal(t, "admin-001", audit.entries[0].UserID)
}

func TestMarkOfficial_RequiresAdmin(t *testing.T) {
	elections := &fakeElectionStore{election: testElection()}
	svc := newTestElectionService(elections, &fakeAuditStore{})

	_, err := svc.MarkOfficial(context.Background(), studentPrincipal(), 1)

	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.StatusCode)
	assert.Empty(t, elections.markedIDs)
}

func TestMarkOfficial_RejectsOpenWindow(t *testing.T) {
	elections := &fakeElectionStore{election: testElection()}
	svc := newTestElectionService(elections, &fakeAuditStore{})
	// svc.now is mid-window

	_, err := svc.MarkOfficial(context.Background(), adminPrincipal(), 1)

	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Empty(t, elections.markedIDs)
}

func TestMarkOfficial_AlreadyOfficial(t *testing.T) {
	election := testElection()
	election.IsOfficial = true
	elections := &fakeElectionStore{election: election}
	svc := newTestElectionService(elections, &fakeAuditStore{})
	svc.now = func() time.Time { return election.EndDate.Add(time.Hour) }

	_, err := svc.MarkOfficial(context.Background(), adminPrincipal(), 1)

	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.StatusCode)
}

func TestMarkOfficial_NotFound(t *testing.T) {
	svc := newTestElectionService(&fakeElectionStore{}, &fakeAuditStore{})

	_, err := svc.MarkOfficial(context.Background(), adminPrincipal(), 42)

	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestGetAuditTrail(t *testing.T) {
	elections := &fakeElectionStore{election: testElection()}
	electionID := 1
	audit := &fakeAuditStore{entries: []domain.AuditLog{
		{ID: 1, UserID: "stu-001", Action: domain.AuditActionVoteCast, ElectionID: &electionID},
	}}
	svc := newTestElectionService(elections, audit)

	entries, err := svc.GetAuditTrail(context.Background(), 1, 100)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditActionVoteCast, entries[0].Action)
}

func TestGetAuditTrail_UnknownElection(t *testing.T) {
	svc := newTestElectionService(&fakeElectionStore{}, &fakeAuditStore{})

	_, err := svc.GetAuditTrail(context.Background(), 42, 100)

	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}
