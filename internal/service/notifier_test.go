package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"evote-api/internal/domain"
	"evote-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notifierLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error")
	require.NoError(t, err)
	return log
}

func sampleConfirmation() *domain.BallotConfirmation {
	return &domain.BallotConfirmation{
		VoterEmail:    "alice@university.edu",
		VoterName:     "Alice Chen",
		ElectionTitle: "Student Council 2026",
		Selections: []domain.BallotLine{
			{PositionTitle: "President", CandidateName: "Bob Martinez"},
			{PositionTitle: "Senator", CandidateName: "Abstained", Abstained: true},
		},
		VotedAt:        time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC),
		ElectionEndsAt: time.Date(2026, 3, 8, 20, 0, 0, 0, time.UTC),
	}
}

func TestWebhookNotifier_SendsPayloadWithAuth(t *testing.T) {
	var received domain.BallotConfirmation
	var authHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(server.URL, "sender-token", notifierLogger(t))

	err := notifier.SendBallotConfirmation(context.Background(), sampleConfirmation())

	require.NoError(t, err)
	assert.Equal(t, "Bearer sender-token", authHeader)
	assert.Equal(t, "alice@university.edu", received.VoterEmail)
	require.Len(t, received.Selections, 2)
	assert.True(t, received.Selections[1].Abstained)
}

func TestWebhookNotifier_SenderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "queue full", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(server.URL, "", notifierLogger(t))

	err := notifier.SendBallotConfirmation(context.Background(), sampleConfirmation())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestWebhookNotifier_UnconfiguredDropsPayload(t *testing.T) {
	notifier := NewWebhookNotifier("", "", notifierLogger(t))

	err := notifier.SendBallotConfirmation(context.Background(), sampleConfirmation())

	assert.NoError(t, err)
}
