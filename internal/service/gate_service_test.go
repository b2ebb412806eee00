package service

import (
	"context"
	"testing"
	"time"

	"askgov-sg/internal/repository/memory"
	"askgov-sg/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateService_Authenticate(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      bool
		wantGate  store.GateStatus
	}{
		{name: "correct password", candidate: "s3cret", want: true, wantGate: store.GateGranted},
		{name: "wrong password", candidate: "guess", want: false, wantGate: store.GateDenied},
		{name: "empty password", candidate: "", want: false, wantGate: store.GateDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewSessionRepository(time.Hour)
			log := &recordingLogger{}
			svc := NewGateService("s3cret", repo, log)
			s := store.NewSession("sid")

			ok, err := svc.Authenticate(context.Background(), s, tt.candidate)

			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.wantGate, s.Gate)

			saved, found, err := repo.Get(context.Background(), "sid")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, tt.wantGate, saved.Gate)

			for _, e := range log.snapshot() {
				for _, v := range e.details {
					if tt.candidate != "" {
						assert.NotEqual(t, tt.candidate, v, "the submitted password must never be logged")
					}
				}
			}
		})
	}
}

func TestGateService_RetryAfterDenial(t *testing.T) {
	repo := memory.NewSessionRepository(time.Hour)
	svc := NewGateService("s3cret", repo, &recordingLogger{})
	s := store.NewSession("sid")

	ok, err := svc.Authenticate(context.Background(), s, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Authenticate(context.Background(), s, "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, store.GateGranted, s.Gate)
}

func TestGateService_GrantedIsSticky(t *testing.T) {
	repo := memory.NewSessionRepository(time.Hour)
	svc := NewGateService("s3cret", repo, &recordingLogger{})
	s := store.NewSession("sid")
	s.Gate = store.GateGranted

	ok, err := svc.Authenticate(context.Background(), s, "wrong")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, store.GateGranted, s.Gate)
}

func TestGateService_GrantSurvivesStaleContextUpdate(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSessionRepository(time.Hour)
	require.NoError(t, repo.Save(ctx, store.NewSession("sid")))

	// two in-flight requests of the same session, each with its own copy
	gateCopy, _, err := repo.Get(ctx, "sid")
	require.NoError(t, err)
	contextCopy, _, err := repo.Get(ctx, "sid")
	require.NoError(t, err)

	gateSvc := NewGateService("s3cret", repo, &recordingLogger{})
	askSvc := NewAskService(&fakeSearcher{}, &fakeComposer{}, passthroughRenderer{}, repo, nil, &recordingLogger{})

	ok, err := gateSvc.Authenticate(ctx, gateCopy, "s3cret")
	require.NoError(t, err)
	require.True(t, ok)

	err = askSvc.UpdateContext(ctx, contextCopy, store.QueryContext{Location: store.LocationOthers, Need: store.NeedCPF})
	require.NoError(t, err)

	stored, _, err := repo.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, store.GateGranted, stored.Gate)
	assert.Equal(t, store.LocationOthers, stored.Location)
	assert.Equal(t, store.GateGranted, contextCopy.Gate, "the caller's copy is refreshed from the store")
}

func TestGateService_StaleDenialDoesNotRevokeGrant(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSessionRepository(time.Hour)
	require.NoError(t, repo.Save(ctx, store.NewSession("sid")))

	first, _, _ := repo.Get(ctx, "sid")
	second, _, _ := repo.Get(ctx, "sid")
	svc := NewGateService("s3cret", repo, &recordingLogger{})

	ok, err := svc.Authenticate(ctx, first, "s3cret")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.Authenticate(ctx, second, "wrong")
	require.NoError(t, err)
	assert.True(t, ok)

	stored, _, _ := repo.Get(ctx, "sid")
	assert.Equal(t, store.GateGranted, stored.Gate)
}
