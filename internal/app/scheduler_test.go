package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/kabutaro/internal/common"
	"github.com/bobmcallan/kabutaro/internal/models"
)

type pushCall struct {
	to     string
	header string
}

type mockRanking struct {
	calls chan pushCall
	err   error
}

func (m *mockRanking) Digest(context.Context, models.MoverKind, int) string {
	return "digest"
}

func (m *mockRanking) Push(_ context.Context, to, header string) error {
	m.calls <- pushCall{to, header}
	return m.err
}

func TestScheduler_RunNow(t *testing.T) {
	ranking := &mockRanking{calls: make(chan pushCall, 1)}
	s := NewScheduler(ranking, "U1", common.NewSilentLogger())

	s.RunNow("[手動テスト通知]")

	select {
	case call := <-ranking.calls:
		assert.Equal(t, pushCall{to: "U1", header: "[手動テスト通知]"}, call)
	case <-time.After(2 * time.Second):
		t.Fatal("push was not triggered")
	}
}

func TestScheduler_FailedPushIsLogged(t *testing.T) {
	ranking := &mockRanking{calls: make(chan pushCall, 1), err: errors.New("line down")}
	s := NewScheduler(ranking, "U1", common.NewSilentLogger())

	// runPush swallows the error so the cron runner keeps going
	s.runPush("")
	assert.Len(t, ranking.calls, 1)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(&mockRanking{calls: make(chan pushCall, 1)}, "U1", common.NewSilentLogger())

	require.NoError(t, s.Start("0 0 * * *"))
	entries := s.cron.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].Next.UTC().Hour())

	s.Stop()
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := NewScheduler(&mockRanking{calls: make(chan pushCall, 1)}, "U1", common.NewSilentLogger())
	assert.Error(t, s.Start("not a cron line"))
}
