package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/eshaffer321/hilink-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingAcquirer struct {
	calls int32
	delay time.Duration
	err   error
}

func (a *countingAcquirer) Acquire(ctx context.Context) (string, error) {
	n := atomic.AddInt32(&a.calls, 1)
	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if a.err != nil {
		return "", a.err
	}
	return fmt.Sprintf("token-%d", n), nil
}

func TestManager_GetTokenCaches(t *testing.T) {
	acq := &countingAcquirer{}
	m := NewManager(acq, nil)

	first, err := m.GetToken(context.Background())
	require.NoError(t, err)
	second, err := m.GetToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "token-1", first)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&acq.calls))
}

func TestManager_GetTokenConcurrent(t *testing.T) {
	acq := &countingAcquirer{delay: 10 * time.Millisecond}
	m := NewManager(acq, nil)

	const callers = 32
	tokens := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = m.GetToken(context.Background())
		}(i)
	}
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		assert.NotEmpty(t, tokens[i])
	}
	assert.GreaterOrEqual(t, atomic.LoadInt32(&acq.calls), int32(1))
	assert.NotEmpty(t, m.Snapshot().CSRFToken)
}

func TestManager_ForceRefreshReplacesToken(t *testing.T) {
	acq := &countingAcquirer{}
	m := NewManager(acq, nil)

	first, err := m.GetToken(context.Background())
	require.NoError(t, err)
	refreshed, err := m.ForceRefresh(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first, refreshed)
	cached, err := m.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, refreshed, cached)
}

func TestManager_AcquisitionFailureLeavesNoToken(t *testing.T) {
	acq := &countingAcquirer{err: types.NewSessionError("no token", nil)}
	m := NewManager(acq, nil)

	token, err := m.GetToken(context.Background())
	assert.Empty(t, token)
	assert.Equal(t, types.KindSessionError, types.KindOf(err))
	assert.Empty(t, m.Snapshot().CSRFToken)
}

func TestManager_CancelledAcquisitionDoesNotCommit(t *testing.T) {
	acq := &countingAcquirer{delay: time.Hour}
	m := NewManager(acq, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := m.GetToken(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, m.Snapshot().CSRFToken)
}

type emptyAcquirer struct{}

func (emptyAcquirer) Acquire(context.Context) (string, error) { return "", nil }

func TestManager_NeverReturnsEmptyToken(t *testing.T) {
	m := NewManager(emptyAcquirer{}, nil)

	token, err := m.GetToken(context.Background())
	assert.Empty(t, token)
	assert.ErrorIs(t, err, types.ErrSession)
}

func TestManager_InvalidateIsIdempotent(t *testing.T) {
	m := NewManager(&countingAcquirer{}, nil)
	_, err := m.GetToken(context.Background())
	require.NoError(t, err)
	m.MarkAuthenticated("admin")

	m.Invalidate()
	m.Invalidate()

	state := m.Snapshot()
	assert.Equal(t, State{}, state)
	assert.False(t, m.IsAuthenticated())
	assert.Empty(t, m.Username())
	assert.True(t, m.LastAuthTime().IsZero())
}

func TestManager_MarkAuthenticatedAndExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(&countingAcquirer{}, nil)
	m.now = func() time.Time { return now }

	assert.True(t, m.IsExpired(time.Hour), "never authenticated")

	m.MarkAuthenticated("admin")
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "admin", m.Username())
	assert.Equal(t, now, m.LastAuthTime())
	assert.False(t, m.IsExpired(time.Hour))

	now = now.Add(2 * time.Hour)
	assert.True(t, m.IsExpired(time.Hour))
	assert.False(t, m.IsExpired(3*time.Hour))
}

func TestManager_UpdateFromHeaders(t *testing.T) {
	m := NewManager(&countingAcquirer{}, nil)

	assert.False(t, m.UpdateFromHeaders(http.Header{}))
	assert.Empty(t, m.Snapshot().CSRFToken)

	h := http.Header{}
	h.Set(types.TokenHeaderTwo, "two")
	h.Set(types.TokenHeaderOne, "one")
	assert.True(t, m.UpdateFromHeaders(h))
	assert.Equal(t, "one", m.Snapshot().CSRFToken)

	h.Set(types.TokenHeader, "primary")
	assert.True(t, m.UpdateFromHeaders(h))
	assert.Equal(t, "primary", m.Snapshot().CSRFToken)
}

func TestTokenFromHeaders(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "none", want: ""},
		{name: "primary", headers: map[string]string{types.TokenHeader: "a"}, want: "a"},
		{name: "second only", headers: map[string]string{types.TokenHeaderTwo: "c"}, want: "c"},
		{name: "blank primary skipped", headers: map[string]string{types.TokenHeader: "  ", types.TokenHeaderOne: "b"}, want: "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}
			assert.Equal(t, tt.want, TokenFromHeaders(h))
		})
	}
}

func TestManager_AcquirerErrorPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	m := NewManager(&countingAcquirer{err: boom}, nil)

	_, err := m.ForceRefresh(context.Background())
	assert.ErrorIs(t, err, boom)
}
