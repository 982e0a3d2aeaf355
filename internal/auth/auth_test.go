package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eshaffer321/hilink-go/internal/retry"
	"github.com/eshaffer321/hilink-go/internal/session"
	"github.com/eshaffer321/hilink-go/internal/testutil/fakedevice"
	"github.com/eshaffer321/hilink-go/internal/transport"
	"github.com/eshaffer321/hilink-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCaller is a mock implementation of the Caller interface
type MockCaller struct {
	mock.Mock
}

func (m *MockCaller) Call(ctx context.Context, path string, body []byte, authenticated bool) ([]byte, error) {
	args := m.Called(ctx, path, body, authenticated)
	var out []byte
	if s, ok := args.Get(0).(string); ok {
		out = []byte(s)
	}
	return out, args.Error(1)
}

type staticAcquirer struct{}

func (staticAcquirer) Acquire(context.Context) (string, error) { return "tok", nil }

func newMockService() (*Service, *MockCaller, *session.Manager) {
	caller := new(MockCaller)
	sess := session.NewManager(staticAcquirer{}, nil)
	return NewService(caller, sess, nil), caller, sess
}

func TestEncodePassword(t *testing.T) {
	const sha = "8c6976e5b5410415bde908bd4dee15dfb167a9c873fc4bb8a81f6f2ab448a918"

	tests := []struct {
		passwordType string
		want         string
	}{
		{PasswordTypeBase64, "YWRtaW4="},
		{PasswordTypeBase64Alt, "YWRtaW4="},
		{PasswordTypeSHA256, sha},
		{"", sha},
		{"7", sha},
	}

	for _, tt := range tests {
		t.Run("type "+tt.passwordType, func(t *testing.T) {
			got := EncodePassword("admin", tt.passwordType)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Len(t, EncodePassword("admin", PasswordTypeSHA256), 64)
}

func TestLoginState(t *testing.T) {
	s := &LoginState{State: "0", LockStatus: "0", RemainWaitTime: "0"}
	assert.True(t, s.IsLoggedIn())
	assert.False(t, s.IsLocked())

	s = &LoginState{State: StateLoggedOut, LockStatus: "1", RemainWaitTime: "120"}
	assert.False(t, s.IsLoggedIn())
	assert.True(t, s.IsLocked())
	assert.Equal(t, 2*time.Minute, s.WaitTime())

	s.RemainWaitTime = "soon"
	assert.Zero(t, s.WaitTime())
}

func TestService_LoginAlreadyLoggedIn(t *testing.T) {
	svc, caller, sess := newMockService()
	caller.On("Call", mock.Anything, types.LoginStateEndpoint, []byte(nil), false).
		Return(fakedevice.LoginState(StateLoggedIn, "0", "0", PasswordTypeSHA256), nil).Once()

	err := svc.Login(context.Background(), "admin", "admin")
	require.NoError(t, err)

	assert.True(t, sess.IsAuthenticated())
	assert.Equal(t, "admin", sess.Username())
	caller.AssertExpectations(t)
	caller.AssertNotCalled(t, "Call", mock.Anything, types.LoginEndpoint, mock.Anything, mock.Anything)
}

func TestService_LoginRequiresUsername(t *testing.T) {
	svc, caller, sess := newMockService()

	err := svc.Login(context.Background(), "", "admin")

	assert.ErrorIs(t, err, types.ErrConfig)
	assert.False(t, sess.IsAuthenticated())
	caller.AssertNotCalled(t, "Call", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_LoginLocked(t *testing.T) {
	svc, caller, sess := newMockService()
	caller.On("Call", mock.Anything, types.LoginStateEndpoint, []byte(nil), false).
		Return(fakedevice.LoginState(StateLoggedOut, "1", "300", PasswordTypeSHA256), nil).Once()

	err := svc.Login(context.Background(), "admin", "admin")
	require.Error(t, err)

	e, ok := types.AsError(err)
	require.True(t, ok)
	assert.Equal(t, types.KindTooManyLoginAttempts, e.Kind)
	assert.False(t, e.Retryable)
	assert.Equal(t, 5*time.Minute, e.WaitTime)
	assert.Contains(t, err.Error(), "5m0s")

	assert.False(t, sess.IsAuthenticated())
	caller.AssertNotCalled(t, "Call", mock.Anything, types.LoginEndpoint, mock.Anything, mock.Anything)
}

func TestService_LoginPostsEncodedPassword(t *testing.T) {
	tests := []struct {
		passwordType string
		encoded      string
	}{
		{PasswordTypeBase64, "YWRtaW4="},
		{PasswordTypeSHA256, "8c6976e5b5410415bde908bd4dee15dfb167a9c873fc4bb8a81f6f2ab448a918"},
	}

	for _, tt := range tests {
		t.Run(tt.passwordType, func(t *testing.T) {
			svc, caller, sess := newMockService()
			caller.On("Call", mock.Anything, types.LoginStateEndpoint, []byte(nil), false).
				Return(fakedevice.LoginState(StateLoggedOut, "0", "0", tt.passwordType), nil).Once()

			var posted string
			caller.On("Call", mock.Anything, types.LoginEndpoint, mock.Anything, false).
				Run(func(args mock.Arguments) { posted = string(args.Get(2).([]byte)) }).
				Return(fakedevice.OK, nil).Once()

			require.NoError(t, svc.Login(context.Background(), "admin", "admin"))

			assert.Contains(t, posted, `<?xml version="1.0" encoding="UTF-8"?>`)
			assert.Contains(t, posted, "<Username>admin</Username>")
			assert.Contains(t, posted, "<Password>"+tt.encoded+"</Password>")
			assert.Contains(t, posted, "<password_type>"+tt.passwordType+"</password_type>")
			assert.True(t, sess.IsAuthenticated())
			caller.AssertExpectations(t)
		})
	}
}

func TestService_LoginFailuresMapToKinds(t *testing.T) {
	tests := []struct {
		code int
		kind types.Kind
	}{
		{types.CodeUsernameWrong, types.KindInvalidUsername},
		{types.CodePasswordWrong, types.KindInvalidPassword},
		{types.CodeUsernameOrPasswordBad, types.KindInvalidCredentials},
		{types.CodeTooManyLoginAttempts, types.KindTooManyLoginAttempts},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			svc, caller, sess := newMockService()
			caller.On("Call", mock.Anything, types.LoginStateEndpoint, []byte(nil), false).
				Return(fakedevice.LoginState(StateLoggedOut, "0", "0", PasswordTypeSHA256), nil)
			caller.On("Call", mock.Anything, types.LoginEndpoint, mock.Anything, false).
				Return(nil, types.FromDeviceCode(tt.code, ""))

			err := svc.Login(context.Background(), "admin", "wrong")
			require.Error(t, err)
			assert.Equal(t, tt.kind, types.KindOf(err))
			assert.False(t, types.IsRetryable(err))
			assert.False(t, sess.IsAuthenticated())
		})
	}
}

func TestService_LoginErrorCodeInResponseDocument(t *testing.T) {
	svc, caller, _ := newMockService()
	caller.On("Call", mock.Anything, types.LoginStateEndpoint, []byte(nil), false).
		Return(fakedevice.LoginState(StateLoggedOut, "0", "0", PasswordTypeSHA256), nil)
	caller.On("Call", mock.Anything, types.LoginEndpoint, mock.Anything, false).
		Return("<response><ErrorCode>108006</ErrorCode></response>", nil)

	err := svc.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, types.ErrInvalidCredentials)
}

func TestService_LoginStateFailure(t *testing.T) {
	svc, caller, _ := newMockService()
	boom := &types.Error{Kind: types.KindTransportError, Retryable: true, Err: errors.New("connection refused")}
	caller.On("Call", mock.Anything, types.LoginStateEndpoint, []byte(nil), false).Return(nil, boom)

	err := svc.Login(context.Background(), "admin", "admin")
	assert.ErrorIs(t, err, types.ErrTransport)
	assert.Contains(t, err.Error(), "failed to read login state")
}

func TestService_Logout(t *testing.T) {
	svc, caller, sess := newMockService()
	sess.MarkAuthenticated("admin")

	var posted string
	caller.On("Call", mock.Anything, types.LogoutEndpoint, mock.Anything, true).
		Run(func(args mock.Arguments) { posted = string(args.Get(2).([]byte)) }).
		Return(fakedevice.OK, nil)

	require.NoError(t, svc.Logout(context.Background()))
	assert.Contains(t, posted, "<request><Logout>1</Logout></request>")
	assert.False(t, sess.IsAuthenticated())
	assert.Empty(t, sess.Snapshot().CSRFToken)
}

func TestService_LogoutClearsSessionOnError(t *testing.T) {
	svc, caller, sess := newMockService()
	sess.MarkAuthenticated("admin")
	caller.On("Call", mock.Anything, types.LogoutEndpoint, mock.Anything, true).
		Return(nil, types.FromDeviceCode(types.CodeNoRights, ""))

	err := svc.Logout(context.Background())
	assert.ErrorIs(t, err, types.ErrLoginRequired)
	assert.False(t, sess.IsAuthenticated())
}

func TestService_LoginAgainstDevice(t *testing.T) {
	d := fakedevice.New(t)
	d.Handle(types.LoginStateEndpoint, fakedevice.Sequence(fakedevice.LoginState(StateLoggedOut, "0", "0", PasswordTypeBase64)))
	d.Handle(types.LoginEndpoint, fakedevice.Sequence(fakedevice.ErrorXML(types.CodeCsrfTokenInvalid), fakedevice.OK))

	engine, err := retry.New(retry.Policy{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffMultiplier: 2})
	require.NoError(t, err)
	p, err := transport.New(&transport.Options{BaseURL: d.URL(), Retry: engine})
	require.NoError(t, err)
	svc := NewService(p, p.Session(), nil)

	require.NoError(t, svc.Login(context.Background(), "admin", "admin"))
	assert.True(t, p.Session().IsAuthenticated())

	posts := d.Requests(types.LoginEndpoint)
	require.Len(t, posts, 2, "csrf rejection replays the login once")
	assert.Equal(t, "token-1", posts[0].Token)
	assert.Equal(t, "token-2", posts[1].Token)
	assert.Contains(t, posts[1].Body, "<Password>YWRtaW4=</Password>")
	assert.Empty(t, d.Requests(types.LoginStateEndpoint)[0].Token)
}
