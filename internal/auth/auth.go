// Package auth implements the device login protocol on top of the request pipeline.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"github.com/eshaffer321/hilink-go/internal/session"
	"github.com/eshaffer321/hilink-go/internal/types"
	"github.com/pkg/errors"
)

// Password encoding schemes advertised by the login-state endpoint.
const (
	PasswordTypeBase64    = "0"
	PasswordTypeBase64Alt = "3"
	PasswordTypeSHA256    = "4"
)

// Login states reported in the State field.
const (
	StateLoggedIn  = "0"
	StateLoggedOut = "-1"
	StateRepeat    = "-2"
)

const lockStatusLocked = "1"

// Caller performs one logical device call.
type Caller interface {
	Call(ctx context.Context, path string, body []byte, authenticated bool) ([]byte, error)
}

// LoginState is the document returned by the login-state endpoint.
type LoginState struct {
	XMLName            xml.Name `xml:"response" json:"-" yaml:"-"`
	State              string   `xml:"State" json:"state" yaml:"state"`
	Username           string   `xml:"username" json:"username" yaml:"username"`
	PasswordType       string   `xml:"password_type" json:"passwordType" yaml:"password_type"`
	ExternPasswordType string   `xml:"extern_password_type" json:"externPasswordType" yaml:"extern_password_type"`
	HistoryLoginFlag   string   `xml:"history_login_flag" json:"historyLoginFlag" yaml:"history_login_flag"`
	FirstLogin         string   `xml:"firstlogin" json:"firstLogin" yaml:"first_login"`
	UserLevel          string   `xml:"userlevel" json:"userLevel" yaml:"user_level"`
	LockStatus         string   `xml:"lockstatus" json:"lockStatus" yaml:"lock_status"`
	RemainWaitTime     string   `xml:"remainwaittime" json:"remainWaitTime" yaml:"remain_wait_time"`
	AccountsNumber     string   `xml:"accounts_number" json:"accountsNumber" yaml:"accounts_number"`
}

// IsLoggedIn reports whether the device considers the session logged in.
func (s *LoginState) IsLoggedIn() bool {
	return strings.TrimSpace(s.State) == StateLoggedIn
}

// IsLocked reports whether too many failed attempts locked the account.
func (s *LoginState) IsLocked() bool {
	return strings.TrimSpace(s.LockStatus) == lockStatusLocked
}

// WaitTime is how long the lock still lasts.
func (s *LoginState) WaitTime() time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(s.RemainWaitTime))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

type loginRequest struct {
	XMLName      xml.Name `xml:"request"`
	Username     string   `xml:"Username"`
	Password     string   `xml:"Password"`
	PasswordType string   `xml:"password_type"`
}

type logoutRequest struct {
	XMLName xml.Name `xml:"request"`
	Logout  string   `xml:"Logout"`
}

// Service handles authentication operations
type Service struct {
	caller  Caller
	session *session.Manager
	logger  types.Logger
}

// NewService creates a new auth service
func NewService(caller Caller, sess *session.Manager, logger types.Logger) *Service {
	return &Service{
		caller:  caller,
		session: sess,
		logger:  types.LoggerOrNop(logger),
	}
}

// State reads the unauthenticated login-state endpoint.
func (s *Service) State(ctx context.Context) (*LoginState, error) {
	body, err := s.caller.Call(ctx, types.LoginStateEndpoint, nil, false)
	if err != nil {
		return nil, err
	}

	var state LoginState
	if err := xml.Unmarshal(body, &state); err != nil {
		return nil, errors.Wrap(err, "failed to parse login state")
	}
	return &state, nil
}

// Login authenticates unless the device already reports a logged-in session.
// A locked account fails without sending the password.
func (s *Service) Login(ctx context.Context, username, password string) error {
	if username == "" {
		return types.NewConfigError("username must not be empty")
	}

	state, err := s.State(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to read login state")
	}

	if state.IsLoggedIn() {
		s.logger.Info("Already logged in", "username", username)
		if !s.session.IsAuthenticated() {
			s.session.MarkAuthenticated(username)
		}
		return nil
	}

	if state.IsLocked() {
		return &types.Error{
			Kind:     types.KindTooManyLoginAttempts,
			Code:     types.CodeTooManyLoginAttempts,
			Message:  "account is locked",
			WaitTime: state.WaitTime(),
		}
	}

	body, err := types.MarshalRequest(loginRequest{
		Username:     username,
		Password:     EncodePassword(password, state.PasswordType),
		PasswordType: state.PasswordType,
	})
	if err != nil {
		return err
	}

	resp, err := s.caller.Call(ctx, types.LoginEndpoint, body, false)
	if err != nil {
		return errors.Wrap(err, "login failed")
	}
	if err := types.CheckResponse(resp); err != nil {
		return errors.Wrap(err, "login failed")
	}

	s.session.MarkAuthenticated(username)
	s.logger.Info("Login successful", "username", username)
	return nil
}

// Logout ends the device session. Local state is cleared whatever the device answers.
func (s *Service) Logout(ctx context.Context) error {
	body, err := types.MarshalRequest(logoutRequest{Logout: "1"})
	if err != nil {
		return err
	}

	resp, err := s.caller.Call(ctx, types.LogoutEndpoint, body, true)
	s.session.Invalidate()
	if err != nil {
		return errors.Wrap(err, "logout failed")
	}
	if err := types.CheckResponse(resp); err != nil {
		return errors.Wrap(err, "logout failed")
	}

	s.logger.Info("Logged out")
	return nil
}

// EncodePassword applies the scheme the device asked for. Schemes 0 and 3 are
// plain base64; 4 and anything unrecognized use the lowercase hex SHA-256 digest.
func EncodePassword(password, passwordType string) string {
	switch strings.TrimSpace(passwordType) {
	case PasswordTypeBase64, PasswordTypeBase64Alt:
		return base64.StdEncoding.EncodeToString([]byte(password))
	default:
		sum := sha256.Sum256([]byte(password))
		return hex.EncodeToString(sum[:])
	}
}
