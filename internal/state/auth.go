package state

import "github.com/fjod/shop-sphere/internal/domain"

// ReduceAuth keeps Authenticated equal to Token != "". A failed login drops the
// session; a failed registration leaves it alone.
func ReduceAuth(s domain.AuthSession, action Action) domain.AuthSession {
	switch a := action.(type) {
	case AuthPending:
		s.Status = domain.StatusLoading
		s.Error = ""
	case LoginSucceeded:
		s.Status = domain.StatusSucceeded
		s.Token = a.Token
		s.Username = a.Username
		s.Authenticated = a.Token != ""
		s.Error = ""
	case RegisterSucceeded:
		s.Status = domain.StatusSucceeded
		s.Error = ""
	case AuthFailed:
		s.Status = domain.StatusFailed
		s.Error = a.Message
		if a.Op == OpRegister {
			if s.Error == "" {
				s.Error = "Registration failed"
			}
			return s
		}
		if s.Error == "" {
			s.Error = "Login failed"
		}
		s.Token = ""
		s.Username = ""
		s.Authenticated = false
	case Logout:
		return domain.AuthSession{Status: domain.StatusIdle}
	case ClearAuthError:
		s.Status = domain.StatusIdle
		s.Error = ""
	}
	return s
}

// NewSession restores a session from a persisted token and username.
func NewSession(token, username string) domain.AuthSession {
	return domain.AuthSession{
		Token:         token,
		Username:      username,
		Authenticated: token != "",
		Status:        domain.StatusIdle,
	}
}
