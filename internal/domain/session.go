package domain

// Session is the explicit "current user" context passed into every store and
// service call. The zero value is an anonymous, unauthenticated session.
type Session struct {
	UserID   string
	Username string
	Profile  Profile
}

// NewSession builds a session for an authenticated user.
func NewSession(user *User) Session {
	if user == nil {
		return Session{}
	}
	return Session{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		Profile:  user.Profile,
	}
}

func (s Session) IsAuthenticated() bool {
	return s.Username != ""
}
