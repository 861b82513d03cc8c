package domain

// AuthSession holds the signed-in shopper. Empty Token, Username and Error mean absent.
type AuthSession struct {
	Token         string        `json:"token,omitempty"`
	Username      string        `json:"username,omitempty"`
	Authenticated bool          `json:"isAuthenticated"`
	Status        RequestStatus `json:"status"`
	Error         string        `json:"error,omitempty"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignUpData struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
