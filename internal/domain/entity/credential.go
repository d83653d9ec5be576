package entity

// Credentials is the persisted auth state. An empty string means the token is absent.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// IsEmpty reports whether no token is held.
func (c Credentials) IsEmpty() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// TokenPair is what login and refresh hand back.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Complete reports whether both tokens are present.
func (p TokenPair) Complete() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}
