package credential

// Pair is the username/password credential handed to git.
// For GitHub App tokens the username is the App ID and the password is the installation token.
type Pair struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Equal reports whether both fields match exactly.
func (p Pair) Equal(other Pair) bool {
	return p.Username == other.Username && p.Password == other.Password
}
