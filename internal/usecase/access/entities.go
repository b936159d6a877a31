package access

type RegisterInput struct {
	Username string
	Password string
}

// IssuedKey is returned once; only the hash of Secret is stored.
type IssuedKey struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	Prefix   string `json:"prefix"`
	APIKey   string `json:"api_key"`
}
