package contextkeys

type contextKey string

const (
	IdentityKey contextKey = "SessionIdentity"
)
