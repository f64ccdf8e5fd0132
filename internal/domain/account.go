package domain

// AccountKind distinguishes human accounts from automated agents.
type AccountKind string

const (
	AccountKindHuman AccountKind = "human"
	AccountKindAgent AccountKind = "agent"
)

// Account is the persisted record for a participant address. A human account
// carries a salted password digest; an agent account carries the shared
// secret that authorizes automated document operations.
type Account struct {
	Address        string      `json:"address"`
	Kind           AccountKind `json:"kind"`
	PasswordDigest string      `json:"-"`
	SharedSecret   string      `json:"-"`
	Locale         string      `json:"locale,omitempty"`
}

// IsAgent reports whether the account authorizes automated operations.
func (a Account) IsAgent() bool {
	return a.Kind == AccountKindAgent
}
