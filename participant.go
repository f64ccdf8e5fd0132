package driftpad

import (
	"fmt"
	"strings"
)

// ParticipantID is a validated participant address of the form name@domain.
// It denotes a user or an automated agent on the platform. A ParticipantID is
// immutable once constructed; construction fails if the address does not
// satisfy the platform's address grammar.
type ParticipantID struct {
	name   string
	domain string
}

const maxAddressLength = 254

// NewParticipantID builds a ParticipantID from a local name and a domain.
func NewParticipantID(name, domain string) (ParticipantID, error) {
	return ParseParticipantID(name + "@" + domain)
}

// ParseParticipantID validates an address and returns its ParticipantID.
func ParseParticipantID(address string) (ParticipantID, error) {
	if len(address) > maxAddressLength {
		return ParticipantID{}, fmt.Errorf("address too long: %d chars", len(address))
	}

	at := strings.IndexByte(address, '@')
	if at < 0 || strings.IndexByte(address[at+1:], '@') >= 0 {
		return ParticipantID{}, fmt.Errorf("address must contain exactly one '@': %q", address)
	}

	name, domain := address[:at], address[at+1:]
	if name == "" {
		return ParticipantID{}, fmt.Errorf("empty local name in address %q", address)
	}
	if !validLocalName(name) {
		return ParticipantID{}, fmt.Errorf("invalid local name %q", name)
	}
	if !validDomain(domain) {
		return ParticipantID{}, fmt.Errorf("invalid domain %q", domain)
	}

	return ParticipantID{name: name, domain: domain}, nil
}

// Address returns the full name@domain form.
func (p ParticipantID) Address() string {
	return p.name + "@" + p.domain
}

// Name returns the local part of the address.
func (p ParticipantID) Name() string {
	return p.name
}

// Domain returns the domain part of the address.
func (p ParticipantID) Domain() string {
	return p.domain
}

// IsZero reports whether p is the zero value rather than a parsed address.
func (p ParticipantID) IsZero() bool {
	return p.name == "" && p.domain == ""
}

func (p ParticipantID) String() string {
	return p.Address()
}

func validLocalName(name string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '.' || c == '_' || c == '-' || c == '+' || c == '%':
		default:
			return false
		}
	}
	return true
}

func validDomain(domain string) bool {
	if domain == "" {
		return false
	}
	for _, label := range strings.Split(domain, ".") {
		if label == "" {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			switch {
			case c >= 'a' && c <= 'z':
			case c >= 'A' && c <= 'Z':
			case c >= '0' && c <= '9':
			case c == '-':
			default:
				return false
			}
		}
	}
	return true
}
