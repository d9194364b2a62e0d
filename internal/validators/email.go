package validators

import (
	"net/mail"
	"strings"
)

// IsEmail accepts a bare address with a dotless-or-dotted domain, the same
// shape an HTML email field accepts. Display names are rejected.
func IsEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}
