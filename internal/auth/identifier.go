package auth

import "regexp"

// IdentifierKind classifies what a login identifier looks like.
type IdentifierKind int

const (
	KindEmail IdentifierKind = iota
	KindPhone
	KindSecondaryID
)

var (
	emailRe = regexp.MustCompile(`^[\w.+-]+@([\w-]+\.)+[\w-]{2,}$`)
	phoneRe = regexp.MustCompile(`^[0-9]{10,}$`)
)

// ClassifyIdentifier decides which column to match a login identifier
// against. Patterns are tried in strict order: email, then phone (10+
// digits), then fallback to a secondary ID (voter ID or government ID).
// The first match wins and exactly one lookup is issued downstream.
func ClassifyIdentifier(identifier string) IdentifierKind {
	switch {
	case emailRe.MatchString(identifier):
		return KindEmail
	case phoneRe.MatchString(identifier):
		return KindPhone
	default:
		return KindSecondaryID
	}
}
