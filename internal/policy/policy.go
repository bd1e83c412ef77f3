// Package policy holds the ownership predicate applied before every
// tenant-scoped mutation and privileged read.
package policy

import "errors"

var (
	// ErrMissingSubject means the caller context carried no subject id.
	// This is a malformed-request problem, distinct from an invalid token.
	ErrMissingSubject = errors.New("missing subject id in caller context")

	// ErrNotOwner means the authenticated subject does not own the
	// addressed company.
	ErrNotOwner = errors.New("subject does not own this company")
)

// Authorize checks whether the verified subject owns the company with the
// given owner id. The owner id is an opaque string: it is compared
// byte-for-byte against the token subject and never resolved against an
// identity directory. Public reads skip this check entirely.
func Authorize(subjectID, ownerID string) error {
	if subjectID == "" {
		return ErrMissingSubject
	}
	if ownerID != subjectID {
		return ErrNotOwner
	}
	return nil
}
