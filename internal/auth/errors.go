package auth

import "errors"

// ErrDependency marks failures of the user store or password hasher. They are
// never turned into a flash message; the transport answers with a generic error.
var ErrDependency = errors.New("auth dependency failure")

func IsDependencyFailure(err error) bool {
	return errors.Is(err, ErrDependency)
}
