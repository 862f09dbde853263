package repositories

import "errors"

// ErrNotFound is returned (wrapped) when an id-addressed row does not exist.
// Any other error means the store itself failed.
var ErrNotFound = errors.New("record not found")
