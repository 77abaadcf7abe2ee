package repository

import "errors"

// ErrNotFound reports that a write targeted a row that no longer exists,
// typically because it was deleted between the caller's lookup and the write.
var ErrNotFound = errors.New("record not found")
