package database

import "errors"

// ErrNotReady indicates the datastore could not be reached.
var ErrNotReady = errors.New("database not ready")
