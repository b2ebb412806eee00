package search

import "errors"

// ErrSearchUnavailable indicates the search provider could not be reached or
// returned something unusable. It is never fatal.
var ErrSearchUnavailable = errors.New("search provider unavailable")
