package store

import (
	"errors"
)

var (
	// ErrStoreFailed is returned for any query or connectivity failure. The
	// underlying error is logged server side and never surfaced to callers.
	ErrStoreFailed = errors.New("store unavailable")

	ErrPublicationNotFound = errors.New("publication not found")
	ErrAuthorNotFound      = errors.New("author not found")
	ErrCategoryNotFound    = errors.New("research category not found")
	ErrProgramAreaNotFound = errors.New("program area not found")
	ErrProjectNotFound     = errors.New("project not found")
)

// CategoryAll is the filter value meaning "do not filter by category". The
// public site sends it for the default tab on the publications page.
const CategoryAll = "all"
