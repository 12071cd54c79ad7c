package repository

import "errors"

// Sentinel errors returned by repository implementations. Conflict-style
// conditions (already liked, handle taken) are expected outcomes and are
// reported as typed errors rather than raised failures.
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrHandleTaken     = errors.New("handle already exists")
	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotLiked        = errors.New("post not liked")
	ErrCommentNotFound = errors.New("comment not found")
	ErrEntryNotFound   = errors.New("entry not found")
)
