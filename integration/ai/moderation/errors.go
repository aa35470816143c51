package moderation

import "errors"

var (
	// ErrContentFlagged is returned when the moderation judge flags the
	// content as violating policy.
	ErrContentFlagged = errors.New("content flagged by moderation")

	// ErrEmptyText is returned when a payload carries no text to judge.
	ErrEmptyText = errors.New("moderation: payload text is empty")

	// ErrNoVerdict is returned when the model responds without a parseable
	// verdict.
	ErrNoVerdict = errors.New("moderation: no verdict returned")
)
