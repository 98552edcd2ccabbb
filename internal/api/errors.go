package api

import "devdash/internal/errors"

const (
	// Transport errors
	ErrRequest = errors.ErrorCode("api_request_failed")
	ErrDecode  = errors.ErrorCode("api_decode_failed")

	// Authentication errors
	ErrUnlockDenied = errors.ErrorCode("api_unlock_denied")

	// Configuration submit errors
	ErrLocked = errors.ErrorCode("api_editing_locked")
	ErrSubmit = errors.ErrorCode("api_submit_failed")

	// Stream errors
	ErrStreamClosed = errors.ErrorCode("api_stream_closed")
)
