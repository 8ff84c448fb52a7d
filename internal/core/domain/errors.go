package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
)

// VoterErrors
var (
	ErrVoterNotFound     = errors.New("voter not found")
	ErrProfileIncomplete = errors.New("voter profile not completed")
	ErrProfileAlreadySet = errors.New("voter profile already completed")
	ErrIdentityTaken     = errors.New("voter id, aadhaar or phone already registered")
	ErrAlreadyVoted      = errors.New("voter has already cast a vote")
)

// ElectionErrors
var (
	ErrElectionNotFound  = errors.New("election not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrElectionNotActive = errors.New("election is not active")
	ErrElectionCompleted = errors.New("election already completed")
	ErrNotUpcoming       = errors.New("election is not upcoming")
	ErrNoCandidates      = errors.New("election has no candidates")
	ErrDistrictMismatch  = errors.New("voter district does not match election region")
)
