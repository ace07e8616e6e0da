package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrNameRequired       = errors.New("name is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 128 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
)

// ===== Session Errors =====
var (
	ErrSessionInvalid = errors.New("invalid session token")
)

// ===== Guild Errors =====
var (
	ErrGuildNotFound      = errors.New("guild not found")
	ErrGuildNameRequired  = errors.New("guild name is required")
	ErrGuildNameTooLong   = errors.New("guild name exceeds maximum length")
	ErrGuildDescTooLong   = errors.New("guild description exceeds maximum length")
	ErrMissionTooLong     = errors.New("guild mission exceeds maximum length")
	ErrGuildNameExists    = errors.New("a guild with this name already exists")
	ErrAlreadyAffiliated  = errors.New("already a member of a guild")
	ErrInsufficientRank   = errors.New("rank level too low for this action")
	ErrGuildHasNoRanks    = errors.New("guild has no ranks to assign")
)

// ===== Application Errors =====
var (
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("application already pending for this guild")
	ErrEvidenceRequired     = errors.New("merit evidence is required")
	ErrInvalidDecision      = errors.New("decision must be accept or reject")
)

// ===== News Errors =====
var (
	ErrNewsTitleRequired   = errors.New("news title is required")
	ErrNewsTitleTooLong    = errors.New("news title exceeds maximum length")
	ErrNewsContentRequired = errors.New("news content is required")
	ErrNewsContentTooLong  = errors.New("news content exceeds maximum length")
	ErrPostNotAllowed      = errors.New("not authorized to post news for this guild")
)
