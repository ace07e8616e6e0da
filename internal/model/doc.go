// Package model defines domain entities and data structures for the Imperium API.
//
// The model package contains all struct definitions for domain objects, request/response
// types, and error definitions. Models are used across all layers of the application.
//
// # Domain Entities
//
// Core domain entities include:
//
//   - User: Application user with credentials and an optional guild affiliation
//   - Guild: Member-founded organization with a leveled rank hierarchy and an applicant queue
//   - Rank: Named authority level within a guild carrying a numeric level and permission set
//   - Application: Pending join request carrying an identity-evidence reference
//   - News: Feed item, either global or restricted to one guild's members
//   - Session: Opaque login token (stored hashed) bound to a user
//
// # JSON Serialization
//
// All models use json struct tags for API serialization:
//
//	type Guild struct {
//	    ID          string `json:"id"`
//	    Name        string `json:"name"`
//	    Description string `json:"description,omitempty"`
//	}
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string    `json:"type"`
//	    Title   string    `json:"title"`
//	    Status  int       `json:"status"`
//	    Detail  string    `json:"detail"`
//	}
package model
