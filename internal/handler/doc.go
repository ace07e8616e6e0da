// Package handler provides HTTP request handlers for the Imperium API.
//
// The handler package contains all HTTP endpoint implementations organized by
// domain. Each handler struct encapsulates the service it needs to serve
// requests for a specific feature area (authentication, guilds, news).
//
// # Handler Pattern
//
// All handlers follow a consistent pattern:
//
//   - Constructor function (NewXxxHandler) accepts the service dependency
//   - Methods handle specific HTTP endpoints
//   - Response helpers from response.go standardize output format
//   - Errors are mapped to RFC 9457 Problem Details responses
//
// # Authentication
//
// Protected handlers receive the authenticated user via the auth middleware,
// available through middleware.GetUser(ctx). The news listing uses optional
// authentication so anonymous requesters still see global items.
package handler
