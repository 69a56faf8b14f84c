// Package common contains shared constants and sentinel errors used across
// learnfeed components.
package common

// AuthorizationHeaderName is the HTTP header carrying the identity
// provider's bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token inside the Authorization header.
const BearerPrefix = "Bearer "
