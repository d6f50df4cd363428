package common

// AuthTokenHeaderName is the HTTP header used to deliver the session token
// to the caller on a successful login.
const AuthTokenHeaderName = "AUTH_TOKEN"

// TokenLength is the length of an issued session token, in characters.
const TokenLength = 20
