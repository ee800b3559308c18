package models

// Envelope is the body shared by every successful response.
// Message is nil for plain reads and serializes as null.
type Envelope struct {
	Data    interface{} `json:"data"`
	Message *string     `json:"message"`
}

// APIError is the body of every error response. Message holds a stable code string.
type APIError struct {
	Message string `json:"message"`
}

// Error code constants
const (
	// General errors
	ErrBadRequest         = "BAD_REQUEST"
	ErrUnauthorized       = "UNAUTHORIZED"
	ErrForbidden          = "FORBIDDEN"
	ErrNotFound           = "NOT_FOUND"
	ErrConflict           = "CONFLICT"
	ErrTransactionAborted = "TRANSACTION_ABORTED"
	ErrInternalServer     = "INTERNAL_SERVER_ERROR"
	ErrValidationFailed   = "VALIDATION_FAILED"
	ErrTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrInsufficientScope  = "INSUFFICIENT_SCOPE"

	// OAuth/Auth errors (maintain RFC 6749 compatibility)
	ErrInvalidRequest       = "invalid_request"
	ErrInvalidClient        = "invalid_client"
	ErrInvalidGrant         = "invalid_grant"
	ErrUnauthorizedClient   = "unauthorized_client"
	ErrUnsupportedGrantType = "unsupported_grant_type"
	ErrInvalidScope         = "invalid_scope"
)

// Message codes sent in Envelope.Message
const (
	MsgAdded   = "ADDED"
	MsgUpdated = "UPDATED"
	MsgDeleted = "DELETED"

	MsgRegistered             = "REGISTERED"
	MsgLoggedIn               = "LOGGED_IN"
	MsgEmailAlreadyInUse      = "EMAIL_ALREADY_IN_USE"
	MsgInvalidCredentials     = "INVALID_CREDENTIALS"
	MsgInvalidCookie          = "INVALID_COOKIE"
	MsgExpiredCookie          = "EXPIRED_COOKIE"
	MsgGenerateTokenSent      = "GENERATE_TOKEN_SENT"
	MsgInvalidOrExpiredToken  = "INVALID_OR_EXPIRED_TOKEN"
	MsgResetPasswordSucceeded = "RESET_PASSWORD_SUCCEEDED"
	MsgUserDeleted            = "USER_DELETED"
)

// NewEnvelope wraps data with an optional message code
func NewEnvelope(data interface{}, message string) Envelope {
	env := Envelope{Data: data}
	if message != "" {
		env.Message = &message
	}
	return env
}

// NewAPIError creates a new API error with the given code
func NewAPIError(code string) APIError {
	return APIError{Message: code}
}

// OAuth2Error represents an OAuth2 error response (RFC 6749)
type OAuth2Error struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	ErrorURI         string `json:"error_uri,omitempty"`
}

// NewOAuth2Error creates a new OAuth2 error response
func NewOAuth2Error(error, description string) OAuth2Error {
	return OAuth2Error{
		Error:            error,
		ErrorDescription: description,
	}
}
