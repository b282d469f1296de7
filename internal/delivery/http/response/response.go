// Package response defines the JSON bodies of the public API. Clients branch
// on the HTTP status code primarily and the status field secondarily, so the
// shapes here are part of the contract and stay stable.
package response

// Status values carried in every response body.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusError   = "error"
)

// TokenType is the scheme clients put in the Authorization header.
const TokenType = "bearer"

// TokenPair is returned by register and login.
type TokenPair struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// NewTokenPair builds a success token-pair body.
func NewTokenPair(message, accessToken, refreshToken string) TokenPair {
	return TokenPair{
		Status:       StatusSuccess,
		Message:      message,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    TokenType,
	}
}

// AccessToken is returned by refresh: a new access token only, the refresh
// token is not rotated.
type AccessToken struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// NewAccessToken builds a success refresh body.
func NewAccessToken(message, accessToken string) AccessToken {
	return AccessToken{
		Status:      StatusSuccess,
		Message:     message,
		AccessToken: accessToken,
		TokenType:   TokenType,
	}
}

// SavedString is returned by the string save endpoint.
type SavedString struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// NewSavedString builds a success save body.
func NewSavedString(message string, id int64) SavedString {
	return SavedString{
		Status:  StatusSuccess,
		Message: message,
		ID:      id,
	}
}

// RandomString is returned by the random fetch endpoint.
type RandomString struct {
	RandomString string `json:"random_string"`
}

// Error is the body of every failure response.
type Error struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewError builds a failure body with status "failed".
func NewError(message string) Error {
	return Error{
		Status:  StatusFailed,
		Message: message,
	}
}
