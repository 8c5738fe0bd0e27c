package auth

import "errors"

// Authentication failures are distinct sentinels so callers can branch on the
// exact condition without matching message strings. They all surface as 401
// at the HTTP boundary, with the code preserved in the response body.
var (
	// ErrTokenMissing means no bearer token was presented.
	ErrTokenMissing = errors.New("token missing")

	// ErrTokenMalformed means the token could not be parsed or its signature
	// does not verify.
	ErrTokenMalformed = errors.New("token malformed")

	// ErrTokenExpired means the token's own expiry has passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked means the token is cryptographically valid but is no
	// longer the subject's live session. This also covers session entries
	// that lapsed by TTL before the token expired; the two cases are not
	// distinguished, matching the revocation-by-presence model.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password, so login failures do not leak which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
