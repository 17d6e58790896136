package constants

// Session
const (
	SessionCookieName = "br_session"
	ContextKeyUserID  = "user_id"
	SessionKeyCSRF    = "csrf_token"
)

// PageSize is the fixed page size for the "mis propiedades" listing.
const PageSize = 5

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// DefaultUploadsDir is where uploaded listing images are stored.
const DefaultUploadsDir = "public/uploads"
