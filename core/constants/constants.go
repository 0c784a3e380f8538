package constants

// Context keys
const (
	ContextTokenData = "token_data"
	ContextUser      = "user"
)

// Database pool settings
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Session settings
const (
	SessionCookieName = "token"
	SessionTTLHours   = 24 * 7
)

// Event field limits (match the events table column widths)
const (
	TitleMaxLength       = 255
	LocationMaxLength    = 255
	DescriptionMaxLength = 2000
)

// Recurrence settings
const (
	MaxOccurrences = 365
)

// ICS upload settings
const (
	ICSUploadMaxBytes = 5 * 1024 * 1024
	ICSUploadField    = "icsFile"
)

// Header used to delete a recurring root without the series confirm step
const (
	HeaderForceSingle = "X-Force-Single"
	HeaderAdminKey    = "X-Admin-Key"
)
