package config

const (
	HCType        = "Content-Type"
	HETag         = "ETag"
	HCacheControl = "Cache-Control"
	HRequestID    = "X-Request-Id"

	HHxTrigger = "Hx-Trigger"

	CTypeHTML        = "text/html; charset=utf-8"
	CTypePlain       = "text/plain; charset=utf-8"
	CTypeEventStream = "text/event-stream"
)

const (
	HTTPErrNoticeNotFound = "Notice not found"
	HTTPErrBadButtonIndex = "Invalid button index"
	HTTPErrImageTooLarge  = "Image too large"
	HTTPErrNoticeRequired = "Notice parameter required"
	HTTPErrStreamingUnsup = "Streaming unsupported"
	HTTPErrThemeLocked    = "Theme switching is disabled"
)

const (
	CookieTheme = "theme"
)

// Form fields posted by the composer page.
const (
	FormCaption = "caption"
	FormPhoto   = "photo"
	FormField   = "field"
	FormValue   = "value"
)
