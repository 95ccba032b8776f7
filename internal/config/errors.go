package config

const (
	// Submission outcomes shown to the operator
	MsgSubmitSucceeded    = "Message sent successfully!"
	MsgSubmitFailedPrefix = "Sent message failed with error: "

	ErrInternalServerError = "Internal server error"

	// Poster errors
	ErrUnexpectedStatusFmt = "Request failed with status code %d"

	// Config errors
	ErrWriteConfigContentFmt = "Failed to write config content: %v"
	ErrCreateTempFileFmt     = "Failed to create temp file: %v"
)
