package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

const (
	// LoggerInitializationFailedMessageFormat is used when the logger cannot be built.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes the fatal message of a failed run.
	ApplicationExecutionFailedMessage = "dirscan failed"
)
