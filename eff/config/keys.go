package config

const (
	delimiter = "."

	// Prefix namespaces every configuration key of this module.
	Prefix = "taskfx"

	parPrefix = Prefix + delimiter + "par"
	logPrefix = Prefix + delimiter + "log"

	// KeyParWidth bounds the width of bounded parallel combinators when
	// the caller passes a non-positive width.
	KeyParWidth = parPrefix + delimiter + "width"

	// KeyLogLevel selects the level of the logger attached by the runtime
	// when the caller did not attach one ("debug", "info", "warn", "error").
	KeyLogLevel = logPrefix + delimiter + "level"
)
