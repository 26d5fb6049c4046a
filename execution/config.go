package execution

import (
	"code.ospreymarkets.io/osprey/config/encoding"
	"code.ospreymarkets.io/osprey/logging"
)

const (
	// namedLogger is the identifier for package and should ideally match the package name
	// but we let things for great flexibility
	namedLogger = "execution"
)

// Config is the configuration of the execution package
type Config struct {
	Level encoding.LogLevel
}

// NewDefaultConfig creates an instance of the package specific configuration, given a
// pointer to a logger instance to be used for logging within the package.
func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
	}
}
