package enigma

import (
	"errors"
	"fmt"
)

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeMissingField indicates a required request field is absent.
	ErrCodeMissingField ConfigErrorCode = "MISSING_FIELD"

	// ErrCodeCountMismatch indicates rotor id / position counts don't
	// match the machine's rotor slot count.
	ErrCodeCountMismatch ConfigErrorCode = "COUNT_MISMATCH"

	// ErrCodeUnknownRotor indicates a rotor id not in the catalog.
	ErrCodeUnknownRotor ConfigErrorCode = "UNKNOWN_ROTOR"

	// ErrCodeDuplicateRotor indicates the same rotor selected twice.
	ErrCodeDuplicateRotor ConfigErrorCode = "DUPLICATE_ROTOR"

	// ErrCodeUnknownReflector indicates a reflector id not in the catalog.
	ErrCodeUnknownReflector ConfigErrorCode = "UNKNOWN_REFLECTOR"

	// ErrCodeSymbolNotInAlphabet indicates a position or input symbol
	// outside the machine's alphabet.
	ErrCodeSymbolNotInAlphabet ConfigErrorCode = "SYMBOL_NOT_IN_ALPHABET"

	// ErrCodePlugboardOddLength indicates an odd-length plugboard string.
	ErrCodePlugboardOddLength ConfigErrorCode = "PLUGBOARD_ODD_LENGTH"

	// ErrCodePlugboardUnknownSymbol indicates a plugboard symbol outside
	// the alphabet.
	ErrCodePlugboardUnknownSymbol ConfigErrorCode = "PLUGBOARD_UNKNOWN_SYMBOL"

	// ErrCodePlugboardSelfMapping indicates a pair wiring a symbol to
	// itself.
	ErrCodePlugboardSelfMapping ConfigErrorCode = "PLUGBOARD_SELF_MAPPING"

	// ErrCodePlugboardDuplicate indicates a symbol appearing in more
	// than one pair.
	ErrCodePlugboardDuplicate ConfigErrorCode = "PLUGBOARD_DUPLICATE"
)

// ConfigError is a configuration request rejection. It is raised by the
// validator before any machine state changes; the caller's previously
// active configuration is always left untouched.
type ConfigError struct {
	Code    ConfigErrorCode
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ConfigCode extracts the code from a wrapped ConfigError, or "" if the
// error is not a configuration error.
func ConfigCode(err error) ConfigErrorCode {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// StateError signals an operation invoked in the wrong lifecycle state
// (Process or Reset before Configure). This is a protocol violation by
// the caller: fix the call sequence, don't retry the same call.
type StateError struct {
	Op string
}

// Error implements the error interface.
func (e *StateError) Error() string {
	return fmt.Sprintf("%s: machine is not configured", e.Op)
}

// IsStateError reports whether err is (or wraps) a StateError.
func IsStateError(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}
