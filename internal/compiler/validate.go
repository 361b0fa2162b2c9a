package compiler

import (
	"errors"

	"cuelang.org/go/cue"

	"github.com/scherbius/enigma/internal/model"
)

// Parse/compile error codes (E0xx). Structural codes (E1xx) come from
// model.Validate.
const (
	ErrGeneric      = "E001" // uncategorized compile failure
	ErrMissingField = "E002" // required definition field absent
	ErrBadWiring    = "E003" // wiring string unparsable
)

// ValidationError is one defect found while validating a definition
// file, with a stable code for tooling.
type ValidationError struct {
	Machine string `json:"machine"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidateMachines checks every machine declared under the "machine"
// field and returns all defects found (does not fail-fast). Parse
// failures stop validation of the affected machine only; structural
// defects are collected exhaustively per machine.
func ValidateMachines(v cue.Value) []ValidationError {
	var all []ValidationError

	if err := v.Err(); err != nil {
		return []ValidationError{{Field: "machine", Message: err.Error(), Code: ErrGeneric}}
	}
	machinesVal := v.LookupPath(cue.ParsePath("machine"))
	if !machinesVal.Exists() {
		return []ValidationError{{Field: "machine", Message: "no machine definitions found", Code: ErrMissingField}}
	}
	iter, err := machinesVal.Fields()
	if err != nil {
		return []ValidationError{{Field: "machine", Message: err.Error(), Code: ErrGeneric}}
	}

	for iter.Next() {
		name := iter.Label()
		spec, perr := parseMachine(name, iter.Value())
		if perr != nil {
			all = append(all, toValidationError(name, perr))
			continue
		}
		for _, serr := range model.Validate(spec) {
			all = append(all, ValidationError{
				Machine: name,
				Field:   serr.Field,
				Message: serr.Message,
				Code:    serr.Code,
			})
		}
	}
	return all
}

// toValidationError converts a parse error into a coded ValidationError.
func toValidationError(machine string, err error) ValidationError {
	var cerr *CompileError
	if errors.As(err, &cerr) {
		return ValidationError{
			Machine: machine,
			Field:   cerr.Field,
			Message: cerr.Message,
			Code:    ErrMissingField,
		}
	}
	return ValidationError{Machine: machine, Message: err.Error(), Code: ErrGeneric}
}
