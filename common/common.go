package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNilArguments is a common error response to highlight that nils were
	// passed in when they should not have been
	ErrNilArguments = errors.New("received nil argument(s)")
	// ErrNilPointer defines an error for when a pointer is nil
	ErrNilPointer = errors.New("nil pointer")
	// ErrEmptySlice occurs when a required slice has no entries
	ErrEmptySlice = errors.New("empty slice")
)

// Errors defines multiple errors
type Errors []error

// Error implements error interface
func (e Errors) Error() string {
	joined := make([]string, len(e))
	for i := range e {
		joined[i] = e[i].Error()
	}
	return strings.Join(joined, ", ")
}

// Unwrap exposes the collected errors so errors.Is and errors.As can match
// sentinels through an aggregate
func (e Errors) Unwrap() []error {
	return e
}

// AppendError appends an error to a list of exising errors
func AppendError(original, incoming error) error {
	if incoming == nil {
		return original
	}
	if original == nil {
		return Errors{incoming}
	}
	if existing, ok := original.(Errors); ok {
		return append(existing, incoming)
	}
	return Errors{original, incoming}
}

// FitStringToLimit ensures a string is of the length of the limit
// either by truncating the string with ellipses or padding with the spacer
func FitStringToLimit(str, spacer string, limit int, upper bool) string {
	if limit < 0 {
		return str
	}
	if limit == 0 {
		return ""
	}
	limResp := limit - len(str)
	if upper {
		str = strings.ToUpper(str)
	}
	if limResp < 0 {
		if limit-3 > 0 {
			return str[0:limit-3] + "..."
		}
		return str[0:limit]
	}
	spacerLen := len(spacer)
	for i := 0; i < limResp; i++ {
		str += spacer
		if spacerLen > 1 {
			// prevent clever people from going beyond
			// the limit with multi-character spacers
			str = str[0 : limit-1]
		}
	}
	return str
}

// GenerateFileName will convert a proposed filename into a filename that
// can be used safely across any OS
func GenerateFileName(fileName, extension string) (string, error) {
	if fileName == "" {
		return "", fmt.Errorf("%w missing filename", ErrNilArguments)
	}
	if extension == "" {
		return "", fmt.Errorf("%w missing filename extension", ErrNilArguments)
	}
	fileName = strings.ToLower(fileName + "." + extension)
	var replacer = strings.NewReplacer(" ", "", ":", "-")
	return replacer.Replace(fileName), nil
}
