package fetch

import (
	"errors"
	"fmt"
)

// tleLineLength is the fixed width of each element line.
const tleLineLength = 69

var (
	ErrTLELineLength = errors.New("TLE line is not 69 characters")
	ErrTLELinePrefix = errors.New("TLE line has wrong line-number prefix")
)

// ValidateTLE checks a two-line element pair for the fixed-width format the
// engine accepts: 69 characters per line with "1 "/"2 " prefixes.
// Field-level parsing stays with the propagation library.
func ValidateTLE(line1, line2 string) error {
	if err := validateLine(line1, '1'); err != nil {
		return fmt.Errorf("line 1: %w", err)
	}
	if err := validateLine(line2, '2'); err != nil {
		return fmt.Errorf("line 2: %w", err)
	}
	return nil
}

func validateLine(line string, number byte) error {
	if len(line) != tleLineLength {
		return fmt.Errorf("%w: got %d", ErrTLELineLength, len(line))
	}
	if line[0] != number || line[1] != ' ' {
		return ErrTLELinePrefix
	}
	return nil
}
