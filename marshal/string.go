package marshal

import (
	"unicode/utf8"

	berrors "github.com/quietterminal/neon-bridge/errors"
)

// CheckString gates a native string before it crosses into the managed
// runtime's UTF encoding. Invalid byte sequences are a conversion failure,
// reported distinctly from address parse failures.
func CheckString(what, s string) error {
	if !utf8.ValidString(s) {
		return berrors.InvalidUTF8(what)
	}
	return nil
}
