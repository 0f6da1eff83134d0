package domain

import (
	"crypto/rand"
	"fmt"
	"io"
	"regexp"
)

const (
	ConfirmationPrefix     = "SB"
	confirmationBodyLength = 8
	confirmationAlphabet   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var confirmationPattern = regexp.MustCompile(`^[A-Z]{2}[0-9A-Z]{8}$`)

// CodeGenerator produces candidate confirmation codes. Uniqueness is checked by the caller.
type CodeGenerator interface {
	Generate() (string, error)
}

// RandomCodeGenerator draws codes from a random source, crypto/rand when Source is nil.
type RandomCodeGenerator struct {
	Source io.Reader
}

func (g RandomCodeGenerator) Generate() (string, error) {
	src := g.Source
	if src == nil {
		src = rand.Reader
	}
	return NewConfirmationCode(src)
}

// NewConfirmationCode returns "SB" followed by 8 uppercase base-36 characters.
func NewConfirmationCode(src io.Reader) (string, error) {
	// 252 is the largest multiple of 36 below 256; larger bytes are discarded to keep
	// the distribution uniform.
	const limit = 252
	out := make([]byte, 0, len(ConfirmationPrefix)+confirmationBodyLength)
	out = append(out, ConfirmationPrefix...)
	buf := make([]byte, confirmationBodyLength*2)
	for len(out) < cap(out) {
		if _, err := io.ReadFull(src, buf); err != nil {
			return "", fmt.Errorf("read random source: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, confirmationAlphabet[int(b)%len(confirmationAlphabet)])
			if len(out) == cap(out) {
				break
			}
		}
	}
	return string(out), nil
}

// ValidConfirmationCode reports whether code has the two-letter prefix plus eight
// uppercase alphanumerics shape.
func ValidConfirmationCode(code string) bool {
	return confirmationPattern.MatchString(code)
}
