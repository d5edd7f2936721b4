//
// SPDX-License-Identifier: BSD-3-Clause
//

package dnswire

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/cryptobyte"
)

const (
	// MaxLabelLength is the maximum length of a label in octets.
	MaxLabelLength = 63

	// MaxNameLength is the maximum length of an encoded name in octets,
	// including the length octets and the terminating zero octet.
	MaxNameLength = 255
)

// Errors returned by [ValidateName] and [EncodeName].
var (
	// ErrInvalidCharacter means that a name contains non-ASCII bytes.
	ErrInvalidCharacter = errors.New("invalid character in domain name")

	// ErrLabelTooLong means that a label is longer than [MaxLabelLength].
	ErrLabelTooLong = errors.New("domain name label too long")

	// ErrNameTooLong means that the encoded name is longer than [MaxNameLength].
	ErrNameTooLong = errors.New("domain name too long")
)

// SplitName splits a dotted name into its labels.
//
// The name is not normalized: "example.com." yields a trailing empty
// label and "" yields a single empty label.
func SplitName(name string) []string {
	return strings.Split(name, ".")
}

// EncodedNameLen returns the length of the wire encoding of name,
// including the terminating zero octet.
func EncodedNameLen(name string) int {
	// every label contributes one length octet and the
	// dots between labels are not transmitted
	return len(name) + 2
}

// ValidateName checks whether name can be encoded by [EncodeName].
func ValidateName(name string) error {
	for i := 0; i < len(name); i++ {
		if name[i] >= utf8.RuneSelf {
			return fmt.Errorf("%w: %q", ErrInvalidCharacter, name)
		}
	}
	for _, label := range SplitName(name) {
		if len(label) > MaxLabelLength {
			return fmt.Errorf("%w: %q (%d octets)", ErrLabelTooLong, label, len(label))
		}
	}
	if size := EncodedNameLen(name); size > MaxNameLength {
		return fmt.Errorf("%w: %q (%d octets)", ErrNameTooLong, name, size)
	}
	return nil
}

// EncodeName returns the wire encoding of name: a length octet followed
// by the label octets for each label, terminated by a zero octet.
func EncodeName(name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	b := cryptobyte.NewBuilder(make([]byte, 0, EncodedNameLen(name)))
	addName(b, name)
	return b.Bytes()
}

// addName appends an already validated name to b.
func addName(b *cryptobyte.Builder, name string) {
	for _, label := range SplitName(name) {
		b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddBytes([]byte(label))
		})
	}
	b.AddUint8(0)
}
