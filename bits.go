//
// SPDX-License-Identifier: BSD-3-Clause
//

package dnswire

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderBits renders the low width bits of value as a binary string
// of exactly width characters, padding with zeroes on the left.
//
// This function panics if width is not in the [1, 16] range.
func RenderBits(value uint16, width int) string {
	if width < 1 || width > 16 {
		panic(fmt.Sprintf("dnswire: RenderBits: width %d out of range [1, 16]", width))
	}
	mask := uint64(1)<<width - 1
	digits := strconv.FormatUint(uint64(value)&mask, 2)
	return strings.Repeat("0", width-len(digits)) + digits
}
