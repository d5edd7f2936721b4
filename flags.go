//
// SPDX-License-Identifier: BSD-3-Clause
//

package dnswire

// Bit masks for the first flags octet.
//
//	+--+--+--+--+--+--+--+--+
//	|QR|  Opcode   |AA|TC|RD|
//	+--+--+--+--+--+--+--+--+
const (
	flagsMaskQR     = 0b1000_0000
	flagsMaskOpcode = 0b0111_1000
	flagsMaskAA     = 0b0000_0100
	flagsMaskTC     = 0b0000_0010
	flagsMaskRD     = 0b0000_0001

	flagsShiftOpcode = 3
)

// Bit masks for the second flags octet.
//
//	+--+--+--+--+--+--+--+--+
//	|RA|   Z    |   RCODE   |
//	+--+--+--+--+--+--+--+--+
const (
	flagsMaskRA    = 0b1000_0000
	flagsMaskZ     = 0b0111_0000
	flagsMaskRcode = 0b0000_1111

	flagsShiftZ = 4
)

// Flags contains the DNS header fields packed into the two
// octets following the transaction ID.
type Flags struct {
	// Response is the QR bit: false for a query, true for a response.
	Response bool

	// Opcode is the 4-bit query kind (zero means standard query).
	Opcode uint8

	// Authoritative is the AA bit.
	Authoritative bool

	// Truncated is the TC bit.
	Truncated bool

	// RecursionDesired is the RD bit.
	RecursionDesired bool

	// RecursionAvailable is the RA bit.
	RecursionAvailable bool

	// Z is the 3-bit reserved field. It is transmitted as stored.
	Z uint8

	// Rcode is the 4-bit response code.
	Rcode uint8
}

// PackFlags packs the flags into two octets in wire order.
//
// Opcode and Rcode are truncated to 4 bits and Z to 3 bits, so that
// out-of-range values never clobber the neighbouring fields.
func PackFlags(f Flags) (byte, byte) {
	b1 := (f.Opcode << flagsShiftOpcode) & flagsMaskOpcode
	if f.Response {
		b1 |= flagsMaskQR
	}
	if f.Authoritative {
		b1 |= flagsMaskAA
	}
	if f.Truncated {
		b1 |= flagsMaskTC
	}
	if f.RecursionDesired {
		b1 |= flagsMaskRD
	}

	b2 := (f.Z << flagsShiftZ) & flagsMaskZ
	if f.RecursionAvailable {
		b2 |= flagsMaskRA
	}
	b2 |= f.Rcode & flagsMaskRcode

	return b1, b2
}

// UnpackFlags is the inverse of [PackFlags]. Every pair of octets
// is a valid encoding, hence this function cannot fail.
func UnpackFlags(b1, b2 byte) Flags {
	return Flags{
		Response:           b1&flagsMaskQR != 0,
		Opcode:             (b1 & flagsMaskOpcode) >> flagsShiftOpcode,
		Authoritative:      b1&flagsMaskAA != 0,
		Truncated:          b1&flagsMaskTC != 0,
		RecursionDesired:   b1&flagsMaskRD != 0,
		RecursionAvailable: b2&flagsMaskRA != 0,
		Z:                  (b2 & flagsMaskZ) >> flagsShiftZ,
		Rcode:              b2 & flagsMaskRcode,
	}
}
