//
// SPDX-License-Identifier: BSD-3-Clause
//
// Adapted from: https://github.com/bassosimone/dnscodec/blob/main/response.go
//

package dnswire

import (
	"encoding/binary"
	"errors"

	"github.com/miekg/dns"
	"golang.org/x/crypto/cryptobyte"
)

// responseHeaderSize is the number of octets consumed by [DecodeResponseHeader].
const responseHeaderSize = 4

// ErrUnderrun indicates that the stream ended before we could decode
// the data we were asked to decode.
var ErrUnderrun = errors.New("buffer underrun while decoding DNS message")

// ResponseHeader contains the ID and the flags of a DNS response.
//
// Construct using [DecodeResponseHeader] or [ParseResponseHeader].
type ResponseHeader struct {
	// ID is the transaction ID, read in little-endian byte
	// order like [*Query.Serialize] writes it.
	ID uint16

	// Flags contains the decoded header flags.
	Flags Flags
}

// DecodeResponseHeader consumes the ID and the flags from the front of c.
//
// On failure, c is not modified. On success, c points to the QDCOUNT
// field, which this function does not decode.
func DecodeResponseHeader(c *cryptobyte.String) (*ResponseHeader, error) {
	var raw []byte
	if !c.ReadBytes(&raw, responseHeaderSize) {
		return nil, ErrUnderrun
	}
	h := &ResponseHeader{
		ID:    binary.LittleEndian.Uint16(raw[0:2]),
		Flags: UnpackFlags(raw[2], raw[3]),
	}
	return h, nil
}

// ParseResponseHeader is like [DecodeResponseHeader] but operates on
// a raw message and also returns the undecoded remainder.
func ParseResponseHeader(raw []byte) (*ResponseHeader, cryptobyte.String, error) {
	c := cryptobyte.String(raw)
	h, err := DecodeResponseHeader(&c)
	if err != nil {
		return nil, nil, err
	}
	return h, c, nil
}

// SectionCounts contains the QDCOUNT, ANCOUNT, NSCOUNT, and ARCOUNT.
type SectionCounts struct {
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// DecodeSectionCounts consumes the four big-endian section counts from
// the front of c. Call it after [DecodeResponseHeader]. On failure, c
// is not modified.
func DecodeSectionCounts(c *cryptobyte.String) (SectionCounts, error) {
	var raw []byte
	if !c.ReadBytes(&raw, HeaderSize-responseHeaderSize) {
		return SectionCounts{}, ErrUnderrun
	}
	counts := cryptobyte.String(raw)
	var sc SectionCounts
	counts.ReadUint16(&sc.QDCount)
	counts.ReadUint16(&sc.ANCount)
	counts.ReadUint16(&sc.NSCount)
	counts.ReadUint16(&sc.ARCount)
	return sc, nil
}

// These error messages use the same suffixes used by the Go standard library.
var (
	// ErrInvalidResponse means that the response is not a response message
	// or its ID does not match the ID of the query.
	ErrInvalidResponse = errors.New("invalid DNS response")

	// ErrNoName indicates that the server response code is NXDOMAIN.
	ErrNoName = errors.New("no such host")

	// ErrServerMisbehaving indicates that the server response code is
	// neither 0, nor NXDOMAIN, nor SERVFAIL.
	ErrServerMisbehaving = errors.New("server misbehaving")

	// ErrServerTemporarilyMisbehaving indicates that the server answer is SERVFAIL.
	//
	// The error message is same as [ErrServerMisbehaving] for compatibility with the
	// Go standard library, which assigns the same error string to both errors.
	ErrServerTemporarilyMisbehaving = errors.New("server misbehaving")

	// ErrNoData indicates that there is no pertinent answer in the response.
	ErrNoData = errors.New("no answer from DNS server")
)

// ValidateResponseHeaderForQuery checks whether h is a response
// to the given query by looking at the QR bit and the ID.
func ValidateResponseHeaderForQuery(query *Query, h *ResponseHeader) error {
	// 1. make sure the message is actually a response
	if !h.Flags.Response {
		return ErrInvalidResponse
	}

	// 2. make sure the response ID matches the query ID
	if h.ID != query.ID {
		return ErrInvalidResponse
	}
	return nil
}

// ResponseErrorFromRCODE maps the RCODE of a response to an error using
// a suffix compatible with the error strings returned by [*net.Resolver].
//
// If the RCODE is zero, this function returns nil.
func ResponseErrorFromRCODE(h *ResponseHeader) error {
	switch int(h.Flags.Rcode) {
	case dns.RcodeSuccess:
		return nil
	case dns.RcodeNameError:
		return ErrNoName
	case dns.RcodeServerFailure:
		return ErrServerTemporarilyMisbehaving
	default:
		return ErrServerMisbehaving
	}
}

// ResponseErrorFromHeader is like [ResponseErrorFromRCODE] but also uses
// the section counts obtained using [DecodeSectionCounts] to detect
// lame referrals, which it maps to [ErrNoData].
func ResponseErrorFromHeader(h *ResponseHeader, counts SectionCounts) error {
	// 1. handle NXDOMAIN case by mapping it to EAI_NONAME
	if int(h.Flags.Rcode) == dns.RcodeNameError {
		return ErrNoName
	}

	// 2. handle the case of lame referral by mapping it to EAI_NODATA
	if int(h.Flags.Rcode) == dns.RcodeSuccess &&
		!h.Flags.Authoritative &&
		!h.Flags.RecursionAvailable &&
		counts.ANCount == 0 {
		return ErrNoData
	}

	// 3. handle any other error by mapping to EAI_FAIL
	return ResponseErrorFromRCODE(h)
}
