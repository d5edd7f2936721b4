//
// SPDX-License-Identifier: BSD-3-Clause
//

package dnswire

import "github.com/miekg/dns"

// HeaderSize is the size of the DNS header in octets.
const HeaderSize = 12

// Question type and class used by every question we send.
const (
	// QuestionTypeA is the host address query type.
	QuestionTypeA = dns.TypeA

	// QuestionClassINET is the Internet class.
	QuestionClassINET = dns.ClassINET
)

// Header is the DNS message header.
//
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	|                      ID                       |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	|QR|   Opcode  |AA|TC|RD|RA|   Z    |   RCODE   |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	|                    QDCOUNT                    |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	|                    ANCOUNT                    |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	|                    NSCOUNT                    |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	|                    ARCOUNT                    |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
type Header struct {
	ID      uint16
	Flags   Flags
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}
