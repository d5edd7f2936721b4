//
// SPDX-License-Identifier: BSD-3-Clause
//

package dnswire

import (
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

const (
	dumpBegin     = "--- Begin of packet ---\n"
	dumpSeparator = "--\n"
	dumpEnd       = "--- End of packet ---\n"
)

// String returns a human readable dump of the query.
func (q *Query) String() string {
	var sb strings.Builder
	sb.WriteString(dumpBegin)
	fmt.Fprintf(&sb, "id:\t%d\n", q.ID)
	dumpFlags(&sb, q.Flags, false)
	sb.WriteString(dumpSeparator)
	h := q.Header()
	dumpCounts(&sb, SectionCounts{
		QDCount: h.QDCount,
		ANCount: h.ANCount,
		NSCount: h.NSCount,
		ARCount: h.ARCount,
	})
	sb.WriteString(dumpSeparator)
	for idx, name := range q.Names {
		fmt.Fprintf(&sb, "name #%d:\n", idx+1)
		for _, label := range SplitName(name) {
			fmt.Fprintf(&sb, "(len: %d)\t%s\n", len(label), label)
		}
	}
	sb.WriteString(dumpEnd)
	return sb.String()
}

// String returns a human readable dump of the response header.
func (h *ResponseHeader) String() string {
	return h.Dump(nil)
}

// Dump is like [*ResponseHeader.String] but also renders the
// section counts obtained using [DecodeSectionCounts], if not nil.
func (h *ResponseHeader) Dump(counts *SectionCounts) string {
	var sb strings.Builder
	sb.WriteString(dumpBegin)
	fmt.Fprintf(&sb, "id:\t%d\n", h.ID)
	dumpFlags(&sb, h.Flags, true)
	if counts != nil {
		sb.WriteString(dumpSeparator)
		dumpCounts(&sb, *counts)
		sb.WriteString(dumpSeparator)
	}
	sb.WriteString(dumpEnd)
	return sb.String()
}

func dumpCounts(sb *strings.Builder, counts SectionCounts) {
	fmt.Fprintf(sb, "qdcount:\t%s\n", RenderBits(counts.QDCount, 16))
	fmt.Fprintf(sb, "ancount:\t%s\n", RenderBits(counts.ANCount, 16))
	fmt.Fprintf(sb, "nscount:\t%s\n", RenderBits(counts.NSCount, 16))
	fmt.Fprintf(sb, "arcount:\t%s\n", RenderBits(counts.ARCount, 16))
}

func dumpFlags(sb *strings.Builder, f Flags, mnemonics bool) {
	fmt.Fprintf(sb, "qr:\t%t\n", f.Response)
	fmt.Fprintf(sb, "opcode:\t%s%s\n", RenderBits(uint16(f.Opcode), 4),
		dumpMnemonic(dns.OpcodeToString, f.Opcode, mnemonics))
	fmt.Fprintf(sb, "aa:\t%t\n", f.Authoritative)
	fmt.Fprintf(sb, "tc:\t%t\n", f.Truncated)
	fmt.Fprintf(sb, "rd:\t%t\n", f.RecursionDesired)
	fmt.Fprintf(sb, "ra:\t%t\n", f.RecursionAvailable)
	fmt.Fprintf(sb, "z:\t%s\n", RenderBits(uint16(f.Z), 3))
	fmt.Fprintf(sb, "rcode:\t%s%s\n", RenderBits(uint16(f.Rcode), 4),
		dumpMnemonic(dns.RcodeToString, f.Rcode, mnemonics))
}

func dumpMnemonic(names map[int]string, value uint8, enabled bool) string {
	if name, found := names[int(value)]; enabled && found {
		return " (" + name + ")"
	}
	return ""
}

// HexDump formats buf as two-digit hex octets, adding a space after
// every pair of octets and a newline after every eight pairs.
func HexDump(buf []byte) string {
	var sb strings.Builder
	for idx, octet := range buf {
		fmt.Fprintf(&sb, "%02x", octet)
		if (idx+1)%2 == 0 {
			sb.WriteString(" ")
			if (idx+1)%16 == 0 {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}
