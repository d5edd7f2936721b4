//
// SPDX-License-Identifier: BSD-3-Clause
//
// Adapted from: https://github.com/bassosimone/dnscodec/blob/main/query.go
//

package dnswire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/miekg/dns"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/net/idna"
)

const (
	// QueryOptionIDNA enables converting internationalized names
	// to their ASCII form before encoding them.
	QueryOptionIDNA = 1 << iota
)

// ErrTooManyQuestions means that a query contains more questions
// than what the QDCOUNT field can represent.
var ErrTooManyQuestions = errors.New("too many questions")

// IDSource generates transaction IDs for new queries.
type IDSource func() uint16

// NewSeededIDSource returns a deterministic [IDSource] suitable for
// tests. Use [dns.Id] in production.
func NewSeededIDSource(seed uint64) IDSource {
	rng := rand.New(rand.NewPCG(seed, seed))
	return func() uint16 {
		return uint16(rng.Uint32())
	}
}

// Query is a DNS query containing zero or more A/IN questions.
//
// Construct using [NewQuery] or [NewQueryWithIDSource].
type Query struct {
	// ID is the transaction ID.
	ID uint16

	// Flags contains the header flags.
	Flags Flags

	// ANCount, NSCount, ARCount are the counts of the answer, authority
	// and additional sections, which we never populate.
	ANCount uint16
	NSCount uint16
	ARCount uint16

	// Names contains the names to query for, in order.
	Names []string

	// Options OPTIONALLY modifies how we serialize the query.
	//
	// Use [QueryOptionIDNA].
	Options uint16
}

// NewQuery constructs a new [*Query] with a random ID obtained
// using [dns.Id] and with recursion desired.
func NewQuery() *Query {
	return NewQueryWithIDSource(dns.Id)
}

// NewQueryWithIDSource is like [NewQuery] but obtains the ID from src.
func NewQueryWithIDSource(src IDSource) *Query {
	return &Query{
		ID: src(),
		Flags: Flags{
			RecursionDesired: true,
		},
	}
}

// AddQuestion appends a question for name. The name is not validated
// until the query is serialized.
func (q *Query) AddQuestion(name string) {
	q.Names = append(q.Names, name)
}

// QuestionCount returns the number of questions, i.e., the QDCOUNT.
func (q *Query) QuestionCount() int {
	return len(q.Names)
}

// Header returns the header of the query with QDCOUNT derived from
// the questions. QDCOUNT is meaningless when there are more questions
// than [math.MaxUint16], which [*Query.Serialize] rejects.
func (q *Query) Header() Header {
	return Header{
		ID:      q.ID,
		Flags:   q.Flags,
		QDCount: uint16(len(q.Names)),
		ANCount: q.ANCount,
		NSCount: q.NSCount,
		ARCount: q.ARCount,
	}
}

// Clone returns a deep copy of the query.
func (q *Query) Clone() *Query {
	return &Query{
		ID:      q.ID,
		Flags:   q.Flags,
		ANCount: q.ANCount,
		NSCount: q.NSCount,
		ARCount: q.ARCount,
		Names:   slices.Clone(q.Names),
		Options: q.Options,
	}
}

// Serialize returns the wire representation of the query.
//
// The ID is little-endian while the counts, the question type and
// the question class are big-endian. Every name is validated using
// [ValidateName], after IDNA conversion when [QueryOptionIDNA] is set.
func (q *Query) Serialize() ([]byte, error) {
	if len(q.Names) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d", ErrTooManyQuestions, len(q.Names))
	}

	// 1. prepare and validate the names
	names := make([]string, 0, len(q.Names))
	size := HeaderSize
	for _, name := range q.Names {
		if q.Options&QueryOptionIDNA != 0 {
			punyName, err := idna.Lookup.ToASCII(name)
			if err != nil {
				return nil, err
			}
			name = punyName
		}
		if err := ValidateName(name); err != nil {
			return nil, err
		}
		names = append(names, name)
		size += EncodedNameLen(name) + 4
	}

	// 2. write the header
	b := cryptobyte.NewBuilder(make([]byte, 0, size))
	b.AddBytes(binary.LittleEndian.AppendUint16(nil, q.ID))
	b1, b2 := PackFlags(q.Flags)
	b.AddUint8(b1)
	b.AddUint8(b2)
	b.AddUint16(uint16(len(names)))
	b.AddUint16(q.ANCount)
	b.AddUint16(q.NSCount)
	b.AddUint16(q.ARCount)

	// 3. write the question section
	for _, name := range names {
		addName(b, name)
		b.AddUint16(QuestionTypeA)
		b.AddUint16(QuestionClassINET)
	}

	return b.Bytes()
}
