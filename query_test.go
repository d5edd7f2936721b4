//
// SPDX-License-Identifier: BSD-3-Clause
//
// Adapted from: https://github.com/bassosimone/dnscodec/blob/main/query_test.go
//

package dnswire

import (
	"strings"
	"testing"

	"github.com/bassosimone/runtimex"
	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/dns/dnsmessage"
)

func fixedIDSource(id uint16) IDSource {
	return func() uint16 {
		return id
	}
}

func TestNewQuery(t *testing.T) {
	query := NewQueryWithIDSource(fixedIDSource(0x1234))
	require.Equal(t, &Query{
		ID:    0x1234,
		Flags: Flags{RecursionDesired: true},
	}, query)
	require.Equal(t, 0, query.QuestionCount())

	// make sure the default constructor uses the same defaults
	query = NewQuery()
	query.ID = 0x1234
	require.Equal(t, NewQueryWithIDSource(fixedIDSource(0x1234)), query)
}

func TestNewSeededIDSource(t *testing.T) {
	src1 := NewSeededIDSource(37)
	src2 := NewSeededIDSource(37)
	for i := 0; i < 16; i++ {
		require.Equal(t, src1(), src2())
	}

	q1 := NewQueryWithIDSource(NewSeededIDSource(1))
	q2 := NewQueryWithIDSource(NewSeededIDSource(1))
	require.Equal(t, q1.ID, q2.ID)
}

func TestQueryAddQuestion(t *testing.T) {
	query := NewQueryWithIDSource(fixedIDSource(1))
	query.AddQuestion("www.wp.pl")
	require.Equal(t, 1, query.QuestionCount())
	query.AddQuestion("www.vatican.va")
	require.Equal(t, 2, query.QuestionCount())
	require.Equal(t, uint16(2), query.Header().QDCount)
	require.Equal(t, []string{"www.wp.pl", "www.vatican.va"}, query.Names)
}

func TestQueryClone(t *testing.T) {
	query := NewQueryWithIDSource(fixedIDSource(1234))
	query.AddQuestion("www.example.com")
	query.Options = QueryOptionIDNA

	clone := query.Clone()

	require.NotSame(t, query, clone)
	require.Equal(t, query, clone)

	clone.ID = 5678
	clone.Names[0] = "www.example.net"
	clone.Flags.RecursionDesired = false
	clone.Options = 0

	require.Equal(t, uint16(1234), query.ID)
	require.Equal(t, []string{"www.example.com"}, query.Names)
	require.True(t, query.Flags.RecursionDesired)
	require.Equal(t, uint16(QueryOptionIDNA), query.Options)
}

func TestQuerySerializeNoQuestions(t *testing.T) {
	query := NewQueryWithIDSource(fixedIDSource(0x1234))
	raw, err := query.Serialize()
	require.NoError(t, err)
	require.Equal(t, []byte{
		0x34, 0x12, // ID (little-endian)
		0x01, 0x00, // flags: RD
		0x00, 0x00, // QDCOUNT
		0x00, 0x00, // ANCOUNT
		0x00, 0x00, // NSCOUNT
		0x00, 0x00, // ARCOUNT
	}, raw)
}

func TestQuerySerializeSingleQuestion(t *testing.T) {
	query := NewQueryWithIDSource(fixedIDSource(0x1234))
	query.AddQuestion("www.wp.pl")
	raw, err := query.Serialize()
	require.NoError(t, err)
	require.Len(t, raw, 27)
	require.Equal(t, []byte{0x00, 0x01}, raw[4:6])
	require.Equal(t, []byte{
		3, 'w', 'w', 'w', 2, 'w', 'p', 2, 'p', 'l', 0,
		0, 1, // QTYPE
		0, 1, // QCLASS
	}, raw[HeaderSize:])
}

func TestQuerySerializeTwoQuestions(t *testing.T) {
	query := NewQueryWithIDSource(fixedIDSource(0x1234))
	query.AddQuestion("www.wp.pl")
	query.AddQuestion("www.vatican.va")
	raw, err := query.Serialize()
	require.NoError(t, err)
	require.Len(t, raw, HeaderSize+(EncodedNameLen("www.wp.pl")+4)+(EncodedNameLen("www.vatican.va")+4))
	require.Equal(t, []byte{0x00, 0x02}, raw[4:6])
	require.Equal(t, []byte{
		7, 'v', 'a', 't', 'i', 'c', 'a', 'n', 2, 'v', 'a', 0, 0, 1, 0, 1,
	}, raw[len(raw)-16:])
}

func TestQuerySerializeHeaderFields(t *testing.T) {
	query := NewQueryWithIDSource(fixedIDSource(0xabcd))
	query.Flags = Flags{Opcode: 2, Authoritative: true, Z: 5, Rcode: 1}
	query.ANCount = 0x0102
	query.NSCount = 0x0304
	query.ARCount = 0x0506
	raw, err := query.Serialize()
	require.NoError(t, err)
	require.Equal(t, []byte{
		0xcd, 0xab,
		0b0001_0100, 0b0101_0001,
		0x00, 0x00,
		0x01, 0x02,
		0x03, 0x04,
		0x05, 0x06,
	}, raw)
}

func TestQuerySerializeValidation(t *testing.T) {
	t.Run("InvalidCharacter", func(t *testing.T) {
		query := NewQueryWithIDSource(fixedIDSource(1))
		query.AddQuestion("www.wp.pl")
		query.AddQuestion("bücher.example")
		_, err := query.Serialize()
		require.ErrorIs(t, err, ErrInvalidCharacter)
	})

	t.Run("LabelTooLong", func(t *testing.T) {
		query := NewQueryWithIDSource(fixedIDSource(1))
		query.AddQuestion(strings.Repeat("x", 64) + ".com")
		_, err := query.Serialize()
		require.ErrorIs(t, err, ErrLabelTooLong)
	})

	t.Run("TooManyQuestions", func(t *testing.T) {
		query := NewQueryWithIDSource(fixedIDSource(1))
		query.Names = make([]string, 1<<16)
		_, err := query.Serialize()
		require.ErrorIs(t, err, ErrTooManyQuestions)
	})
}

func TestQuerySerializeIDNA(t *testing.T) {
	query := NewQueryWithIDSource(fixedIDSource(42))
	query.Options = QueryOptionIDNA
	query.AddQuestion("bücher.example")
	raw, err := query.Serialize()
	require.NoError(t, err)

	msg := new(dns.Msg)
	require.NoError(t, msg.Unpack(raw))
	require.Len(t, msg.Question, 1)
	require.Equal(t, "xn--bcher-kva.example.", msg.Question[0].Name)
}

func TestQuerySerializeIDNAError(t *testing.T) {
	query := NewQueryWithIDSource(fixedIDSource(42))
	query.Options = QueryOptionIDNA
	query.AddQuestion("bad name.example")
	_, err := query.Serialize()
	require.Error(t, err)
}

func TestQuerySerializeInteropMiekg(t *testing.T) {
	query := NewQueryWithIDSource(fixedIDSource(0x1234))
	query.AddQuestion("www.wp.pl")
	query.AddQuestion("www.vatican.va")
	raw := runtimex.PanicOnError1(query.Serialize())

	msg := new(dns.Msg)
	require.NoError(t, msg.Unpack(raw))

	// other implementations read the ID as big-endian
	require.Equal(t, uint16(0x3412), msg.Id)
	require.False(t, msg.Response)
	require.Equal(t, dns.OpcodeQuery, msg.Opcode)
	require.True(t, msg.RecursionDesired)
	require.Equal(t, []dns.Question{
		{Name: "www.wp.pl.", Qtype: dns.TypeA, Qclass: dns.ClassINET},
		{Name: "www.vatican.va.", Qtype: dns.TypeA, Qclass: dns.ClassINET},
	}, msg.Question)
}

func TestQuerySerializeInteropDNSMessage(t *testing.T) {
	query := NewQueryWithIDSource(fixedIDSource(0x1234))
	query.AddQuestion("www.wp.pl")
	raw := runtimex.PanicOnError1(query.Serialize())

	var parser dnsmessage.Parser
	header, err := parser.Start(raw)
	require.NoError(t, err)
	require.Equal(t, uint16(0x3412), header.ID)
	require.True(t, header.RecursionDesired)

	questions, err := parser.AllQuestions()
	require.NoError(t, err)
	require.Len(t, questions, 1)
	require.Equal(t, "www.wp.pl.", questions[0].Name.String())
	require.Equal(t, dnsmessage.TypeA, questions[0].Type)
	require.Equal(t, dnsmessage.ClassINET, questions[0].Class)
}
