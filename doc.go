//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package dnswire is a minimal DNS query header codec.
//
// [NewQuery] and [*Query] allow constructing and serializing a DNS query
// message containing one or more A/IN questions. [DecodeResponseHeader]
// decodes the id and flags at the front of a raw response. [*Transport]
// exchanges a single query with a server over UDP.
//
// Unlike most DNS libraries, the transaction id is written and read in
// little-endian byte order while the section counts are big-endian. Since
// servers echo the id verbatim this does not affect matching replies to
// queries, but the id seen by other tools is byte-swapped.
//
// This package does not parse resource records, does not follow name
// compression pointers, and does not implement EDNS(0) or TCP.
package dnswire
