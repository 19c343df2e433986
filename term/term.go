// Package term defines the in-memory value model the codec converts ETF
// byte streams to and from.
//
// Proper lists and plain byte/text values map onto native Go types ([]any,
// string, []byte) wherever Go already has a natural representation; the
// remaining variants that ETF distinguishes but Go has no built-in shape for
// (atoms, bit-strings, improper lists, insertion-ordered maps, pids,
// references, funs) get dedicated named types. Values are immutable once
// built: the decoder constructs them bottom-up and the encoder walks them
// top-down without mutating anything it is handed.
package term

import "fmt"

// Atom is an interned Erlang symbolic constant. It behaves like a string for
// comparison and formatting purposes, but its distinct type lets callers
// detect (via a type switch or assertion) that a value came from an atom
// tag rather than a binary or string tag.
type Atom string

func (a Atom) String() string { return string(a) }

// StrictAtom is textually identical to Atom but opts a caller out of the
// implicit atom/string coercions performed elsewhere (e.g. by encode_hook
// catch-alls written against plain strings). Two atoms with the same text
// compare equal to each other only when they share this same Go type.
type StrictAtom string

func (a StrictAtom) String() string { return string(a) }

// UndefinedType is the sentinel host value that decodes from, and encodes
// to, the atom `undefined`. It carries no data; Undefined is its only
// instance.
type UndefinedType struct{}

func (UndefinedType) String() string { return "undefined" }

// Undefined is the host-language stand-in for Erlang/Elixir's `nil`/`None`.
// Both encode and decode treat it as the atom `undefined` unconditionally.
var Undefined = UndefinedType{}

// ByteString is an immutable binary blob decoded from, or destined for,
// BINARY_EXT. It is distinct from a plain Go string so that decode-time
// binary/text ambiguity (controlled by the ByteString decode option) stays
// visible in the type system.
type ByteString []byte

// BitString is a byte vector where the final byte's low-order bits may be
// padding rather than data. TailBits records how many of the final byte's
// bits are meaningful, in 1..8. A BitString with TailBits == 8 is
// bit-for-bit identical to a ByteString of the same bytes but the two are
// never confused on the wire: ETF carries a separate tag for each.
type BitString struct {
	Bytes    []byte
	TailBits uint8
}

// Tuple is a fixed-arity ordered sequence, encoded as SMALL_TUPLE_EXT or
// LARGE_TUPLE_EXT depending on its length.
type Tuple []any

// ImproperList is a list whose final cdr is not the empty list. Proper
// lists need no wrapper type: they decode to, and encode from, a plain Go
// []any (or, for the all-bytes case, a string/[]byte per the STRING_EXT
// policy).
type ImproperList struct {
	Elements []any
	Tail     any
}

// Pair is one key/value entry of a Map, kept in the order it was inserted
// or decoded.
type Pair struct {
	Key   any
	Value any
}

// Map is an insertion-ordered sequence of key/value pairs. Key uniqueness
// is not enforced by the codec, matching MAP_EXT's wire semantics and
// mirroring what a real Erlang map encoder is free to assume about its
// input.
type Map struct {
	Pairs []Pair
}

// Get returns the value paired with key, comparing keys with ==. It is a
// linear scan rather than a hash lookup, since ETF map keys decode to
// whatever shape their tag implies (terms, tuples, even other maps) and
// Map makes no assumption that key is itself comparable. Get panics if key's
// dynamic type is one Go's == cannot compare, exactly as a map index with
// that type would.
func (m Map) Get(key any) (any, bool) {
	for _, p := range m.Pairs {
		if p.Key == key {
			return p.Value, true
		}
	}

	return nil, false
}

// Len returns the number of key/value pairs in the map.
func (m Map) Len() int { return len(m.Pairs) }

// Pid identifies an Erlang process: the node it lives on, its id/serial
// pair, and the creation counter that disambiguates a node's restarts.
type Pid struct {
	Node     Atom
	ID       uint32
	Serial   uint32
	Creation uint32
}

func (p Pid) String() string {
	return fmt.Sprintf("#Pid<%s.%d.%d.%d>", p.Node, p.ID, p.Serial, p.Creation)
}

// Reference is a unique token minted by an Erlang runtime. ID holds the
// reference's id words verbatim, as a byte slice whose length is a
// multiple of 4; Newer selects NEWER_REFERENCE_EXT's 4-byte creation field
// on encode instead of NEW_REFERENCE_EXT's 1-byte field.
type Reference struct {
	Node     Atom
	Creation uint32
	ID       []byte
	Newer    bool
}

// Fun is a serialized closure in NEW_FUN_EXT form: module, the old and new
// uniq/index identifiers, the owning pid, and the captured free variables,
// each itself an arbitrary decoded term.
type Fun struct {
	Arity    uint8
	Uniq     [16]byte
	Index    uint32
	Module   Atom
	OldIndex uint32
	OldUniq  uint32
	Pid      Pid
	FreeVars []any
}

// Export is a remote function reference in EXPORT_EXT form:
// Module:Function/Arity.
type Export struct {
	Module   Atom
	Function Atom
	Arity    uint8
}

// Marshaler is the well-known "encode as ETF" escape hatch: a host value
// that implements it controls its own encoding, taking precedence over the
// encoder's struct-introspection fallback and over any catch_all hook.
type Marshaler interface {
	MarshalETF() (any, error)
}
