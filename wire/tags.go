// Package wire holds the fixed byte-level constants of the Erlang External Term
// Format: the version prefix, the compressed-envelope tag, and the dense table
// of one-byte tags that identify each term's wire shape.
//
// Nothing in this package allocates or parses; it is the vocabulary the codec
// package dispatches on.
package wire

// Tag identifies the wire shape of the bytes that follow it.
type Tag byte

// Version is the leading byte of every top-level ETF byte stream.
const Version byte = 131

// Compressed introduces a zlib-wrapped envelope immediately after Version.
const Compressed Tag = 80

// The full tag table this codec understands. Names mirror the official
// "*_EXT" wire names; values are the single byte that appears on the wire.
const (
	NewFloat       Tag = 70  // 8 bytes, big-endian IEEE-754 double
	BitBinary      Tag = 77  // 4-byte length + 1-byte tail bits + bytes
	AtomCacheRef   Tag = 82  // legacy distribution-only tag, rejected by the decoder
	NewPid         Tag = 88  // node atom, 4-byte id, 4-byte serial, 4-byte creation
	NewerReference Tag = 90  // 2-byte len, node atom, 4-byte creation, id bytes
	SmallInt       Tag = 97  // one unsigned byte
	Int            Tag = 98  // 4-byte signed two's complement
	Float          Tag = 99  // legacy 31-byte ASCII float string, unsupported
	AtomDeprecated Tag = 100 // ATOM_EXT: 2-byte length + latin-1/UTF-8 bytes
	Reference      Tag = 101 // legacy reference, unsupported
	Port           Tag = 102 // legacy port identifier, unsupported
	Pid            Tag = 103 // node atom, 4-byte id, 4-byte serial, 1-byte creation
	SmallTuple     Tag = 104 // 1-byte arity + elements
	LargeTuple     Tag = 105 // 4-byte arity + elements
	Nil            Tag = 106 // the empty list
	StringExt      Tag = 107 // 2-byte length + raw bytes
	List           Tag = 108 // 4-byte length + elements + tail
	Binary         Tag = 109 // 4-byte length + bytes
	SmallBig       Tag = 110 // 1-byte length + 1-byte sign + LE magnitude
	LargeBig       Tag = 111 // 4-byte length + 1-byte sign + LE magnitude
	NewFun         Tag = 112 // size, arity, uniq, index, free count, module, ...
	Export         Tag = 113 // module atom, function atom, arity small-int
	NewReference   Tag = 114 // 2-byte len, node atom, 1-byte creation, id bytes
	SmallAtom      Tag = 115 // 1-byte length + latin-1 bytes
	Map            Tag = 116 // 4-byte count + count key/value pairs
	Fun            Tag = 117 // legacy FUN_EXT, unsupported
	AtomUTF8       Tag = 118 // 2-byte length + UTF-8 bytes
	SmallAtomUTF8  Tag = 119 // 1-byte length + UTF-8 bytes
)

var tagNames = map[Tag]string{
	NewFloat:       "NEW_FLOAT_EXT",
	BitBinary:      "BIT_BINARY_EXT",
	AtomCacheRef:   "ATOM_CACHE_REF",
	NewPid:         "NEW_PID_EXT",
	NewerReference: "NEWER_REFERENCE_EXT",
	SmallInt:       "SMALL_INTEGER_EXT",
	Int:            "INTEGER_EXT",
	Float:          "FLOAT_EXT",
	AtomDeprecated: "ATOM_EXT",
	Reference:      "REFERENCE_EXT",
	Port:           "PORT_EXT",
	Pid:            "PID_EXT",
	SmallTuple:     "SMALL_TUPLE_EXT",
	LargeTuple:     "LARGE_TUPLE_EXT",
	Nil:            "NIL_EXT",
	StringExt:      "STRING_EXT",
	List:           "LIST_EXT",
	Binary:         "BINARY_EXT",
	SmallBig:       "SMALL_BIG_EXT",
	LargeBig:       "LARGE_BIG_EXT",
	NewFun:         "NEW_FUN_EXT",
	Export:         "EXPORT_EXT",
	NewReference:   "NEW_REFERENCE_EXT",
	SmallAtom:      "SMALL_ATOM_EXT",
	Map:            "MAP_EXT",
	Fun:            "FUN_EXT",
	AtomUTF8:       "ATOM_UTF8_EXT",
	SmallAtomUTF8:  "SMALL_ATOM_UTF8_EXT",
}

// String renders the tag by its official wire name, or "UNKNOWN_TAG" if the
// tag is not part of the table this codec recognizes.
func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}

	return "UNKNOWN_TAG"
}

// MaxSmallInt is the largest value representable by SMALL_INTEGER_EXT.
const MaxSmallInt = 255

// MaxInt32, MinInt32 bound the range representable by INTEGER_EXT.
const (
	MaxInt32 = 1<<31 - 1
	MinInt32 = -1 << 31
)

// MaxSmallBigBytes is the largest magnitude length, in bytes, representable
// by SMALL_BIG_EXT before the encoder must fall back to LARGE_BIG_EXT.
const MaxSmallBigBytes = 255

// MaxAtomBytes is the largest UTF-8 byte length an atom's text may occupy on
// the wire (ATOM_UTF8_EXT / ATOM_EXT use a 2-byte length field).
const MaxAtomBytes = 65535

// MaxSmallAtomBytes is the largest UTF-8 byte length representable by
// SMALL_ATOM_UTF8_EXT / SMALL_ATOM_EXT before the encoder must widen the tag.
const MaxSmallAtomBytes = 255

// MaxStringExtLen is the largest element count representable by STRING_EXT
// (a 2-byte length field).
const MaxStringExtLen = 65535

// MaxSmallTupleArity is the largest arity representable by SMALL_TUPLE_EXT.
const MaxSmallTupleArity = 255
