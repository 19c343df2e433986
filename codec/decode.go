// Package codec implements the tag-dispatched ETF decoder and the
// canonical-tag-choice ETF encoder.
//
// Decode is a straightforward recursive descent over the byte stream: each
// compound tag (tuple, list, map) recurses into the element decoder and
// threads the unconsumed tail back up. This is legal for realistic inputs
// per the format's own design; callers decoding untrusted input at
// unbounded nesting depth should pre-validate size before calling Decode.
package codec

import (
	"encoding/binary"
	"math"
	"math/big"
	"unicode/utf8"

	"github.com/arloliu/goetf/compress"
	"github.com/arloliu/goetf/internal/errs"
	"github.com/arloliu/goetf/term"
	"github.com/arloliu/goetf/wire"
)

// Decode parses a single ETF value from data and returns it alongside
// whatever bytes of data were not consumed. A nil opts is equivalent to
// &DecodeOptions{}, the documented defaults.
func Decode(data []byte, opts *DecodeOptions) (any, []byte, error) {
	if opts == nil {
		opts = &DecodeOptions{}
	}

	if len(data) < 1 {
		return nil, nil, errs.New("truncated input: missing version byte")
	}
	if data[0] != wire.Version {
		return nil, nil, errs.New("invalid version byte: expected %d, got %d", wire.Version, data[0])
	}

	rest := data[1:]
	if len(rest) > 0 && wire.Tag(rest[0]) == wire.Compressed {
		return decodeCompressed(rest[1:], opts)
	}

	return decodeTerm(opts, rest)
}

// decodeCompressed handles the envelope introduced by tag 80: a 4-byte
// uncompressed length followed by a zlib-deflated ETF stream that itself
// carries no version prefix.
//
// The envelope is assumed to run to the end of the buffer; a sender that
// appends raw bytes after the compressed blob is not something real
// Erlang distribution produces, and this codec does not attempt to locate
// the end of the deflate stream byte-for-byte within a larger buffer.
func decodeCompressed(body []byte, opts *DecodeOptions) (any, []byte, error) {
	if len(body) < 4 {
		return nil, nil, errs.New("truncated input: compressed envelope missing length field")
	}

	wantLen := binary.BigEndian.Uint32(body[:4])

	inflated, err := compress.NewZlibCodec().Decompress(body[4:])
	if err != nil {
		return nil, nil, errs.Wrap("malformed compressed envelope", err)
	}
	if uint32(len(inflated)) != wantLen {
		return nil, nil, errs.New("compressed envelope length mismatch: header says %d, got %d", wantLen, len(inflated))
	}

	val, _, err := decodeTerm(opts, inflated)
	if err != nil {
		return nil, nil, err
	}

	return val, nil, nil
}

// decodeTerm dispatches on the tag byte at the head of data.
func decodeTerm(opts *DecodeOptions, data []byte) (any, []byte, error) {
	if len(data) < 1 {
		return nil, nil, errs.New("truncated input: missing tag byte")
	}

	tag := wire.Tag(data[0])
	rest := data[1:]

	switch tag {
	case wire.SmallInt:
		return decodeSmallInt(opts, rest)
	case wire.Int:
		return decodeInt(opts, rest)
	case wire.SmallBig:
		return decodeBig(opts, rest, 1)
	case wire.LargeBig:
		return decodeBig(opts, rest, 4)
	case wire.NewFloat:
		return decodeNewFloat(opts, rest)
	case wire.AtomDeprecated:
		return decodeAtomTagged(opts, rest, 2, false)
	case wire.AtomUTF8:
		return decodeAtomTagged(opts, rest, 2, true)
	case wire.SmallAtom:
		return decodeAtomTagged(opts, rest, 1, false)
	case wire.SmallAtomUTF8:
		return decodeAtomTagged(opts, rest, 1, true)
	case wire.StringExt:
		return decodeStringExt(opts, rest)
	case wire.Nil:
		return applyHook(opts, HookList, []any{}, rest)
	case wire.List:
		return decodeList(opts, rest)
	case wire.SmallTuple:
		return decodeTuple(opts, rest, 1)
	case wire.LargeTuple:
		return decodeTuple(opts, rest, 4)
	case wire.Map:
		return decodeMap(opts, rest)
	case wire.Binary:
		return decodeBinary(opts, rest)
	case wire.BitBinary:
		return decodeBitBinary(rest)
	case wire.Pid:
		return decodePid(rest, 1)
	case wire.NewPid:
		return decodePid(rest, 4)
	case wire.NewReference:
		return decodeNewRef(rest, false)
	case wire.NewerReference:
		return decodeNewRef(rest, true)
	case wire.NewFun:
		return decodeNewFun(opts, rest)
	case wire.Export:
		return decodeExport(rest)
	case wire.AtomCacheRef:
		return nil, nil, errs.New("%s is not supported: legacy distribution-only tag", tag)
	default:
		return nil, nil, errs.New("unknown tag: %d (%s)", tag, tag)
	}
}

// applyHook runs the decode_hook registered for t over val, if any, and
// otherwise returns val unchanged. Hook errors propagate as-is.
func applyHook(opts *DecodeOptions, t HookType, val any, rest []byte) (any, []byte, error) {
	if fn, ok := opts.hook(t); ok {
		v2, err := fn(val)
		if err != nil {
			return nil, nil, err
		}

		return v2, rest, nil
	}

	return val, rest, nil
}

func takeBytes(data []byte, n int) (chunk, rest []byte, err error) {
	if len(data) < n {
		return nil, nil, errs.New("truncated input: need %d bytes, have %d", n, len(data))
	}

	return data[:n], data[n:], nil
}

func decodeSmallInt(opts *DecodeOptions, data []byte) (any, []byte, error) {
	b, rest, err := takeBytes(data, 1)
	if err != nil {
		return nil, nil, err
	}

	return applyHook(opts, HookInt, big.NewInt(int64(b[0])), rest)
}

func decodeInt(opts *DecodeOptions, data []byte) (any, []byte, error) {
	b, rest, err := takeBytes(data, 4)
	if err != nil {
		return nil, nil, err
	}

	v := int32(binary.BigEndian.Uint32(b))

	return applyHook(opts, HookInt, big.NewInt(int64(v)), rest)
}

// decodeBig decodes SMALL_BIG_EXT (lenBytes==1) and LARGE_BIG_EXT
// (lenBytes==4): a length field, a sign byte, then that many little-endian
// magnitude bytes.
func decodeBig(opts *DecodeOptions, data []byte, lenBytes int) (any, []byte, error) {
	lb, rest, err := takeBytes(data, lenBytes)
	if err != nil {
		return nil, nil, err
	}

	var n uint64
	if lenBytes == 1 {
		n = uint64(lb[0])
	} else {
		n = uint64(binary.BigEndian.Uint32(lb))
	}

	signByte, rest, err := takeBytes(rest, 1)
	if err != nil {
		return nil, nil, err
	}

	mag, rest, err := takeBytes(rest, int(n))
	if err != nil {
		return nil, nil, err
	}

	return applyHook(opts, HookInt, bigIntFromLE(signByte[0], mag), rest)
}

func decodeNewFloat(opts *DecodeOptions, data []byte) (any, []byte, error) {
	b, rest, err := takeBytes(data, 8)
	if err != nil {
		return nil, nil, err
	}

	bits := binary.BigEndian.Uint64(b)

	return applyHook(opts, HookFloat, math.Float64frombits(bits), rest)
}

// decodeAtomTagged reads a length-prefixed atom body (lenBytes is 1 or 2)
// and, depending on isUTF8, validates it as UTF-8 or treats it as a
// latin-1 byte sequence, then applies the configured atom representation.
func decodeAtomTagged(opts *DecodeOptions, data []byte, lenBytes int, isUTF8 bool) (any, []byte, error) {
	text, rest, err := decodeAtomText(data, lenBytes, isUTF8)
	if err != nil {
		return nil, nil, err
	}

	return finishAtom(opts, text, rest)
}

// decodeAtomText reads the raw length-prefixed atom body without applying
// any decode option; used both by decodeAtomTagged and by the Pid /
// Reference / Fun / Export substructures whose node or module field must
// always be a term.Atom regardless of the caller's atom option.
func decodeAtomText(data []byte, lenBytes int, isUTF8 bool) (string, []byte, error) {
	lb, rest, err := takeBytes(data, lenBytes)
	if err != nil {
		return "", nil, err
	}

	var n int
	if lenBytes == 1 {
		n = int(lb[0])
	} else {
		n = int(binary.BigEndian.Uint16(lb))
	}

	raw, rest, err := takeBytes(rest, n)
	if err != nil {
		return "", nil, err
	}

	if isUTF8 {
		if !utf8.Valid(raw) {
			return "", nil, errs.New("invalid UTF-8 in atom text")
		}

		return string(raw), rest, nil
	}

	return latin1ToString(raw), rest, nil
}

func latin1ToString(raw []byte) string {
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}

	return string(runes)
}

// decodeAtomNode reads an atom term to use as a Pid/Reference/Fun/Export
// node or module field, which must stay a term.Atom regardless of the
// caller's atom decode option and does not run atom_call or decode_hook.
func decodeAtomNode(data []byte) (term.Atom, []byte, error) {
	if len(data) < 1 {
		return "", nil, errs.New("truncated input: expected atom tag for node/module field")
	}

	tag := wire.Tag(data[0])
	rest := data[1:]

	switch tag {
	case wire.AtomDeprecated:
		text, rest, err := decodeAtomText(rest, 2, false)
		return term.Atom(text), rest, err
	case wire.AtomUTF8:
		text, rest, err := decodeAtomText(rest, 2, true)
		return term.Atom(text), rest, err
	case wire.SmallAtom:
		text, rest, err := decodeAtomText(rest, 1, false)
		return term.Atom(text), rest, err
	case wire.SmallAtomUTF8:
		text, rest, err := decodeAtomText(rest, 1, true)
		return term.Atom(text), rest, err
	default:
		return "", nil, errs.New("expected an atom tag for node/module field, got %s", tag)
	}
}

// finishAtom applies the special boolean/undefined coercion, then
// atom_call or the configured AtomMode, then the "atom" decode_hook.
func finishAtom(opts *DecodeOptions, text string, rest []byte) (any, []byte, error) {
	switch text {
	case "true":
		return true, rest, nil
	case "false":
		return false, rest, nil
	case "undefined":
		return term.Undefined, rest, nil
	}

	var val any
	if opts.AtomCall != nil {
		v, err := opts.AtomCall(text)
		if err != nil {
			return nil, nil, err
		}
		val = v
	} else {
		switch opts.Atom {
		case AtomAsStrict:
			val = term.StrictAtom(text)
		case AtomAsString:
			val = text
		case AtomAsBytes:
			val = []byte(text)
		default:
			val = term.Atom(text)
		}
	}

	return applyHook(opts, HookAtom, val, rest)
}

// decodeStringExt reads STRING_EXT's 2-byte length + raw bytes and applies
// the configured ByteString representation.
func decodeStringExt(opts *DecodeOptions, data []byte) (any, []byte, error) {
	lb, rest, err := takeBytes(data, 2)
	if err != nil {
		return nil, nil, err
	}
	n := int(binary.BigEndian.Uint16(lb))

	raw, rest, err := takeBytes(rest, n)
	if err != nil {
		return nil, nil, err
	}

	switch opts.ByteString {
	case ByteStringAsBytes:
		out := make([]byte, n)
		copy(out, raw)
		return applyHook(opts, HookBytes, out, rest)
	case ByteStringAsIntList:
		elems := make([]any, n)
		for i, b := range raw {
			elems[i] = big.NewInt(int64(b))
		}
		return applyHook(opts, HookList, elems, rest)
	default:
		return applyHook(opts, HookString, latin1ToString(raw), rest)
	}
}

// decodeList reads LIST_EXT's 4-byte count, that many elements, and a
// final tail element. A NIL tail means the result is a proper list
// ([]any); any other tail makes it a term.ImproperList.
func decodeList(opts *DecodeOptions, data []byte) (any, []byte, error) {
	lb, rest, err := takeBytes(data, 4)
	if err != nil {
		return nil, nil, err
	}
	n := binary.BigEndian.Uint32(lb)

	elems := make([]any, 0, n)
	for range n {
		var el any
		el, rest, err = decodeTerm(opts, rest)
		if err != nil {
			return nil, nil, err
		}
		elems = append(elems, el)
	}

	if len(rest) >= 1 && wire.Tag(rest[0]) == wire.Nil {
		return applyHook(opts, HookList, elems, rest[1:])
	}

	var tail any
	tail, rest, err = decodeTerm(opts, rest)
	if err != nil {
		return nil, nil, err
	}

	return applyHook(opts, HookList, term.ImproperList{Elements: elems, Tail: tail}, rest)
}

// decodeTuple reads a tuple's arity (lenBytes==1 for SMALL_TUPLE_EXT,
// lenBytes==4 for LARGE_TUPLE_EXT) and that many elements.
func decodeTuple(opts *DecodeOptions, data []byte, lenBytes int) (any, []byte, error) {
	lb, rest, err := takeBytes(data, lenBytes)
	if err != nil {
		return nil, nil, err
	}

	var n uint32
	if lenBytes == 1 {
		n = uint32(lb[0])
	} else {
		n = binary.BigEndian.Uint32(lb)
	}

	elems := make(term.Tuple, 0, n)
	for range n {
		var el any
		el, rest, err = decodeTerm(opts, rest)
		if err != nil {
			return nil, nil, err
		}
		elems = append(elems, el)
	}

	return applyHook(opts, HookTuple, elems, rest)
}

func decodeMap(opts *DecodeOptions, data []byte) (any, []byte, error) {
	lb, rest, err := takeBytes(data, 4)
	if err != nil {
		return nil, nil, err
	}
	n := binary.BigEndian.Uint32(lb)

	pairs := make([]term.Pair, 0, n)
	for range n {
		var key, val any
		key, rest, err = decodeTerm(opts, rest)
		if err != nil {
			return nil, nil, err
		}
		val, rest, err = decodeTerm(opts, rest)
		if err != nil {
			return nil, nil, err
		}
		pairs = append(pairs, term.Pair{Key: key, Value: val})
	}

	return applyHook(opts, HookMap, term.Map{Pairs: pairs}, rest)
}

func decodeBinary(opts *DecodeOptions, data []byte) (any, []byte, error) {
	lb, rest, err := takeBytes(data, 4)
	if err != nil {
		return nil, nil, err
	}
	n := int(binary.BigEndian.Uint32(lb))

	raw, rest, err := takeBytes(rest, n)
	if err != nil {
		return nil, nil, err
	}

	out := make(term.ByteString, n)
	copy(out, raw)

	return applyHook(opts, HookBytes, out, rest)
}

func decodeBitBinary(data []byte) (any, []byte, error) {
	lb, rest, err := takeBytes(data, 4)
	if err != nil {
		return nil, nil, err
	}
	n := int(binary.BigEndian.Uint32(lb))

	tb, rest, err := takeBytes(rest, 1)
	if err != nil {
		return nil, nil, err
	}

	raw, rest, err := takeBytes(rest, n)
	if err != nil {
		return nil, nil, err
	}

	out := make([]byte, n)
	copy(out, raw)

	return term.BitString{Bytes: out, TailBits: tb[0]}, rest, nil
}

// decodePid reads a Pid's node atom, 4-byte id, 4-byte serial, and a
// creation field whose width (1 byte for PID_EXT, 4 bytes for
// NEW_PID_EXT) is given by creationBytes.
func decodePid(data []byte, creationBytes int) (any, []byte, error) {
	node, rest, err := decodeAtomNode(data)
	if err != nil {
		return nil, nil, err
	}

	idb, rest, err := takeBytes(rest, 4)
	if err != nil {
		return nil, nil, err
	}
	serb, rest, err := takeBytes(rest, 4)
	if err != nil {
		return nil, nil, err
	}
	crb, rest, err := takeBytes(rest, creationBytes)
	if err != nil {
		return nil, nil, err
	}

	var creation uint32
	if creationBytes == 1 {
		creation = uint32(crb[0])
	} else {
		creation = binary.BigEndian.Uint32(crb)
	}

	return term.Pid{
		Node:     node,
		ID:       binary.BigEndian.Uint32(idb),
		Serial:   binary.BigEndian.Uint32(serb),
		Creation: creation,
	}, rest, nil
}

// decodeNewRef reads NEW_REFERENCE_EXT (newer==false, 1-byte creation) or
// NEWER_REFERENCE_EXT (newer==true, 4-byte creation): a 2-byte id-word
// count, the node atom, the creation field, then that many 4-byte id
// words.
func decodeNewRef(data []byte, newer bool) (any, []byte, error) {
	lb, rest, err := takeBytes(data, 2)
	if err != nil {
		return nil, nil, err
	}
	n := int(binary.BigEndian.Uint16(lb))

	node, rest, err := decodeAtomNode(rest)
	if err != nil {
		return nil, nil, err
	}

	creationBytes := 1
	if newer {
		creationBytes = 4
	}
	crb, rest, err := takeBytes(rest, creationBytes)
	if err != nil {
		return nil, nil, err
	}
	var creation uint32
	if newer {
		creation = binary.BigEndian.Uint32(crb)
	} else {
		creation = uint32(crb[0])
	}

	id, rest, err := takeBytes(rest, n*4)
	if err != nil {
		return nil, nil, err
	}
	idCopy := make([]byte, len(id))
	copy(idCopy, id)

	return term.Reference{Node: node, Creation: creation, ID: idCopy, Newer: newer}, rest, nil
}

// decodeIntTerm decodes a generic integer-tagged term and returns it as an
// int64, for substructure fields (old-index, old-uniq, Export arity) that
// the wire format encodes as a plain integer term rather than a raw field.
func decodeIntTerm(opts *DecodeOptions, data []byte) (int64, []byte, error) {
	if opts == nil {
		opts = &DecodeOptions{}
	}

	val, rest, err := decodeTerm(opts, data)
	if err != nil {
		return 0, nil, err
	}

	z, ok := val.(*big.Int)
	if !ok {
		return 0, nil, errs.New("expected an integer term, got %T", val)
	}

	return z.Int64(), rest, nil
}

// decodeNewFun reads NEW_FUN_EXT: a 4-byte total size (covering the size
// field itself plus everything through the last free variable, but not
// the tag byte; unused beyond framing validation), arity, a 16-byte uniq
// digest, a closure index, a free-variable count, the owning module
// atom, the old index/uniq pair, the owning pid, and finally that many
// free variable terms.
func decodeNewFun(opts *DecodeOptions, data []byte) (any, []byte, error) {
	sizeB, rest, err := takeBytes(data, 4)
	if err != nil {
		return nil, nil, err
	}
	size := binary.BigEndian.Uint32(sizeB)
	if uint64(size) > uint64(4+len(rest)) {
		return nil, nil, errs.New("truncated input: NEW_FUN_EXT declares size %d beyond remaining buffer", size)
	}

	arityB, rest, err := takeBytes(rest, 1)
	if err != nil {
		return nil, nil, err
	}

	uniqB, rest, err := takeBytes(rest, 16)
	if err != nil {
		return nil, nil, err
	}
	var uniq [16]byte
	copy(uniq[:], uniqB)

	indexB, rest, err := takeBytes(rest, 4)
	if err != nil {
		return nil, nil, err
	}

	freeCountB, rest, err := takeBytes(rest, 4)
	if err != nil {
		return nil, nil, err
	}
	freeCount := binary.BigEndian.Uint32(freeCountB)

	module, rest, err := decodeAtomNode(rest)
	if err != nil {
		return nil, nil, err
	}

	// oldIndex and oldUniq are part of the Fun's own wire shape, not caller
	// data, so they bypass DecodeHook the same way decodeExport's arity does.
	oldIndex, rest, err := decodeIntTerm(nil, rest)
	if err != nil {
		return nil, nil, err
	}

	oldUniq, rest, err := decodeIntTerm(nil, rest)
	if err != nil {
		return nil, nil, err
	}

	pidVal, rest, err := decodeTerm(opts, rest)
	if err != nil {
		return nil, nil, err
	}
	pid, ok := pidVal.(term.Pid)
	if !ok {
		return nil, nil, errs.New("expected a pid in NEW_FUN_EXT, got %T", pidVal)
	}

	freeVars := make([]any, 0, freeCount)
	for range freeCount {
		var fv any
		fv, rest, err = decodeTerm(opts, rest)
		if err != nil {
			return nil, nil, err
		}
		freeVars = append(freeVars, fv)
	}

	fun := term.Fun{
		Arity:    arityB[0],
		Uniq:     uniq,
		Index:    binary.BigEndian.Uint32(indexB),
		Module:   module,
		OldIndex: uint32(oldIndex),
		OldUniq:  uint32(oldUniq),
		Pid:      pid,
		FreeVars: freeVars,
	}

	return applyHook(opts, HookFun, fun, rest)
}

// decodeExport reads EXPORT_EXT: module atom, function atom, arity
// small-int.
func decodeExport(data []byte) (any, []byte, error) {
	module, rest, err := decodeAtomNode(data)
	if err != nil {
		return nil, nil, err
	}
	function, rest, err := decodeAtomNode(rest)
	if err != nil {
		return nil, nil, err
	}
	arity, rest, err := decodeIntTerm(nil, rest)
	if err != nil {
		return nil, nil, err
	}

	return term.Export{Module: module, Function: function, Arity: uint8(arity)}, rest, nil
}
