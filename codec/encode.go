package codec

import (
	"encoding/binary"
	"math"
	"math/big"

	"github.com/arloliu/goetf/internal/errs"
	"github.com/arloliu/goetf/internal/pool"
	"github.com/arloliu/goetf/term"
	"github.com/arloliu/goetf/wire"
)

// Encode serializes value into a versioned ETF byte stream. A nil opts is
// equivalent to &EncodeOptions{}: no hooks, no compression.
func Encode(value any, opts *EncodeOptions) ([]byte, error) {
	if opts == nil {
		opts = &EncodeOptions{}
	}

	buf := pool.GetTermBuffer()
	defer pool.PutTermBuffer(buf)

	e := &encoder{opts: opts, buf: buf}
	if err := e.encodeValue(value); err != nil {
		return nil, err
	}

	body := append([]byte(nil), buf.Bytes()...)

	if !opts.Compressed {
		out := make([]byte, 0, 1+len(body))
		out = append(out, wire.Version)
		out = append(out, body...)

		return out, nil
	}

	compressed, err := opts.compressor().Compress(body)
	if err != nil {
		return nil, errs.Wrap("compress envelope", err)
	}

	out := make([]byte, 0, 1+1+4+len(compressed))
	out = append(out, wire.Version, byte(wire.Compressed))

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	out = append(out, lenBuf[:]...)
	out = append(out, compressed...)

	return out, nil
}

type encoder struct {
	opts *EncodeOptions
	buf  *pool.ByteBuffer
}

func (e *encoder) writeByte(b byte)     { e.buf.MustWrite([]byte{b}) }
func (e *encoder) writeBytes(b []byte)  { e.buf.MustWrite(b) }
func (e *encoder) writeUint16(v uint16) { var b [2]byte; binary.BigEndian.PutUint16(b[:], v); e.writeBytes(b[:]) }
func (e *encoder) writeUint32(v uint32) { var b [4]byte; binary.BigEndian.PutUint32(b[:], v); e.writeBytes(b[:]) }

// encodeValue is the hook-aware entry point for any value, including
// nested tuple/list/map elements. It resolves the value's logical type,
// applies a registered per-type hook or, failing that, a term.Marshaler
// implementation or catch_all hook, and finally falls back to struct
// introspection. A per-type hook's result and the struct fallback are
// handed to emit, which does the actual tag-choosing without re-running any
// hook on the value itself — so a per-type hook whose output needs further
// hook processing must do that itself. A term.Marshaler's or catch_all
// hook's result goes back through encodeValue.
func (e *encoder) encodeValue(v any) error {
	if t, recognized := logicalType(v); recognized {
		if hook, present := e.opts.hook(t); present {
			replacement, err := hook(v)
			if err != nil {
				return err
			}

			return e.emit(replacement)
		}

		return e.emit(v)
	}

	if m, ok := v.(term.Marshaler); ok {
		replacement, err := m.MarshalETF()
		if err != nil {
			return err
		}

		return e.encodeValue(replacement)
	}

	if hook, present := e.opts.hook(HookCatchAll); present {
		replacement, err := hook(v)
		if err != nil {
			return err
		}

		return e.encodeValue(replacement)
	}

	fallback, err := structFallback(v)
	if err != nil {
		return err
	}

	return e.emit(fallback)
}

// emit performs the canonical tag-choice encoding for a value of known (or
// hook-replaced) shape, with no further hook or fallback processing.
func (e *encoder) emit(v any) error {
	switch val := v.(type) {
	case nil:
		return e.emitAtomText("undefined")
	case term.UndefinedType:
		return e.emitAtomText("undefined")
	case bool:
		if val {
			return e.emitAtomText("true")
		}

		return e.emitAtomText("false")
	case term.Atom:
		return e.emitAtomText(string(val))
	case term.StrictAtom:
		return e.emitAtomText(string(val))
	case string:
		return e.emitString(val)
	case term.ByteString:
		return e.emitBinary([]byte(val))
	case []byte:
		return e.emitBinary(val)
	case term.BitString:
		return e.emitBitString(val)
	case term.Tuple:
		return e.emitTuple([]any(val))
	case []any:
		return e.emitList(val, nil)
	case term.ImproperList:
		return e.emitList(val.Elements, val.Tail)
	case term.Map:
		return e.emitMap(val)
	case term.Pid:
		return e.emitPid(val)
	case term.Reference:
		return e.emitReference(val)
	case term.Fun:
		return e.emitFun(val)
	case term.Export:
		return e.emitExport(val)
	case float32:
		return e.emitFloat(float64(val))
	case float64:
		return e.emitFloat(val)
	default:
		if z, ok := toBigInt(v); ok {
			return e.emitInt(z)
		}

		return errs.New("cannot encode value of type %T", v)
	}
}

func (e *encoder) emitNil() error {
	e.writeByte(byte(wire.Nil))
	return nil
}

// emitAtomText chooses SMALL_ATOM_UTF8_EXT or ATOM_UTF8_EXT by length.
func (e *encoder) emitAtomText(text string) error {
	b := []byte(text)

	switch {
	case len(b) <= wire.MaxSmallAtomBytes:
		e.writeByte(byte(wire.SmallAtomUTF8))
		e.writeByte(byte(len(b)))
		e.writeBytes(b)
	case len(b) <= wire.MaxAtomBytes:
		e.writeByte(byte(wire.AtomUTF8))
		e.writeUint16(uint16(len(b)))
		e.writeBytes(b)
	default:
		return errs.New("atom %q exceeds the maximum encodable length", text)
	}

	return nil
}

// emitString applies the text policy: a string whose runes are all
// latin-1 representable (0..255) and whose length fits STRING_EXT's
// 2-byte field encodes as STRING_EXT (one raw byte per rune); anything
// else becomes a LIST_EXT of codepoint integers.
func (e *encoder) emitString(s string) error {
	runes := []rune(s)

	if len(runes) == 0 {
		return e.emitNil()
	}

	allLatin1 := true
	for _, r := range runes {
		if r < 0 || r > 255 {
			allLatin1 = false
			break
		}
	}

	if allLatin1 && len(runes) <= wire.MaxStringExtLen {
		raw := make([]byte, len(runes))
		for i, r := range runes {
			raw[i] = byte(r)
		}

		e.writeByte(byte(wire.StringExt))
		e.writeUint16(uint16(len(raw)))
		e.writeBytes(raw)

		return nil
	}

	e.writeByte(byte(wire.List))
	e.writeUint32(uint32(len(runes)))
	for _, r := range runes {
		if err := e.emitInt(big.NewInt(int64(r))); err != nil {
			return err
		}
	}

	return e.emitNil()
}

func (e *encoder) emitBinary(b []byte) error {
	e.writeByte(byte(wire.Binary))
	e.writeUint32(uint32(len(b)))
	e.writeBytes(b)

	return nil
}

func (e *encoder) emitBitString(bs term.BitString) error {
	if bs.TailBits < 1 || bs.TailBits > 8 {
		return errs.New("bit-string tail_bits must be in 1..=8, got %d", bs.TailBits)
	}

	if bs.TailBits == 8 {
		return e.emitBinary(bs.Bytes)
	}

	e.writeByte(byte(wire.BitBinary))
	e.writeUint32(uint32(len(bs.Bytes)))
	e.writeByte(bs.TailBits)
	e.writeBytes(bs.Bytes)

	return nil
}

func (e *encoder) emitTuple(elems []any) error {
	n := len(elems)
	if n <= wire.MaxSmallTupleArity {
		e.writeByte(byte(wire.SmallTuple))
		e.writeByte(byte(n))
	} else {
		e.writeByte(byte(wire.LargeTuple))
		e.writeUint32(uint32(n))
	}

	for _, el := range elems {
		if err := e.encodeValue(el); err != nil {
			return err
		}
	}

	return nil
}

// emitList handles both proper lists (tail == nil) and improper ones. A
// proper list of 0 elements is NIL_EXT; a proper list of all-integers-in-
// 0..255 within STRING_EXT's length limit collapses to STRING_EXT;
// anything else is LIST_EXT with an explicit tail term (NIL_EXT for
// proper lists, whatever was supplied for improper ones).
func (e *encoder) emitList(elems []any, tail any) error {
	proper := tail == nil

	if proper {
		if len(elems) == 0 {
			return e.emitNil()
		}

		if len(elems) <= wire.MaxStringExtLen {
			if raw, ok := allSmallInts(elems); ok {
				e.writeByte(byte(wire.StringExt))
				e.writeUint16(uint16(len(raw)))
				e.writeBytes(raw)

				return nil
			}
		}
	}

	e.writeByte(byte(wire.List))
	e.writeUint32(uint32(len(elems)))
	for _, el := range elems {
		if err := e.encodeValue(el); err != nil {
			return err
		}
	}

	if proper {
		return e.emitNil()
	}

	return e.encodeValue(tail)
}

func (e *encoder) emitMap(m term.Map) error {
	e.writeByte(byte(wire.Map))
	e.writeUint32(uint32(len(m.Pairs)))

	for _, p := range m.Pairs {
		if err := e.encodeValue(p.Key); err != nil {
			return err
		}
		if err := e.encodeValue(p.Value); err != nil {
			return err
		}
	}

	return nil
}

// emitPid always emits NEW_PID_EXT (4-byte creation); PID_EXT's 1-byte
// creation field is decode-only, matching the spec's canonical-on-encode
// requirement.
func (e *encoder) emitPid(p term.Pid) error {
	e.writeByte(byte(wire.NewPid))
	if err := e.emitAtomText(string(p.Node)); err != nil {
		return err
	}
	e.writeUint32(p.ID)
	e.writeUint32(p.Serial)
	e.writeUint32(p.Creation)

	return nil
}

// emitReference chooses NEWER_REFERENCE_EXT (4-byte creation) when Newer
// is set, else NEW_REFERENCE_EXT (1-byte creation).
func (e *encoder) emitReference(r term.Reference) error {
	if len(r.ID)%4 != 0 {
		return errs.New("reference id must be a multiple of 4 bytes, got %d", len(r.ID))
	}
	n := len(r.ID) / 4

	if r.Newer {
		e.writeByte(byte(wire.NewerReference))
		e.writeUint16(uint16(n))
		if err := e.emitAtomText(string(r.Node)); err != nil {
			return err
		}
		e.writeUint32(r.Creation)
	} else {
		e.writeByte(byte(wire.NewReference))
		e.writeUint16(uint16(n))
		if err := e.emitAtomText(string(r.Node)); err != nil {
			return err
		}
		e.writeByte(byte(r.Creation))
	}

	e.writeBytes(r.ID)

	return nil
}

// emitFun reproduces NEW_FUN_EXT's layout from a term.Fun's fields. The
// body is assembled in a scratch buffer first so its length can be
// written into the leading size field.
func (e *encoder) emitFun(f term.Fun) error {
	body := pool.GetTermBuffer()
	defer pool.PutTermBuffer(body)

	sub := &encoder{opts: e.opts, buf: body}
	sub.writeByte(f.Arity)
	sub.writeBytes(f.Uniq[:])
	sub.writeUint32(f.Index)
	sub.writeUint32(uint32(len(f.FreeVars)))

	if err := sub.emitAtomText(string(f.Module)); err != nil {
		return err
	}
	if err := sub.emitInt(big.NewInt(int64(f.OldIndex))); err != nil {
		return err
	}
	if err := sub.emitInt(big.NewInt(int64(f.OldUniq))); err != nil {
		return err
	}
	if err := sub.emitPid(f.Pid); err != nil {
		return err
	}
	for _, fv := range f.FreeVars {
		if err := sub.encodeValue(fv); err != nil {
			return err
		}
	}

	e.writeByte(byte(wire.NewFun))
	e.writeUint32(uint32(4 + body.Len())) // size covers the size field itself plus the body, not the tag byte
	e.writeBytes(body.Bytes())

	return nil
}

func (e *encoder) emitExport(ex term.Export) error {
	e.writeByte(byte(wire.Export))
	if err := e.emitAtomText(string(ex.Module)); err != nil {
		return err
	}
	if err := e.emitAtomText(string(ex.Function)); err != nil {
		return err
	}

	return e.emitInt(big.NewInt(int64(ex.Arity)))
}

func (e *encoder) emitFloat(f float64) error {
	e.writeByte(byte(wire.NewFloat))

	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(f))
	e.writeBytes(b[:])

	return nil
}

// emitInt chooses SMALL_INTEGER_EXT, INTEGER_EXT, SMALL_BIG_EXT, or
// LARGE_BIG_EXT by magnitude, the narrowest tag that fits.
func (e *encoder) emitInt(z *big.Int) error {
	switch {
	case fitsSmallInt(z):
		e.writeByte(byte(wire.SmallInt))
		e.writeByte(byte(z.Int64()))
	case fitsInt32(z):
		e.writeByte(byte(wire.Int))

		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(int32(z.Int64())))
		e.writeBytes(b[:])
	default:
		sign, mag := bigIntToLE(z)
		if len(mag) <= wire.MaxSmallBigBytes {
			e.writeByte(byte(wire.SmallBig))
			e.writeByte(byte(len(mag)))
			e.writeByte(sign)
			e.writeBytes(mag)
		} else {
			e.writeByte(byte(wire.LargeBig))
			e.writeUint32(uint32(len(mag)))
			e.writeByte(sign)
			e.writeBytes(mag)
		}
	}

	return nil
}
