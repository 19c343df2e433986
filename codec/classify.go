package codec

import (
	"math/big"
	"reflect"

	"github.com/arloliu/goetf/internal/errs"
	"github.com/arloliu/goetf/term"
)

// logicalType reports the HookType a value's Go type corresponds to, for
// the encoder's per-type hook lookup. The second return is false for any
// value with no recognized variant (a caller-defined struct, typically).
func logicalType(v any) (HookType, bool) {
	switch v.(type) {
	case *big.Int, big.Int,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return HookInt, true
	case float32, float64:
		return HookFloat, true
	case term.Atom, term.StrictAtom, bool, term.UndefinedType, nil:
		return HookAtom, true
	case string:
		return HookString, true
	case term.ByteString, []byte, term.BitString:
		return HookBytes, true
	case term.Tuple:
		return HookTuple, true
	case []any, term.ImproperList:
		return HookList, true
	case term.Map:
		return HookMap, true
	case term.Pid:
		return HookPid, true
	case term.Reference:
		return HookReference, true
	case term.Fun, term.Export:
		return HookFun, true
	default:
		return "", false
	}
}

// toBigInt normalizes any Go integer kind (and *big.Int/big.Int
// themselves) to a *big.Int, for the encoder's canonical tag-choice logic
// and for collapsing integer lists to STRING_EXT.
func toBigInt(v any) (*big.Int, bool) {
	switch n := v.(type) {
	case *big.Int:
		return n, true
	case big.Int:
		z := n
		return &z, true
	case int:
		return big.NewInt(int64(n)), true
	case int8:
		return big.NewInt(int64(n)), true
	case int16:
		return big.NewInt(int64(n)), true
	case int32:
		return big.NewInt(int64(n)), true
	case int64:
		return big.NewInt(n), true
	case uint:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint8:
		return big.NewInt(int64(n)), true
	case uint16:
		return big.NewInt(int64(n)), true
	case uint32:
		return big.NewInt(int64(n)), true
	case uint64:
		return new(big.Int).SetUint64(n), true
	default:
		return nil, false
	}
}

// allSmallInts reports whether every element of elems is an integer in
// 0..255, returning their raw byte values if so. Used to decide whether a
// proper list collapses to STRING_EXT per the canonical encoding rule.
func allSmallInts(elems []any) ([]byte, bool) {
	out := make([]byte, len(elems))
	for i, el := range elems {
		z, ok := toBigInt(el)
		if !ok || !fitsSmallInt(z) {
			return nil, false
		}
		out[i] = byte(z.Int64())
	}

	return out, true
}

// structFallback builds the Tuple(ByteString(class name), Map(fields))
// representation the encoder emits for a value with no known variant, no
// term.Marshaler implementation, and no matching catch_all hook. Field
// names come from an `etf` struct tag when present, else the exported Go
// field name verbatim.
func structFallback(v any) (any, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, errs.New("cannot encode nil pointer: no known variant, hook, or struct fields")
		}
		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Struct {
		return nil, errs.New("cannot encode value of type %T: no known variant, hook, or struct fields", v)
	}

	rt := rv.Type()
	pairs := make([]term.Pair, 0, rv.NumField())
	for i := range rv.NumField() {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}

		name := f.Name
		if tag, ok := f.Tag.Lookup("etf"); ok && tag != "" {
			name = tag
		}

		pairs = append(pairs, term.Pair{Key: term.ByteString(name), Value: rv.Field(i).Interface()})
	}

	return term.Tuple{term.ByteString(rt.Name()), term.Map{Pairs: pairs}}, nil
}
