package codec

import (
	"math/big"
	"testing"

	"github.com/arloliu/goetf/term"
	"github.com/stretchr/testify/require"
)

func TestEncode_IntegerTagBoundaries(t *testing.T) {
	cases := []struct {
		name string
		in   *big.Int
		want []byte
	}{
		{"zero", big.NewInt(0), []byte{131, 97, 0}},
		{"small-max", big.NewInt(255), []byte{131, 97, 255}},
		{"int-min-boundary", big.NewInt(256), []byte{131, 98, 0, 0, 1, 0}},
		{"int32-max", big.NewInt(1<<31 - 1), []byte{131, 98, 0x7f, 0xff, 0xff, 0xff}},
		{"small-big-boundary", new(big.Int).Lsh(big.NewInt(1), 31), []byte{131, 110, 4, 0, 0, 0, 0, 128}},
		{
			"2^64",
			new(big.Int).Lsh(big.NewInt(1), 64),
			[]byte{131, 110, 9, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Encode(c.in, nil)
			require.NoError(t, err)
			require.Equal(t, c.want, got)
		})
	}
}

func TestEncode_NegativeInteger(t *testing.T) {
	got, err := Encode(big.NewInt(-1), nil)
	require.NoError(t, err)
	require.Equal(t, []byte{131, 98, 0xff, 0xff, 0xff, 0xff}, got)
}

func TestEncode_StringASCIIUsesStringExt(t *testing.T) {
	got, err := Encode("hello", nil)
	require.NoError(t, err)
	require.Equal(t, []byte{131, 107, 0, 5, 'h', 'e', 'l', 'l', 'o'}, got)
}

func TestEncode_StringNonLatin1UsesCodepointList(t *testing.T) {
	got, err := Encode("ΔΩ", nil) // "ΔΩ"
	require.NoError(t, err)

	want := []byte{131, 108, 0, 0, 0, 2, 98, 0, 0, 3, 148, 98, 0, 0, 3, 169, 106}
	require.Equal(t, want, got)
}

func TestEncode_EmptyStringIsNil(t *testing.T) {
	got, err := Encode("", nil)
	require.NoError(t, err)
	require.Equal(t, []byte{131, 106}, got)
}

func TestEncode_AtomChoosesSmallAtomUTF8(t *testing.T) {
	got, err := Encode(term.Atom("ok"), nil)
	require.NoError(t, err)
	require.Equal(t, []byte{131, 119, 2, 'o', 'k'}, got)
}

func TestEncode_BooleanAndUndefined(t *testing.T) {
	got, err := Encode(true, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{131, 119, 4, 't', 'r', 'u', 'e'}, got)

	got, err = Encode(false, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{131, 119, 5, 'f', 'a', 'l', 's', 'e'}, got)

	got, err = Encode(term.Undefined, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{131, 119, 9, 'u', 'n', 'd', 'e', 'f', 'i', 'n', 'e', 'd'}, got)

	got, err = Encode(nil, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{131, 119, 9, 'u', 'n', 'd', 'e', 'f', 'i', 'n', 'e', 'd'}, got)
}

func TestEncode_TupleOneOk(t *testing.T) {
	got, err := Encode(term.Tuple{big.NewInt(1), term.Atom("ok")}, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{131, 104, 2, 97, 1, 119, 2, 'o', 'k'}, got)
}

func TestEncode_EmptyTupleAndList(t *testing.T) {
	got, err := Encode(term.Tuple{}, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{131, 104, 0}, got)

	got, err = Encode([]any{}, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{131, 106}, got)
}

func TestEncode_MapPreservesOrder(t *testing.T) {
	m := term.Map{Pairs: []term.Pair{
		{Key: big.NewInt(1), Value: big.NewInt(2)},
		{Key: term.Atom("ok"), Value: term.Atom("error")},
	}}

	got, err := Encode(m, nil)
	require.NoError(t, err)

	want := []byte{
		131, 116, 0, 0, 0, 2,
		97, 1, 97, 2,
		119, 2, 'o', 'k', 119, 5, 'e', 'r', 'r', 'o', 'r',
	}
	require.Equal(t, want, got)
}

func TestEncode_ByteStringIsBinaryExt(t *testing.T) {
	got, err := Encode(term.ByteString("hi"), nil)
	require.NoError(t, err)
	require.Equal(t, []byte{131, 109, 0, 0, 0, 2, 'h', 'i'}, got)
}

func TestEncode_BitStringFullByteIsBinaryExt(t *testing.T) {
	got, err := Encode(term.BitString{Bytes: []byte{0xff}, TailBits: 8}, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{131, 109, 0, 0, 0, 1, 0xff}, got)
}

func TestEncode_BitStringPartialByte(t *testing.T) {
	got, err := Encode(term.BitString{Bytes: []byte{0xf0}, TailBits: 4}, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{131, 77, 0, 0, 0, 1, 4, 0xf0}, got)
}

func TestEncode_ListOfSmallIntsCollapsesToStringExt(t *testing.T) {
	got, err := Encode([]any{big.NewInt(104), big.NewInt(105)}, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{131, 107, 0, 2, 104, 105}, got)
}

func TestEncode_ImproperList(t *testing.T) {
	got, err := Encode(term.ImproperList{
		Elements: []any{big.NewInt(1)},
		Tail:     big.NewInt(2),
	}, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{131, 108, 0, 0, 0, 1, 97, 1, 97, 2}, got)
}

func TestEncode_PidAlwaysNewPidExt(t *testing.T) {
	got, err := Encode(term.Pid{Node: "node", ID: 7, Serial: 0, Creation: 3}, nil)
	require.NoError(t, err)

	want := []byte{
		131, 88,
		119, 4, 'n', 'o', 'd', 'e',
		0, 0, 0, 7,
		0, 0, 0, 0,
		0, 0, 0, 3,
	}
	require.Equal(t, want, got)
}

func TestEncode_RoundTripThroughDecode(t *testing.T) {
	values := []any{
		big.NewInt(0),
		big.NewInt(255),
		big.NewInt(256),
		new(big.Int).Lsh(big.NewInt(1), 64),
		term.Atom("ok"),
		"hello",
		term.ByteString("bin"),
		term.Tuple{big.NewInt(1), term.Atom("ok")},
		[]any{big.NewInt(1), term.Atom("ok")},
		term.Map{Pairs: []term.Pair{{Key: big.NewInt(1), Value: big.NewInt(2)}}},
		3.5,
	}

	for _, v := range values {
		encoded, err := Encode(v, nil)
		require.NoError(t, err)

		decoded, tail, err := Decode(encoded, nil)
		require.NoError(t, err)
		require.Empty(t, tail)
		require.Equal(t, v, decoded)
	}
}

func TestEncode_EncodeHookPerType(t *testing.T) {
	opts, err := NewEncodeOptions(WithEncodeHook(HookInt, func(v any) (any, error) {
		return term.Atom("replaced"), nil
	}))
	require.NoError(t, err)

	got, err := Encode(big.NewInt(42), opts)
	require.NoError(t, err)
	require.Equal(t, []byte{131, 119, 8, 'r', 'e', 'p', 'l', 'a', 'c', 'e', 'd'}, got)
}

func TestEncode_MemberHookPrecedesCatchAll(t *testing.T) {
	opts, err := NewEncodeOptions(WithCatchAllHook(func(v any) (any, error) {
		t.Fatal("catch_all hook should not run when MarshalETF is implemented")
		return nil, nil
	}))
	require.NoError(t, err)

	got, err := Encode(marshalerValue{}, opts)
	require.NoError(t, err)
	require.Equal(t, []byte{131, 119, 2, 'o', 'k'}, got)
}

type marshalerValue struct{}

func (marshalerValue) MarshalETF() (any, error) { return term.Atom("ok"), nil }

func TestEncode_CatchAllHookWhenNoMemberHook(t *testing.T) {
	opts, err := NewEncodeOptions(WithCatchAllHook(func(v any) (any, error) {
		return term.Atom("caught"), nil
	}))
	require.NoError(t, err)

	got, err := Encode(struct{ X int }{X: 1}, opts)
	require.NoError(t, err)
	require.Equal(t, []byte{131, 119, 6, 'c', 'a', 'u', 'g', 'h', 't'}, got)
}

func TestEncode_StructFallbackWithNoHook(t *testing.T) {
	type Point struct {
		X int
		Y int
	}

	got, err := Encode(Point{X: 1, Y: 2}, nil)
	require.NoError(t, err)

	want, err := Encode(term.Tuple{
		term.ByteString("Point"),
		term.Map{Pairs: []term.Pair{
			{Key: term.ByteString("X"), Value: 1},
			{Key: term.ByteString("Y"), Value: 2},
		}},
	}, nil)
	require.NoError(t, err)

	require.Equal(t, want, got)
}

func TestEncode_CompressedEnvelopeDecodesToSameValue(t *testing.T) {
	opts, err := NewEncodeOptions(WithCompression(true))
	require.NoError(t, err)

	compressed, err := Encode(term.Atom("ok"), opts)
	require.NoError(t, err)
	require.Equal(t, byte(80), compressed[1])

	val, _, err := Decode(compressed, nil)
	require.NoError(t, err)
	require.Equal(t, term.Atom("ok"), val)
}

func TestEncode_UnrepresentableValueErrors(t *testing.T) {
	_, err := Encode(make(chan int), nil)
	require.Error(t, err)
}
