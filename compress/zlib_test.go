package compress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZlibCodec_RoundTrip(t *testing.T) {
	codec := NewZlibCodec()

	original := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog ", 20))

	compressed, err := codec.Compress(original)
	require.NoError(t, err)
	require.Less(t, len(compressed), len(original))

	restored, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, original, restored)
}

func TestZlibCodec_EmptyInput(t *testing.T) {
	codec := NewZlibCodec()

	compressed, err := codec.Compress(nil)
	require.NoError(t, err)

	restored, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Empty(t, restored)
}

func TestZlibCodec_DecompressRejectsGarbage(t *testing.T) {
	codec := NewZlibCodec()

	_, err := codec.Decompress([]byte{1, 2, 3, 4})
	require.Error(t, err)
}

func TestNoOpCodec_PassesThroughUnchanged(t *testing.T) {
	codec := NewNoOpCodec()
	data := []byte("passthrough")

	compressed, err := codec.Compress(data)
	require.NoError(t, err)
	require.Equal(t, data, compressed)

	restored, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, restored)
}

func TestNewCodec_Factory(t *testing.T) {
	c, err := NewCodec(Zlib)
	require.NoError(t, err)
	require.IsType(t, ZlibCodec{}, c)

	c, err = NewCodec(None)
	require.NoError(t, err)
	require.IsType(t, NoOpCodec{}, c)

	_, err = NewCodec(Algorithm(99))
	require.Error(t, err)
}
