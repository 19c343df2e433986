package compress

import "fmt"

// Compressor compresses a byte payload, typically the already-encoded body
// of an ETF compressed envelope (the bytes that follow the 4-byte
// uncompressed-length field after tag 80).
type Compressor interface {
	// Compress compresses data and returns the compressed result. The
	// input is not modified; ZlibCodec returns a newly allocated slice,
	// while NoOpCodec returns data itself.
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses Compressor. ZlibCodec validates the input's
// framing and returns an error if the data is corrupted or is not a zlib
// stream; NoOpCodec passes any input through.
type Decompressor interface {
	// Decompress decompresses data and returns the original payload. The
	// input is not modified; ZlibCodec returns a newly allocated slice,
	// while NoOpCodec returns data itself.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// Algorithm identifies which Codec implementation a caller wants.
type Algorithm uint8

const (
	// None bypasses compression entirely (NoOpCodec).
	None Algorithm = iota
	// Zlib is the only algorithm the wire format itself defines: the
	// compressed envelope introduced by tag 80 is always a zlib stream,
	// on both encode and decode.
	Zlib
)

// NewCodec is a factory that returns the Codec implementation for algo.
func NewCodec(algo Algorithm) (Codec, error) {
	switch algo {
	case None:
		return NewNoOpCodec(), nil
	case Zlib:
		return NewZlibCodec(), nil
	default:
		return nil, fmt.Errorf("compress: unsupported algorithm %d", algo)
	}
}
