package compress

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/arloliu/goetf/internal/pool"
)

// ZlibCodec implements the only compression algorithm the ETF wire format
// itself defines. Erlang's `term_to_binary(Term, [compressed])` wraps the
// uncompressed encoding in a zlib stream; decode must accept that stream
// whether or not the caller asked the encoder to produce one.
//
// It uses klauspost/compress's zlib implementation rather than the standard
// library's: same stream format and API, faster on both directions.
type ZlibCodec struct {
	// Level is the deflate compression level passed to zlib.NewWriterLevel.
	// NewZlibCodec sets it to zlib.DefaultCompression; the zero value, 0, is
	// zlib.NoCompression.
	Level int
}

var _ Codec = ZlibCodec{}

// NewZlibCodec creates a zlib codec at the default compression level.
func NewZlibCodec() ZlibCodec {
	return ZlibCodec{Level: zlib.DefaultCompression}
}

// NewZlibCodecLevel creates a zlib codec at an explicit compression level,
// per the levels zlib.NewWriterLevel accepts (zlib.NoCompression through
// zlib.BestCompression).
func NewZlibCodecLevel(level int) ZlibCodec {
	return ZlibCodec{Level: level}
}

// Compress deflates data into a zlib stream.
func (c ZlibCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, err := zlib.NewWriterLevel(&buf, c.Level)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress inflates a zlib stream back to its original bytes.
//
// Inflated ETF payloads can be considerably larger than the individual
// encoded terms the non-compressed path handles, so the scratch buffer
// comes from the envelope pool rather than the per-term pool.
func (c ZlibCodec) Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	buf := pool.GetEnvelopeBuffer()
	defer pool.PutEnvelopeBuffer(buf)

	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}

	return append([]byte(nil), buf.Bytes()...), nil
}
