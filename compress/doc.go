// Package compress implements the compressed envelope ETF wraps around a
// term when Erlang's term_to_binary is called with the `compressed` option.
//
// # Overview
//
// After the version byte (131), a tag-80 envelope carries:
//
//	[80][uncompressed-length:4 bytes big-endian][zlib-deflated payload]
//
// The deflated payload is itself an ETF byte stream, minus its own version
// prefix. Decode always accepts this envelope regardless of how the value
// was produced; encode never emits it unless a caller opts in, since the
// spec requires compression to default to off.
//
// # Algorithms
//
// Zlib is the only algorithm the wire format defines, so it is the only one
// wired into the decoder's envelope handling, which calls NewZlibCodec
// directly. NoOpCodec is the pass-through Codec that NewCodec returns for
// None; the encoder only reaches for a Codec when compression is enabled.
//
// # Thread Safety
//
// Both codecs are stateless and safe for concurrent use.
package compress
