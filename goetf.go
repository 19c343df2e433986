// Package goetf is a bidirectional codec for the Erlang External Term
// Format (ETF): the tagged binary serialization Erlang/Elixir nodes use
// to exchange values.
//
// Decode parses a byte stream into a Go value plus whatever bytes were
// left unconsumed; Encode does the reverse, choosing the most compact
// legal wire tag for each value. Both accept functional options from the
// codec subpackage to control atom/byte-string representation on decode
// and custom type hooks on either direction.
//
// The decoder, encoder, and value model live in the term, wire, codec,
// and compress subpackages; this package is a thin re-export for callers
// who don't need to reach into those directly.
package goetf

import (
	"github.com/arloliu/goetf/codec"
	"github.com/arloliu/goetf/internal/errs"
)

// CodecError is the single error kind Decode and Encode return for any
// malformed input or unrepresentable value. Hook errors are the
// exception: they propagate from a caller's hook unwrapped.
type CodecError = errs.CodecError

// DecodeOption configures a Decode call. See the codec package for the
// full set of With* constructors.
type DecodeOption = codec.DecodeOption

// EncodeOption configures an Encode call. See the codec package for the
// full set of With* constructors.
type EncodeOption = codec.EncodeOption

// Decode parses a single ETF value from data, returning it alongside any
// unconsumed trailing bytes.
func Decode(data []byte, opts ...DecodeOption) (any, []byte, error) {
	o, err := codec.NewDecodeOptions(opts...)
	if err != nil {
		return nil, nil, err
	}

	return codec.Decode(data, o)
}

// Encode serializes value into a versioned ETF byte stream.
func Encode(value any, opts ...EncodeOption) ([]byte, error) {
	o, err := codec.NewEncodeOptions(opts...)
	if err != nil {
		return nil, err
	}

	return codec.Encode(value, o)
}

// Unpack is an alias for Decode.
func Unpack(data []byte, opts ...DecodeOption) (any, []byte, error) { return Decode(data, opts...) }

// Pack is an alias for Encode.
func Pack(value any, opts ...EncodeOption) ([]byte, error) { return Encode(value, opts...) }

// Loads is an alias for Decode.
func Loads(data []byte, opts ...DecodeOption) (any, []byte, error) { return Decode(data, opts...) }

// Dumps is an alias for Encode.
func Dumps(value any, opts ...EncodeOption) ([]byte, error) { return Encode(value, opts...) }
