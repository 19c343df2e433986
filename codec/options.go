package codec

import (
	"github.com/arloliu/goetf/compress"
	"github.com/arloliu/goetf/internal/options"
)

// AtomMode selects how a decoded atom is represented in Go, mirroring the
// `atom` decode option.
type AtomMode uint8

const (
	// AtomAsAtom decodes to term.Atom (the default).
	AtomAsAtom AtomMode = iota
	// AtomAsStrict decodes to term.StrictAtom.
	AtomAsStrict
	// AtomAsString decodes to a plain Go string.
	AtomAsString
	// AtomAsBytes decodes to a plain []byte.
	AtomAsBytes
)

// ByteStringMode selects how a decoded STRING_EXT payload is represented,
// mirroring the `byte_string` decode option.
type ByteStringMode uint8

const (
	// ByteStringAsString decodes to a Go string, latin-1 interpreted (the
	// default).
	ByteStringAsString ByteStringMode = iota
	// ByteStringAsBytes decodes to a plain []byte.
	ByteStringAsBytes
	// ByteStringAsIntList decodes to a []any of small integers, matching
	// what a proper ETF list of byte values would decode to.
	ByteStringAsIntList
)

// HookType is the closed set of logical type names decode_hook and
// encode_hook key on. Using type names rather than Go's own type switch
// keeps the hook table portable: a caller reasons about "int" or "atom",
// not about which concrete Go type currently backs them.
type HookType string

// The logical type names recognized by encode_hook's per-type table and by
// decode_hook. On decode, pids, references, bit-strings and EXPORT_EXT
// values are returned without running any decode_hook, so HookPid and
// HookReference take effect on encode only.
const (
	HookInt       HookType = "int"
	HookFloat     HookType = "float"
	HookAtom      HookType = "atom"
	HookBytes     HookType = "bytes"
	HookString    HookType = "str"
	HookTuple     HookType = "tuple"
	HookList      HookType = "list"
	HookMap       HookType = "map"
	HookPid       HookType = "pid"
	HookReference HookType = "reference"
	HookFun       HookType = "fun"
	// HookCatchAll is the distinguished encode_hook key invoked for any
	// value with no known variant and no per-type hook of its own.
	HookCatchAll HookType = "catch_all"
)

// DecodeOptions configures a single Decode call. The zero value is the
// documented default: atoms decode to term.Atom, STRING_EXT payloads
// decode to Go strings, and no hooks run.
//
// Unknown configuration is impossible by construction (the struct is
// typed, not a map), which is the Go-idiomatic reading of the spec's
// "unknown option keys are ignored" forward-compatibility requirement.
type DecodeOptions struct {
	Atom       AtomMode
	AtomCall   func(string) (any, error)
	ByteString ByteStringMode
	DecodeHook map[HookType]func(any) (any, error)
}

// DecodeOption configures a DecodeOptions value.
type DecodeOption = options.Option[*DecodeOptions]

// NewDecodeOptions builds a DecodeOptions from functional options, applying
// them over the documented defaults.
func NewDecodeOptions(opts ...DecodeOption) (*DecodeOptions, error) {
	o := &DecodeOptions{}
	if err := options.Apply(o, opts...); err != nil {
		return nil, err
	}

	return o, nil
}

// WithAtomMode selects how decoded atoms are represented. Note that the
// boolean and undefined atoms (`true`, `false`, `undefined`) are always
// coerced to their host equivalents regardless of this setting.
func WithAtomMode(mode AtomMode) DecodeOption {
	return options.NoError(func(o *DecodeOptions) { o.Atom = mode })
}

// WithAtomCall installs a callable invoked once per decoded atom with its
// text; its return value replaces the decoded element. Takes precedence
// over WithAtomMode.
func WithAtomCall(fn func(string) (any, error)) DecodeOption {
	return options.NoError(func(o *DecodeOptions) { o.AtomCall = fn })
}

// WithByteStringMode selects how STRING_EXT payloads are represented.
func WithByteStringMode(mode ByteStringMode) DecodeOption {
	return options.NoError(func(o *DecodeOptions) { o.ByteString = mode })
}

// WithDecodeHook installs fn for the given logical type. After decoding a
// value of that type, fn is applied and its return value is what gets
// inserted into the parent container (or returned to the caller, for a
// top-level value).
func WithDecodeHook(t HookType, fn func(any) (any, error)) DecodeOption {
	return options.New(func(o *DecodeOptions) error {
		if o.DecodeHook == nil {
			o.DecodeHook = make(map[HookType]func(any) (any, error))
		}
		o.DecodeHook[t] = fn

		return nil
	})
}

// hook returns the decode hook for t, if one was installed.
func (o *DecodeOptions) hook(t HookType) (func(any) (any, error), bool) {
	if o == nil || o.DecodeHook == nil {
		return nil, false
	}
	fn, ok := o.DecodeHook[t]

	return fn, ok
}

// EncodeOptions configures a single Encode call. The zero value encodes
// with no hooks and no output compression.
type EncodeOptions struct {
	EncodeHook map[HookType]func(any) (any, error)
	Compressed bool
}

// EncodeOption configures an EncodeOptions value.
type EncodeOption = options.Option[*EncodeOptions]

// NewEncodeOptions builds an EncodeOptions from functional options.
func NewEncodeOptions(opts ...EncodeOption) (*EncodeOptions, error) {
	o := &EncodeOptions{}
	if err := options.Apply(o, opts...); err != nil {
		return nil, err
	}

	return o, nil
}

// WithEncodeHook installs fn for the given logical type. The per-type hook
// runs before the encoder's default handling for that type; its return
// value is encoded in place of the original value. Pass HookCatchAll to
// install a fallback invoked for values of no recognized variant.
func WithEncodeHook(t HookType, fn func(any) (any, error)) EncodeOption {
	return options.New(func(o *EncodeOptions) error {
		if o.EncodeHook == nil {
			o.EncodeHook = make(map[HookType]func(any) (any, error))
		}
		o.EncodeHook[t] = fn

		return nil
	})
}

// WithCatchAllHook is shorthand for WithEncodeHook(HookCatchAll, fn),
// matching the legacy call shape where encode_hook is a single bare
// callable rather than a per-type table. Kept because callers porting code
// from the dict-options source commonly pass just one function.
func WithCatchAllHook(fn func(any) (any, error)) EncodeOption {
	return WithEncodeHook(HookCatchAll, fn)
}

// WithCompression opts the encoder into wrapping its output in the
// compressed envelope (tag 80, zlib-deflated). Off by default, per spec:
// encode must never compress unless a caller asks for it.
func WithCompression(enabled bool) EncodeOption {
	return options.NoError(func(o *EncodeOptions) { o.Compressed = enabled })
}

func (o *EncodeOptions) hook(t HookType) (func(any) (any, error), bool) {
	if o == nil || o.EncodeHook == nil {
		return nil, false
	}
	fn, ok := o.EncodeHook[t]

	return fn, ok
}

// compressor returns the Codec the encoder should wrap its output with.
func (o *EncodeOptions) compressor() compress.Codec {
	if o != nil && o.Compressed {
		return compress.NewZlibCodec()
	}

	return compress.NewNoOpCodec()
}
