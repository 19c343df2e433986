package codec

import "math/big"

// bigIntToLE decomposes z into a sign byte (0 positive/zero, 1 negative)
// and its magnitude as little-endian bytes, the layout SMALL_BIG_EXT and
// LARGE_BIG_EXT both use.
func bigIntToLE(z *big.Int) (sign byte, magnitude []byte) {
	if z.Sign() < 0 {
		sign = 1
	}

	be := new(big.Int).Abs(z).Bytes() // big-endian, no leading zero byte
	magnitude = make([]byte, len(be))
	for i, b := range be {
		magnitude[len(be)-1-i] = b
	}

	return sign, magnitude
}

// bigIntFromLE reconstructs the integer a SMALL_BIG_EXT/LARGE_BIG_EXT
// payload encodes from its sign byte and little-endian magnitude.
func bigIntFromLE(sign byte, magnitude []byte) *big.Int {
	be := make([]byte, len(magnitude))
	for i, b := range magnitude {
		be[len(magnitude)-1-i] = b
	}

	z := new(big.Int).SetBytes(be)
	if sign != 0 {
		z.Neg(z)
	}

	return z
}

// fitsSmallInt reports whether z encodes as SMALL_INTEGER_EXT (0..255).
func fitsSmallInt(z *big.Int) bool {
	return z.Sign() >= 0 && z.IsInt64() && z.Int64() <= 255
}

// fitsInt32 reports whether z encodes as INTEGER_EXT (-2^31..2^31-1).
func fitsInt32(z *big.Int) bool {
	return z.IsInt64() && z.Int64() >= -1<<31 && z.Int64() <= 1<<31-1
}
