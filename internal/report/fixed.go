package report

import (
	"math"
	"math/big"
	"strconv"
)

// fixed formats v with the given number of decimals. Ties round away from
// zero on the exact binary value of v, so 0.125 gives "0.13" while 1.005,
// stored as 1.00499..., gives "1.00".
func fixed(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', decimals, 64)
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)

	r := new(big.Rat).SetFloat64(math.Abs(v))
	r.Mul(r, new(big.Rat).SetInt(scale))
	r.Add(r, big.NewRat(1, 2))

	// r is positive, truncation is floor
	n := new(big.Int).Quo(r.Num(), r.Denom())

	s := new(big.Rat).SetFrac(n, scale).FloatString(decimals)
	if v < 0 {
		return "-" + s
	}
	return s
}
