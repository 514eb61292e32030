package coupon

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// discountFunc computes the raw discount a coupon value grants on a price.
type discountFunc func(price, value int64) int64

// The variant set is closed, so a plain lookup table replaces any kind of
// runtime policy registry.
var discountFuncs = map[Kind]discountFunc{
	KindFixed: fixedDiscount,
	KindRate:  rateDiscount,
}

// fixedDiscount never exceeds the bill.
func fixedDiscount(price, value int64) int64 {
	return min(price, value)
}

// rateDiscount is price x value percent, rounded half-up to the nearest
// minor unit. decimal.Round rounds half away from zero, which is half-up
// for the non-negative amounts handled here.
func rateDiscount(price, value int64) int64 {
	return decimal.NewFromInt(price).
		Mul(decimal.NewFromInt(value)).
		Div(hundred).
		Round(0).
		IntPart()
}
