// Package ginkgosuite combines two price feeds into one.
package ginkgosuite

import (
	"strconv"

	"github.com/toejough/marbles/rx"
)

// Quotes merges both feeds and renders each price, failing on negative ones.
func Quotes(primary, backup rx.Observable[int]) rx.Observable[string] {
	return rx.MapErr(rx.Merge(primary, backup), func(price int) (string, error) {
		if price < 0 {
			return "", &PriceError{Price: price}
		}

		return "$" + strconv.Itoa(price), nil
	})
}

// PriceError reports a price that cannot be quoted.
type PriceError struct {
	Price int
}

func (e *PriceError) Error() string {
	return "invalid price " + strconv.Itoa(e.Price)
}
