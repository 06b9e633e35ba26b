// Package hotsources turns a live sensor feed into alerts.
package hotsources

import (
	"fmt"

	"github.com/toejough/marbles/rx"
)

// Alerts reports every reading above threshold, at most limit times.
func Alerts(readings rx.Observable[int], threshold, limit int) rx.Observable[string] {
	high := rx.Filter(readings, func(reading int) bool { return reading > threshold })

	return rx.Take(rx.Map(high, func(reading int) string {
		return fmt.Sprintf("high:%d", reading)
	}), limit)
}
