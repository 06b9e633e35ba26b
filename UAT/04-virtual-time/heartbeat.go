// Package virtualtime sends heartbeats on whatever clock it is given.
package virtualtime

import "github.com/toejough/marbles/rx"

// Beat is the value every heartbeat carries.
const Beat = "beat"

// Heartbeat emits Beat every period frames, beats times, then completes.
func Heartbeat(clock rx.Scheduler, period int64, beats int) rx.Observable[string] {
	return rx.Map(rx.Take(rx.Interval(period, clock), beats), func(int) string { return Beat })
}
