// Package subscriptions downloads a file in chunks, retrying on failure.
package subscriptions

import "github.com/toejough/marbles/rx"

// Download fetches chunks one after another. If any chunk fails, the whole
// download starts over, up to retries times.
func Download(retries int, chunks ...rx.Observable[string]) rx.Observable[string] {
	return rx.Retry(rx.Concat(chunks...), retries)
}
