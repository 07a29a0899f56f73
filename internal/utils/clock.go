package utils

import "time"

var nowFunc = time.Now

// Now is the process clock. Screens built by the CLI stamp rows with it.
func Now() time.Time { return nowFunc() }

// SetClock swaps the clock used by Now and Today. Tests only.
func SetClock(fn func() time.Time) (restore func()) {
	prev := nowFunc
	nowFunc = fn
	return func() { nowFunc = prev }
}
