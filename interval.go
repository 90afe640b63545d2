package main

import "time"

const (
	maxRate = 60

	// haltedInterval stands in for rate 0: far enough out that playback is effectively stopped
	haltedInterval = 100000000 * time.Millisecond
)

// FrameInterval returns the delay between update cycles for a rate in frames per second.
// Milliseconds are truncated, so 30fps schedules every 33ms.
func FrameInterval(rate int) time.Duration {
	if rate <= 0 {
		return haltedInterval
	}
	return time.Duration(1000/rate) * time.Millisecond
}

func clampRate(rate int) int {
	if rate < 0 {
		return 0
	}
	if rate > maxRate {
		return maxRate
	}
	return rate
}
