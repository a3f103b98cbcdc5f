package worker

import "math"

// MaxBackoffSeconds caps the retry delay at one hour.
const MaxBackoffSeconds = 3600

// CalculateBackoff determines how long to wait before retrying a failed message.
// It increases the delay exponentially with each retry to avoid overwhelming a struggling service.
func CalculateBackoff(retryCount int) int32 {
	if retryCount < 0 {
		retryCount = 0
	}
	backoff := math.Pow(2, float64(retryCount)) * 10
	if backoff > MaxBackoffSeconds {
		return MaxBackoffSeconds
	}
	return int32(backoff)
}
