package main

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

func main() {
	// Configuration
	base := "http://localhost:8080/api/v1/attendance"
	steps := []string{base + "/check-in", base + "/check-out"}

	numWorkers := 5000
	totalRequests := numWorkers * len(steps)
	concurrency := 50 // Number of concurrent requests to avoid local port exhaustion

	fmt.Printf("Starting load test: %s workers checking in and out against %s with concurrency %d\n",
		humanize.Comma(int64(numWorkers)), base, concurrency)

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency) // Semaphore to limit concurrency

	var successCount int64
	var conflictCount int64
	var failCount int64

	startTime := time.Now()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		sem <- struct{}{} // Acquire token

		name := fmt.Sprintf("load-test-worker-%d", i)

		go func(name string) {
			defer wg.Done()
			defer func() { <-sem }() // Release token

			for _, url := range steps {
				req, err := http.NewRequest(http.MethodPost, url, nil)
				if err != nil {
					atomic.AddInt64(&failCount, 1)
					continue
				}
				req.Header.Set("X-Worker-Name", name)

				resp, err := http.DefaultClient.Do(req)
				if err != nil {
					atomic.AddInt64(&failCount, 1)
					continue
				}

				switch {
				case resp.StatusCode >= 200 && resp.StatusCode < 300:
					atomic.AddInt64(&successCount, 1)
				case resp.StatusCode == http.StatusConflict:
					// repeated runs on the same day hit already-closed records
					atomic.AddInt64(&conflictCount, 1)
				default:
					atomic.AddInt64(&failCount, 1)
				}
				resp.Body.Close()
			}
		}(name)
	}

	wg.Wait()
	duration := time.Since(startTime)

	fmt.Println("\n--- Load Test Results ---")
	fmt.Printf("Total Duration: %v\n", duration)
	fmt.Printf("Total Requests: %s\n", humanize.Comma(int64(totalRequests)))
	fmt.Printf("Successful:     %s\n", humanize.Comma(successCount))
	fmt.Printf("Conflicts:      %s\n", humanize.Comma(conflictCount))
	fmt.Printf("Failed:         %s\n", humanize.Comma(failCount))
	fmt.Printf("Requests/Sec:   %.2f\n", float64(totalRequests)/duration.Seconds())
}
