package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"worktracker.service/internal/ports/messaging"
)

// Stands in for the household automation endpoint that receives webhook
// deliveries. Set FAIL_EVERY=n to answer every nth request with a 503.

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	failEvery := 0
	if v := os.Getenv("FAIL_EVERY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Fatal().Err(err).Msg("FAIL_EVERY must be an integer")
		}
		failEvery = n
	}

	var count atomic.Int64
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		var event messaging.Event
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}

		n := count.Add(1)
		if failEvery > 0 && n%int64(failEvery) == 0 {
			log.Warn().Str("event_type", string(event.EventType)).Msg("Simulating outage")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		log.Info().
			Str("event_type", string(event.EventType)).
			Str("worker_name", event.WorkerName).
			Str("job_title", event.JobTitle).
			Int("duration_minutes", event.DurationMinutes).
			Bool("late", event.IsLateCheckIn).
			Bool("early", event.IsEarlyCheckOut).
			Msg("Received event")
		w.WriteHeader(http.StatusOK)
	})

	log.Info().Msg("Webhook mock server starting on port 8081...")
	log.Fatal().Err(http.ListenAndServe(":8081", nil)).Msg("listen")
}
