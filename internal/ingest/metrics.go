package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalCycles tracks completed ingestion cycles by outcome.
	TotalCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_cycles_total",
		Help: "The total number of ingestion cycles, labelled by outcome.",
	}, []string{"outcome"})
	// TotalPagesFetched tracks feed pages requested across all cycles.
	TotalPagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_pages_fetched_total",
		Help: "The total number of event feed pages fetched.",
	})
	// TotalEventsInserted tracks events stored for the first time.
	TotalEventsInserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_events_inserted_total",
		Help: "The total number of new events inserted into the store.",
	})
	// TotalDuplicatesSkipped tracks insert conflicts swallowed as races.
	TotalDuplicatesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_duplicate_events_skipped_total",
		Help: "The total number of inserts skipped because the event was already stored.",
	})
)
