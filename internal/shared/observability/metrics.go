package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codeextract_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	FilesParsedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codeextract_files_parsed_total",
		Help: "Total number of source files parsed successfully.",
	})

	ParseFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codeextract_parse_failures_total",
		Help: "Total number of source files skipped because of syntax errors.",
	})

	MethodsExtractedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codeextract_methods_extracted_total",
		Help: "Total number of method declarations turned into records.",
	})

	GroupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codeextract_groups_total",
		Help: "Source groups processed, by final state.",
	}, []string{"state"})

	GroupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "codeextract_group_seconds",
		Help:    "Time spent extracting and rendering one source group.",
		Buckets: prometheus.DefBuckets,
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codeextract_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)

// WriteTextfile dumps every registered metric to path in the node-exporter
// textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
