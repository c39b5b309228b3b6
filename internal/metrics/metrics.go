package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric exported by the application
const Namespace = "easypapers"

// Paper download metrics
var (
	// PaperDownloadsTotal counts finished downloads by outcome (downloaded, already_exists, failed)
	PaperDownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "paper_downloads_total",
			Help:      "Total number of paper downloads by outcome.",
		},
		[]string{"outcome"},
	)

	// DownloadedBytesTotal counts bytes written to disk by completed and failed downloads
	DownloadedBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "downloaded_bytes_total",
			Help:      "Total number of bytes written to disk.",
		},
	)

	// ListingFetchesTotal counts listing and index page fetches by result (success, error)
	ListingFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "listing_fetches_total",
			Help:      "Total number of archive pages fetched over the network.",
		},
		[]string{"result"},
	)

	// FastPathTotal counts direct <code>.pdf attempts by result (hit, miss, hard)
	FastPathTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "fast_path_total",
			Help:      "Total number of direct file guesses by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		PaperDownloadsTotal,
		DownloadedBytesTotal,
		ListingFetchesTotal,
		FastPathTotal,
	)
}
