package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func getCounterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.(prometheus.Metric).Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func getCounterVecValue(cv *prometheus.CounterVec, labels ...string) float64 {
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func TestMetrics_PaperDownloadsTotal(t *testing.T) {
	for _, outcome := range []string{"downloaded", "already_exists", "failed"} {
		before := getCounterVecValue(PaperDownloadsTotal, outcome)
		PaperDownloadsTotal.WithLabelValues(outcome).Inc()
		after := getCounterVecValue(PaperDownloadsTotal, outcome)

		if after != before+1 {
			t.Errorf("Expected %s counter to increment by 1, got diff %.0f", outcome, after-before)
		}
	}
}

func TestMetrics_DownloadedBytesTotal(t *testing.T) {
	before := getCounterValue(DownloadedBytesTotal)
	DownloadedBytesTotal.Add(1024)
	after := getCounterValue(DownloadedBytesTotal)

	if after != before+1024 {
		t.Errorf("Expected bytes counter to grow by 1024, got diff %.0f", after-before)
	}
}

func TestCollect(t *testing.T) {
	reg := prometheus.NewRegistry()

	downloads := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: Namespace, Name: "paper_downloads_total"}, []string{"outcome"})
	hits := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: Namespace, Name: "cache_hits_total"}, []string{"cache"})
	entries := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: Namespace, Name: "cache_entries"}, []string{"cache"})
	bytes := prometheus.NewCounter(prometheus.CounterOpts{Namespace: Namespace, Name: "downloaded_bytes_total"})
	reg.MustRegister(downloads, hits, entries, bytes)

	downloads.WithLabelValues("downloaded").Add(3)
	downloads.WithLabelValues("failed").Inc()
	hits.WithLabelValues("listing_pages").Add(5)
	hits.WithLabelValues("other").Add(100)
	entries.WithLabelValues("listing_pages").Set(2)
	bytes.Add(4096)

	stats, err := Collect(reg, "listing_pages")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if stats.Downloads["downloaded"] != 3 || stats.Downloads["failed"] != 1 {
		t.Errorf("Downloads = %v", stats.Downloads)
	}
	if stats.CacheHits != 5 {
		t.Errorf("CacheHits = %.0f, want 5 (other groups excluded)", stats.CacheHits)
	}
	if stats.CacheEntries != 2 {
		t.Errorf("CacheEntries = %.0f, want 2", stats.CacheEntries)
	}
	if stats.BytesWritten != 4096 {
		t.Errorf("BytesWritten = %.0f, want 4096", stats.BytesWritten)
	}
	if stats.CacheMisses != 0 {
		t.Errorf("CacheMisses = %.0f, want 0", stats.CacheMisses)
	}
}

func TestNewHTTPServer_ServesMetrics(t *testing.T) {
	FastPathTotal.WithLabelValues("hit").Inc()

	srv := NewHTTPServer("127.0.0.1:0")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "easypapers_fast_path_total") {
		t.Error("Expected fast path counter in /metrics output")
	}
}
