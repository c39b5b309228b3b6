package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/nkzzz-xD/EasyPastPapers/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestPrinter_Error(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Error("Invalid paper code", errors.New("missing paper number"))
	assert.Contains(t, buf.String(), "✗ Invalid paper code: missing paper number")

	buf.Reset()
	p.Error("Interrupted", nil)
	assert.Contains(t, buf.String(), "✗ Interrupted")
	assert.NotContains(t, buf.String(), ":")
}

func TestPrinter_Bytes(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{})
	assert.Equal(t, "1,234,567 bytes", p.Bytes(1234567))
	assert.Equal(t, "12 bytes", p.Bytes(12))
}

func TestPrinter_DownloadResult(t *testing.T) {
	tests := []struct {
		name string
		res  models.DownloadResult
		want []string
	}{
		{
			name: "downloaded",
			res:  models.DownloadResult{Outcome: models.OutcomeDownloaded, Path: "/p/a.pdf", Written: 2048},
			want: []string{"✓ Downloaded /p/a.pdf", "2,048 bytes"},
		},
		{
			name: "exists",
			res:  models.DownloadResult{Outcome: models.OutcomeAlreadyExists, Path: "/p/a.pdf"},
			want: []string{"File already exists: /p/a.pdf"},
		},
		{
			name: "failed with cleanup error",
			res: models.DownloadResult{
				Outcome:    models.OutcomeFailed,
				Path:       "/p/a.pdf",
				Err:        errors.New("connection reset"),
				CleanupErr: errors.New("permission denied"),
			},
			want: []string{"✗ Download failed: connection reset", "Could not delete incomplete file /p/a.pdf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf).DownloadResult(&tt.res)
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestPrinter_BulkResult(t *testing.T) {
	var buf bytes.Buffer
	res := &models.BulkResult{
		SubjectCode: "0620",
		Tokens: []models.TokenResult{
			{Token: models.SessionToken{Session: models.SessionFebMarch, Year: "14"}},
			{Token: models.SessionToken{Session: models.SessionMayJune, Year: "14"}, Matched: 3, Downloaded: 2, Failed: 1},
			{Token: models.SessionToken{Session: models.SessionSpecimen, Year: "14"}, Err: errors.New("HTTP 404")},
		},
	}

	NewPrinter(&buf).BulkResult(res)
	out := buf.String()
	assert.Contains(t, out, "No papers found for 0620_m14")
	assert.Contains(t, out, "0620_s14:")
	assert.Contains(t, out, "2 downloaded, 1 failed")
	assert.Contains(t, out, "✗ Could not read listing for 0620_y14: HTTP 404")
	assert.Contains(t, out, "Done: 2 downloaded, 0 skipped, 1 failed")
}
