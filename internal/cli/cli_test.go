package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nkzzz-xD/EasyPastPapers/internal/apperrors"
	"github.com/nkzzz-xD/EasyPastPapers/internal/config"
	"github.com/nkzzz-xD/EasyPastPapers/internal/models"
	"github.com/nkzzz-xD/EasyPastPapers/internal/testutil"
	"github.com/nkzzz-xD/EasyPastPapers/internal/ui"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

const chemistry2014 = "/cambridge-igcse/Chemistry (0620)/2014"

type testApp struct {
	*App
	server *testutil.ArchiveServer
	out    *bytes.Buffer
	fs     afero.Fs
	cfg    *config.Config
	opened []string
}

func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()
	server := testutil.NewArchiveServer(t)

	fsys := afero.NewMemMapFs()
	cfg, err := config.Load(fsys, filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	cfg.BaseURL = server.URL
	cfg.DownloadFolder = "/papers"
	cfg.ConnectTimeout = 2
	cfg.ReadTimeout = 2
	cfg.MaxRetries = 0
	cfg.ExamPageLinks = map[string]string{models.CategoryIGCSE: "cambridge-igcse"}
	cfg.Subjects = map[string]map[string]string{models.CategoryIGCSE: {"0620": "Chemistry (0620)"}}
	cfg.LastUpdated = float64(fixedNow.Unix())

	ta := &testApp{server: server, out: &bytes.Buffer{}, fs: fsys, cfg: cfg}
	app, err := New(cfg,
		WithFs(fsys),
		WithIO(strings.NewReader(input), ta.out),
		WithClock(func() time.Time { return fixedNow }),
		WithOpener(func(path string) error {
			ta.opened = append(ta.opened, path)
			return nil
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	ta.App = app
	return ta
}

func (ta *testApp) run(t *testing.T, args ...string) error {
	t.Helper()
	ta.out.Reset()
	return ta.ExecuteArgs(context.Background(), args)
}

func TestGet_Downloads(t *testing.T) {
	ta := newTestApp(t, "")
	ta.server.File(chemistry2014+"/0620_s14_qp_1.pdf", []byte("%PDF-1.4"))

	require.NoError(t, ta.run(t, "get", "0620_s14_qp_1", "--open"))

	want := filepath.Join("/papers", "igcse", "Chemistry (0620)", "2014", "May-June", "0620_s14_qp_1.pdf")
	data, err := afero.ReadFile(ta.fs, want)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
	assert.Contains(t, ta.out.String(), "Downloaded "+want)
	assert.Equal(t, []string{want}, ta.opened)
}

func TestGet_NoSessionFolders(t *testing.T) {
	ta := newTestApp(t, "")
	ta.server.File(chemistry2014+"/0620_s14_qp_1.pdf", []byte("%PDF"))

	require.NoError(t, ta.run(t, "get", "-n", "0620_s14_qp_1"))

	exists, err := afero.Exists(ta.fs, filepath.Join("/papers", "igcse", "Chemistry (0620)", "2014", "0620_s14_qp_1.pdf"))
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Empty(t, ta.opened)
}

func TestGet_AskDeclinedKeepsFile(t *testing.T) {
	ta := newTestApp(t, "n\n")
	ta.server.File(chemistry2014+"/0620_s14_qp_1.pdf", []byte("new"))
	path := filepath.Join("/papers", "igcse", "Chemistry (0620)", "2014", "May-June", "0620_s14_qp_1.pdf")
	require.NoError(t, afero.WriteFile(ta.fs, path, []byte("old"), 0o644))

	require.NoError(t, ta.run(t, "get", "0620_s14_qp_1"))

	data, err := afero.ReadFile(ta.fs, path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
	assert.Contains(t, ta.out.String(), "already exists. Overwrite?")
	assert.Contains(t, ta.out.String(), "File already exists")
}

func TestGet_InterruptedAtPrompt(t *testing.T) {
	ta := newTestApp(t, "")
	in, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })
	ta.prompter = ui.NewLinePrompter(in, ta.out)

	ta.server.File(chemistry2014+"/0620_s14_qp_1.pdf", []byte("new"))
	path := filepath.Join("/papers", "igcse", "Chemistry (0620)", "2014", "May-June", "0620_s14_qp_1.pdf")
	require.NoError(t, afero.WriteFile(ta.fs, path, []byte("old"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	timer := time.AfterFunc(100*time.Millisecond, cancel)
	defer timer.Stop()

	done := make(chan error, 1)
	go func() { done <- ta.ExecuteArgs(ctx, []string{"get", "0620_s14_qp_1"}) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("get kept waiting for an answer after the interrupt")
	}
	assert.Contains(t, ta.out.String(), "✗ Interrupted")

	data, err := afero.ReadFile(ta.fs, path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestGet_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "missing code",
			args: []string{"get"},
			want: []string{"✗ Please specify a file to download", "get <paper code>"},
		},
		{
			name: "invalid code",
			args: []string{"get", "abc"},
			want: []string{"✗ Invalid file 'abc' as parameter to get", "Paper code format"},
		},
		{
			name: "force and skip existing",
			args: []string{"get", "0620_s14_qp_1", "-f", "-s"},
			want: []string{"✗", "force", "skip-existing"},
		},
		{
			name: "unknown subject",
			args: []string{"get", "9999_s14_qp_1"},
			want: []string{"✗ Unknown subject code '9999'", "May not be available on http://", "correct subject code"},
		},
		{
			name: "not on the site",
			args: []string{"get", "0620_s14_qp_7"},
			want: []string{"✗ Could not find file '0620_s14_qp_7'", "May not be available on http://", "correct subject code"},
		},
		{
			name: "unknown command",
			args: []string{"fetch"},
			want: []string{"✗", "unknown command"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t, "")
			ta.server.HTML(chemistry2014, testutil.GenerateListingHTML(testutil.FileEntries("0620_s14_qp_1.pdf")))

			err := ta.run(t, tt.args...)
			assert.ErrorIs(t, err, ErrCommandFailed)
			for _, w := range tt.want {
				assert.Contains(t, ta.out.String(), w)
			}
		})
	}
}

func TestGetMany(t *testing.T) {
	ta := newTestApp(t, "")
	ta.server.HTML(chemistry2014, testutil.GenerateListingHTML(testutil.FileEntries(
		"0620_s14_qp_1.pdf", "0620_s14_ms_1.pdf", "0620_w14_qp_1.pdf",
	)))
	ta.server.File(chemistry2014+"/0620_s14_qp_1.pdf", []byte("a"))
	ta.server.File(chemistry2014+"/0620_s14_ms_1.pdf", []byte("b"))

	require.NoError(t, ta.run(t, "getmany", "0620", "S14", "--skip-existing"))

	out := ta.out.String()
	assert.Contains(t, out, "Preparing for download of all past papers for '0620' in range 's14'")
	assert.Contains(t, out, "2 downloaded")
	for _, name := range []string{"0620_s14_qp_1.pdf", "0620_s14_ms_1.pdf"} {
		exists, err := afero.Exists(ta.fs, filepath.Join("/papers", "igcse", "Chemistry (0620)", "2014", "May-June", name))
		require.NoError(t, err)
		assert.True(t, exists, name)
	}
}

func TestGetMany_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing range", []string{"getmany", "0620"}, "Please specify both a range and subject code"},
		{"bad subject", []string{"getmany", "62", "s14"}, "Invalid subject code '62'"},
		{"bad range", []string{"getmany", "0620", "17-14"}, "Invalid range '17-14'"},
		{"future year", []string{"getmany", "0620", "s99"}, "Invalid range 's99'"},
		{"nothing found", []string{"getmany", "0620", "m14"}, "No past papers could be downloaded for '0620'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t, "")
			ta.server.HTML(chemistry2014, testutil.GenerateListingHTML(testutil.FileEntries("0620_s14_qp_1.pdf")))

			err := ta.run(t, tt.args...)
			assert.ErrorIs(t, err, ErrCommandFailed)
			assert.Contains(t, ta.out.String(), tt.want)
		})
	}
}

func TestSetters_Persist(t *testing.T) {
	ta := newTestApp(t, "")
	folder := t.TempDir()

	require.NoError(t, ta.run(t, "setconnecttimeout", "7"))
	assert.Contains(t, ta.out.String(), "Connection timeout set to 7 seconds.")
	require.NoError(t, ta.run(t, "setreadtimeout", "2.5"))
	require.NoError(t, ta.run(t, "setbaseurl", "https://papers.example.org"))
	require.NoError(t, ta.run(t, "setdownloadfolder", folder))

	reloaded, err := config.Load(ta.fs, ta.cfg.Path())
	require.NoError(t, err)
	assert.Equal(t, 7.0, reloaded.ConnectTimeout)
	assert.Equal(t, 2.5, reloaded.ReadTimeout)
	assert.Equal(t, "https://papers.example.org", reloaded.BaseURL)
	assert.Equal(t, folder, reloaded.DownloadFolder)
	assert.Equal(t, "Chemistry (0620)", reloaded.Subjects[models.CategoryIGCSE]["0620"], "setters keep the directory")
	assert.Equal(t, "https://papers.example.org", ta.client.BaseURL())
}

func TestSetters_Invalid(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"setconnecttimeout", "abc"}, "Please specify a valid number of seconds"},
		{[]string{"setreadtimeout", "-1"}, "Please specify a valid number of seconds"},
		{[]string{"setconnecttimeout", "-0.5"}, "Please specify a valid number of seconds"},
		{[]string{"setreadtimeout"}, "Please specify a valid number of seconds"},
		{[]string{"setbaseurl", "ftp://example.com"}, "Please specify a valid URL"},
		{[]string{"setbaseurl", "a", "b"}, "Unexpected number of arguments passed to setbaseurl"},
		{[]string{"setdownloadfolder", "/papers/file.pdf"}, "Please specify a valid directory path"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			ta := newTestApp(t, "")
			require.NoError(t, afero.WriteFile(ta.fs, "/papers/file.pdf", []byte("x"), 0o644))

			err := ta.run(t, tt.args...)
			assert.ErrorIs(t, err, ErrCommandFailed)
			assert.Contains(t, ta.out.String(), tt.want)
			assert.Contains(t, ta.out.String(), "Usage:")
		})
	}
}

func TestSaveFailureIsFatal(t *testing.T) {
	ta := newTestApp(t, "")
	readOnly, err := config.Load(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/ro/config.json")
	require.NoError(t, err)
	ta.cfg = readOnly
	ta.App.cfg = readOnly

	err = ta.run(t, "setconnecttimeout", "3")
	var saveErr *apperrors.ErrConfigSave
	require.ErrorAs(t, err, &saveErr)
	assert.Equal(t, "/ro/config.json", saveErr.Path)
	assert.Contains(t, ta.out.String(), "✗ Could not save configuration")
}

func TestRefresh(t *testing.T) {
	ta := newTestApp(t, "")
	ta.server.HTML("/", testutil.GenerateIndexHTML([]testutil.ListingEntry{
		{Href: "/cambridge-igcse/", Text: "IGCSE"},
		{Href: "/a-levels/", Text: "A Levels"},
	}))
	ta.server.HTML("/cambridge-igcse", testutil.GenerateIndexHTML([]testutil.ListingEntry{
		{Href: "/cambridge-igcse/Chemistry%20(0620)/", Text: "Chemistry (0620)"},
		{Href: "/cambridge-igcse/Physics%20(0625)/", Text: "Physics (0625)"},
	}))
	ta.server.HTML("/a-levels", testutil.GenerateIndexHTML([]testutil.ListingEntry{
		{Href: "/a-levels/Biology%20(9700)/", Text: "Biology (9700)"},
	}))

	require.NoError(t, ta.run(t, "refresh"))
	assert.Contains(t, ta.out.String(), "Found 3 subjects in 2 categories.")

	reloaded, err := config.Load(ta.fs, ta.cfg.Path())
	require.NoError(t, err)
	assert.Equal(t, "Physics (0625)", reloaded.Subjects[models.CategoryIGCSE]["0625"])
	assert.Equal(t, float64(fixedNow.Unix()), reloaded.LastUpdated)
}

func TestEnsureDirectory(t *testing.T) {
	t.Run("fresh directory is kept", func(t *testing.T) {
		ta := newTestApp(t, "")
		require.NoError(t, ta.EnsureDirectory(context.Background()))
		assert.Equal(t, 0, ta.server.TotalRequests())
	})

	t.Run("stale directory is refreshed", func(t *testing.T) {
		ta := newTestApp(t, "")
		ta.cfg.LastUpdated = float64(fixedNow.Add(-config.MaxConfigAge - time.Hour).Unix())

		require.NoError(t, ta.EnsureDirectory(context.Background()))
		assert.Equal(t, 1, ta.server.Requests("/"))
		assert.Contains(t, ta.out.String(), "Could not read the subject list")
	})
}

func TestStats(t *testing.T) {
	ta := newTestApp(t, "")
	require.NoError(t, ta.run(t, "stats"))
	out := ta.out.String()
	for _, label := range []string{"Listing pages cached", "Cache hits", "Cache misses", "Downloaded", "Written"} {
		assert.Contains(t, out, label)
	}
}

func TestExit(t *testing.T) {
	ta := newTestApp(t, "")
	assert.ErrorIs(t, ta.run(t, "exit"), ErrExit)
}

func TestRunShell(t *testing.T) {
	ta := newTestApp(t, "bogus\nget \"0620_s14_qp_1\"\nexit\nget 0620_s14_qp_1\n")
	ta.server.File(chemistry2014+"/0620_s14_qp_1.pdf", []byte("%PDF"))

	require.NoError(t, ta.RunShell(context.Background()))

	out := ta.out.String()
	assert.Contains(t, out, "Welcome to Easy Past Papers")
	assert.Contains(t, out, "unknown command")
	assert.Equal(t, 1, ta.server.Requests(chemistry2014+"/0620_s14_qp_1.pdf"), "nothing runs after exit")
	assert.False(t, ta.inShell)
}

func TestRunShell_AnswersOverwritePrompt(t *testing.T) {
	ta := newTestApp(t, "get 0620_s14_qp_1\nn\nget 0620_s14_qp_1\ny\nexit\n")
	ta.server.File(chemistry2014+"/0620_s14_qp_1.pdf", []byte("new"))
	path := filepath.Join("/papers", "igcse", "Chemistry (0620)", "2014", "May-June", "0620_s14_qp_1.pdf")
	require.NoError(t, afero.WriteFile(ta.fs, path, []byte("old"), 0o644))

	require.NoError(t, ta.RunShell(context.Background()))

	out := ta.out.String()
	assert.Contains(t, out, "already exists. Overwrite?")
	assert.Contains(t, out, "File already exists")
	assert.NotContains(t, out, "unknown command \"n\"", "the answer must not be read as a command")

	data, err := afero.ReadFile(ta.fs, path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data), "the second get was confirmed")
}

func TestRunShell_CancelledContext(t *testing.T) {
	ta := newTestApp(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ta.RunShell(ctx)
	assert.True(t, err == nil || errors.Is(err, context.Canceled))
}
