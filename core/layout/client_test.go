package layout

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/siherrmann/lexent/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const segmentsJSON = `[
	{"left":72,"top":90,"width":450,"height":40,"page_number":1,"page_width":612,"page_height":792,"text":"REPORT No. 121/09","type":"Title"},
	{"left":72,"top":140,"width":450,"height":120,"page_number":1,"page_width":612,"page_height":792,"text":"The State of Honduras","type":"Text"}
]`

func writePDF(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o600))
	return path
}

func layoutServer(t *testing.T, calls *int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err, "Expected multipart field file") {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "report.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.4 fake", string(content))

		_, _ = w.Write([]byte(segmentsJSON))
	}))
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	pdfPath := writePDF(t, dir)

	t.Run("Valid analysis", func(t *testing.T) {
		calls := 0
		server := layoutServer(t, &calls)
		defer server.Close()

		segments, err := NewClient(server.URL).Analyze(context.Background(), pdfPath)

		require.NoError(t, err)
		require.Len(t, segments, 2)
		assert.Equal(t, model.SegmentBox{
			Text: "REPORT No. 121/09", Left: 72, Top: 90, Width: 450, Height: 40,
			PageNumber: 1, PageWidth: 612, PageHeight: 792, Type: "Title",
		}, segments[0])
	})

	t.Run("Service error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad pdf", http.StatusUnprocessableEntity)
		}))
		defer server.Close()

		_, err := NewClient(server.URL).Analyze(context.Background(), pdfPath)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "422")
	})

	t.Run("Missing pdf", func(t *testing.T) {
		_, err := NewClient("localhost:5060").Analyze(context.Background(), filepath.Join(dir, "missing.pdf"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLoadOrAnalyze(t *testing.T) {
	dir := t.TempDir()
	pdfPath := writePDF(t, dir)
	cacheDir := filepath.Join(dir, "cache")

	calls := 0
	server := layoutServer(t, &calls)
	defer server.Close()
	client := NewClient(server.URL)

	t.Run("Miss then hit", func(t *testing.T) {
		first, err := client.LoadOrAnalyze(context.Background(), pdfPath, cacheDir)
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(cacheDir, "report.json"))

		second, err := client.LoadOrAnalyze(context.Background(), pdfPath, cacheDir)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, calls, "Expected the second call to use the cache")
	})

	t.Run("Corrupt cache", func(t *testing.T) {
		corruptDir := t.TempDir()
		require.NoError(t, os.WriteFile(CachePath(pdfPath, corruptDir), []byte("{"), 0o600))

		_, err := client.LoadOrAnalyze(context.Background(), pdfPath, corruptDir)

		assert.Error(t, err)
	})
}

func TestNewClient(t *testing.T) {
	assert.Equal(t, "http://localhost:5060", NewClient("localhost:5060").baseURL)
	assert.Equal(t, "https://layout.example", NewClient("https://layout.example").baseURL)
}
