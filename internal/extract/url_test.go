package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractURLPrefersMainContainer(t *testing.T) {
	body := fmt.Sprintf(`<html><head><script>var x = 1;</script></head><body>
		<nav>Home About Contact</nav>
		<main>%s</main>
		<footer>Copyright</footer>
	</body></html>`, strings.Repeat("Real article content. ", 10))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	e := NewExtractor()
	text, err := e.ExtractURL(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Contains(t, text, "Real article content.")
	require.NotContains(t, text, "Home About Contact")
	require.NotContains(t, text, "Copyright")
	require.NotContains(t, text, "var x")
}

func TestExtractURLFallsBackToBody(t *testing.T) {
	body := fmt.Sprintf("<html><body><div>%s</div></body></html>",
		strings.Repeat("Body level content here. ", 10))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	e := NewExtractor()
	text, err := e.ExtractURL(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Contains(t, text, "Body level content here.")
}

func TestExtractURLRejectsShortContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><main>too short</main></body></html>")
	}))
	defer srv.Close()

	e := NewExtractor()
	_, err := e.ExtractURL(context.Background(), srv.URL)
	require.Error(t, err)
	require.Contains(t, err.Error(), "content too short")
}

func TestExtractURLNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	e := NewExtractor()
	_, err := e.ExtractURL(context.Background(), srv.URL)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status")
}

func TestExtractURLSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprintf(w, "<html><body><main>%s</main></body></html>",
			strings.Repeat("Padding content to pass the minimum. ", 5))
	}))
	defer srv.Close()

	e := NewExtractor()
	_, err := e.ExtractURL(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, defaultUserAgent, gotUA)
}
