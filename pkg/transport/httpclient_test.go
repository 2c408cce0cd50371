package transport

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = "<table><tr><th>Team</th><th>Pts</th></tr></table>"

func TestGetHtmlDecodesBrotli(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept-Encoding"), "br")
		w.Header().Set("Content-Encoding", "br")
		bw := brotli.NewWriter(w)
		bw.Write([]byte(page))
		bw.Close()
	}))
	defer srv.Close()

	body, err := GetHtmlWithClient(srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, page, string(body))
}

func TestGetHtmlDecodesGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gw := gzip.NewWriter(w)
		gw.Write([]byte(page))
		gw.Close()
	}))
	defer srv.Close()

	// the shared client leaves decompression to DecodeBody
	body, err := GetHtmlWithClient(GetHTTPClient(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, page, string(body))
}

func TestGetHtmlErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := GetHtml(srv.URL)
	assert.Error(t, err)
}

func TestDecodeBodyIdentity(t *testing.T) {
	r, err := DecodeBody("", nopCloser{bytes.NewBufferString(page)})
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	assert.Equal(t, page, buf.String())

	_, err = DecodeBody("gzip", nopCloser{bytes.NewBufferString("not gzip")})
	assert.Error(t, err)
}

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }
