package ld_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	. "github.com/piprate/json-canon/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContextServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	hits := new(atomic.Int32)
	mux := http.NewServeMux()
	mux.HandleFunc("/doc.jsonld", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/ld+json")
		fmt.Fprint(w, `{"@type": "t1"}`)
	})
	mux.HandleFunc("/page.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("Link", `</doc.jsonld>; rel="alternate"; type="application/ld+json"`)
		fmt.Fprint(w, `<html></html>`)
	})
	mux.HandleFunc("/data.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Link", `<ctx.jsonld>; rel="http://www.w3.org/ns/json-ld#context"`)
		fmt.Fprint(w, `{"name": "x"}`)
	})
	mux.HandleFunc("/loop-a", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop-b", http.StatusFound)
	})
	mux.HandleFunc("/loop-b", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop-a", http.StatusFound)
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/doc.jsonld", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/cached.jsonld", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/ld+json")
		w.Header().Set("Cache-Control", "max-age=3600")
		fmt.Fprint(w, `{"@type": "cached"}`)
	})
	mux.HandleFunc("/uncached.jsonld", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/ld+json")
		w.Header().Set("Cache-Control", "no-store")
		fmt.Fprint(w, `{"@type": "uncached"}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, hits
}

func TestLoadDocument(t *testing.T) {
	srv, _ := newContextServer(t)
	dl := NewDefaultDocumentLoader(nil)

	rd, err := dl.LoadDocument(srv.URL + "/doc.jsonld")
	require.NoError(t, err)
	assert.Equal(t, "t1", rd.Document.(map[string]interface{})["@type"])
	assert.Equal(t, srv.URL+"/doc.jsonld", rd.DocumentURL)
}

func TestLoadDocument_FollowsRedirects(t *testing.T) {
	srv, _ := newContextServer(t)
	dl := NewDefaultDocumentLoader(nil)

	rd, err := dl.LoadDocument(srv.URL + "/moved")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/doc.jsonld", rd.DocumentURL)
}

func TestLoadDocument_RedirectLoop(t *testing.T) {
	srv, _ := newContextServer(t)
	dl := NewDefaultDocumentLoader(nil)

	_, err := dl.LoadDocument(srv.URL + "/loop-a")
	require.Error(t, err)
	assert.Equal(t, LoadingDocumentFailed, ErrorCodeOf(err))
}

func TestLoadDocument_NotFound(t *testing.T) {
	srv, _ := newContextServer(t)
	dl := NewDefaultDocumentLoader(nil)

	_, err := dl.LoadDocument(srv.URL + "/missing")
	assert.Equal(t, LoadingDocumentFailed, ErrorCodeOf(err))
}

func TestLoadDocument_AlternateLink(t *testing.T) {
	srv, _ := newContextServer(t)
	dl := NewDefaultDocumentLoader(nil)

	rd, err := dl.LoadDocument(srv.URL + "/page.html")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/doc.jsonld", rd.DocumentURL)
	assert.Equal(t, "t1", rd.Document.(map[string]interface{})["@type"])
}

func TestLoadDocument_ContextLink(t *testing.T) {
	srv, _ := newContextServer(t)
	dl := NewDefaultDocumentLoader(nil)

	rd, err := dl.LoadDocument(srv.URL + "/data.json")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/ctx.jsonld", rd.ContextURL)
}

func TestLoadDocument_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.jsonld")
	require.NoError(t, os.WriteFile(path, []byte(`{"@type": "t1"}`), 0o600))

	dl := NewDefaultDocumentLoader(nil)
	_, err := dl.LoadDocument(path)
	require.Error(t, err)
	assert.Equal(t, LoadingDocumentFailed, ErrorCodeOf(err))

	dl.AllowFiles = true
	rd, err := dl.LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, "t1", rd.Document.(map[string]interface{})["@type"])

	rl := NewRFC7324CachingDocumentLoader(nil)
	_, err = rl.LoadDocument(path)
	require.Error(t, err)

	rl.AllowFiles = true
	rd, err = rl.LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, "t1", rd.Document.(map[string]interface{})["@type"])
}

func TestContextResolver_LocalFilesAreNotRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctx.jsonld")
	require.NoError(t, os.WriteFile(path, []byte(`{"@context": {"name": "http://ex/name"}}`), 0o600))

	_, err := NewContextResolver(nil, nil, nil, nil).Resolve(path, "")
	require.Error(t, err)
	assert.Equal(t, LoadingRemoteContextFailed, ErrorCodeOf(err))

	dl := NewDefaultDocumentLoader(nil)
	dl.AllowFiles = true
	resolved, err := NewContextResolver(dl, nil, nil, nil).Resolve(path, "")
	require.NoError(t, err)
	assert.Len(t, resolved, 1)
}

func TestParseLinkHeader(t *testing.T) {
	rval := ParseLinkHeader("<remote-doc/0010-context.jsonld>; rel=\"http://www.w3.org/ns/json-ld#context\"")

	assert.Equal(
		t,
		map[string][]map[string]string{
			"http://www.w3.org/ns/json-ld#context": {{
				"target": "remote-doc/0010-context.jsonld",
				"rel":    "http://www.w3.org/ns/json-ld#context",
			}},
		},
		rval,
	)
}

func TestCachingDocumentLoaderLoadDocument(t *testing.T) {
	srv, hits := newContextServer(t)
	cl := NewCachingDocumentLoader(NewDefaultDocumentLoader(nil))

	cl.AddDocument("http://www.example.com/preloaded.jsonld", map[string]interface{}{"@type": "preloaded"})
	rd, err := cl.LoadDocument("http://www.example.com/preloaded.jsonld")
	require.NoError(t, err)
	assert.Equal(t, "preloaded", rd.Document.(map[string]interface{})["@type"])

	for i := 0; i < 2; i++ {
		rd, err = cl.LoadDocument(srv.URL + "/doc.jsonld")
		require.NoError(t, err)
		assert.Equal(t, "t1", rd.Document.(map[string]interface{})["@type"])
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestRFC7324CachingDocumentLoader(t *testing.T) {
	srv, hits := newContextServer(t)
	dl := NewRFC7324CachingDocumentLoader(nil)

	for i := 0; i < 3; i++ {
		rd, err := dl.LoadDocument(srv.URL + "/cached.jsonld")
		require.NoError(t, err)
		assert.Equal(t, "cached", rd.Document.(map[string]interface{})["@type"])
	}
	assert.Equal(t, int32(1), hits.Load())

	for i := 0; i < 2; i++ {
		_, err := dl.LoadDocument(srv.URL + "/uncached.jsonld")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), hits.Load())
}
