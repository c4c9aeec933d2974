package ld_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	. "github.com/piprate/json-canon/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	next  DocumentLoader
	calls atomic.Int32
}

func (cl *countingLoader) LoadDocument(u string) (*RemoteDocument, error) {
	cl.calls.Add(1)
	return cl.next.LoadDocument(u)
}

func TestContextResolver_RemoteContexts(t *testing.T) {
	loader := NewCachingDocumentLoader(nil)
	loader.AddDocument("http://example.org/contexts/a.jsonld", map[string]interface{}{
		"@context": []interface{}{
			"b.jsonld",
			map[string]interface{}{"knows": "http://xmlns.com/foaf/0.1/knows"},
		},
	})
	loader.AddDocument("http://example.org/contexts/b.jsonld", map[string]interface{}{
		"@context": map[string]interface{}{"name": "http://schema.org/name"},
	})

	r := NewContextResolver(loader, nil, nil, nil)

	resolved, err := r.Resolve("contexts/a.jsonld", "http://example.org/doc.jsonld")
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Equal(t, map[string]interface{}{"name": "http://schema.org/name"}, resolved[0].Document)
	assert.Equal(t, map[string]interface{}{"knows": "http://xmlns.com/foaf/0.1/knows"}, resolved[1].Document)

	again, err := r.Resolve("http://example.org/contexts/a.jsonld", "")
	require.NoError(t, err)
	assert.Same(t, resolved[0], again[0])
}

func TestContextResolver_NullAndInline(t *testing.T) {
	r := NewContextResolver(NewCachingDocumentLoader(nil), nil, nil, nil)

	resolved, err := r.Resolve([]interface{}{nil, map[string]interface{}{"@vocab": "http://example.org/"}}, "")
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Nil(t, resolved[0].Document)
	assert.Equal(t, map[string]interface{}{"@vocab": "http://example.org/"}, resolved[1].Document)

	_, err = r.Resolve(42, "")
	assert.Equal(t, InvalidLocalContext, ErrorCodeOf(err))
}

func TestContextResolver_Errors(t *testing.T) {
	loader := NewCachingDocumentLoader(nil)
	loader.AddDocument("http://example.org/self.jsonld", map[string]interface{}{
		"@context": "http://example.org/self.jsonld",
	})
	loader.AddDocument("http://example.org/list.jsonld", []interface{}{"not", "a", "context"})

	tests := []struct {
		name string
		ctx  interface{}
		code ErrorCode
	}{
		{"recursive inclusion", "http://example.org/self.jsonld", RecursiveContextInclusion},
		{"not an object", "http://example.org/list.jsonld", InvalidRemoteContext},
		{"missing document", "http://example.org/missing.jsonld", LoadingRemoteContextFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewContextResolver(loader, nil, nil, nil)
			_, err := r.Resolve(tt.ctx, "")
			require.Error(t, err)
			assert.Equal(t, tt.code, ErrorCodeOf(err))
		})
	}
}

func TestContextResolver_Overflow(t *testing.T) {
	chain := func(n int) DocumentLoader {
		loader := NewCachingDocumentLoader(nil)
		for i := 0; i < n; i++ {
			ctx := interface{}(map[string]interface{}{"term": "http://example.org/term"})
			if i < n-1 {
				ctx = fmt.Sprintf("http://example.org/ctx%d.jsonld", i+1)
			}
			loader.AddDocument(fmt.Sprintf("http://example.org/ctx%d.jsonld", i), map[string]interface{}{
				"@context": ctx,
			})
		}
		return loader
	}

	r := NewContextResolver(chain(MaxContextURLs+1), nil, nil, nil)
	resolved, err := r.Resolve("http://example.org/ctx0.jsonld", "")
	require.NoError(t, err)
	assert.Len(t, resolved, 1)

	r = NewContextResolver(chain(MaxContextURLs+2), nil, nil, nil)
	_, err = r.Resolve("http://example.org/ctx0.jsonld", "")
	assert.Equal(t, ContextOverflow, ErrorCodeOf(err))
}

func TestContextResolver_SharedCaches(t *testing.T) {
	base := NewCachingDocumentLoader(nil)
	base.AddDocument("http://example.org/ctx.jsonld", map[string]interface{}{
		"@context": map[string]interface{}{"name": "http://schema.org/name"},
	})
	loader := &countingLoader{next: base}
	documents := NewTTLDocumentCache(0)
	shared := NewSharedContextCache()

	inline := map[string]interface{}{"@vocab": "http://example.org/"}
	var first []*ResolvedContext
	for i := 0; i < 3; i++ {
		r := NewContextResolver(loader, documents, shared, nil)
		resolved, err := r.Resolve([]interface{}{"http://example.org/ctx.jsonld", inline}, "")
		require.NoError(t, err)
		require.Len(t, resolved, 2)
		if first == nil {
			first = resolved
		}
		assert.Same(t, first[0], resolved[0])
		assert.Same(t, first[1], resolved[1])
	}

	assert.Equal(t, int32(1), loader.calls.Load())
	assert.Equal(t, 2, shared.Len())
}

func TestResolvedContext_Memo(t *testing.T) {
	rc := NewResolvedContext(map[string]interface{}{"@vocab": "http://example.org/"})
	active := NewContext(nil)
	assert.Nil(t, rc.GetProcessed(active))

	processed, err := active.Parse(rc.Document)
	require.NoError(t, err)
	rc.SetProcessed(active, processed)
	assert.Same(t, processed, rc.GetProcessed(active))
}
