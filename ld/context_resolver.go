// Copyright 2015-2017 Piprate Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ld

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

const (
	// MaxContextURLs is the number of distinct remote contexts a single
	// resolve call may fetch.
	MaxContextURLs = 10

	maxProcessedContexts = 10
	maxSharedContexts    = 1000
)

// ResolvedContext is a context document ready to be merged into an active
// context. It memoizes the contexts produced by merging it into specific
// active contexts. A nil Document marks a context reset.
type ResolvedContext struct {
	Document interface{}

	mu        sync.Mutex
	processed map[uint64]*Context
}

// NewResolvedContext wraps a context document.
func NewResolvedContext(document interface{}) *ResolvedContext {
	return &ResolvedContext{
		Document:  document,
		processed: make(map[uint64]*Context),
	}
}

// GetProcessed returns the result of a previous merge into activeCtx, or nil.
func (rc *ResolvedContext) GetProcessed(activeCtx *Context) *Context {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.processed[activeCtx.id]
}

// SetProcessed records the result of merging this context into activeCtx.
func (rc *ResolvedContext) SetProcessed(activeCtx *Context, processed *Context) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if len(rc.processed) >= maxProcessedContexts {
		rc.processed = make(map[uint64]*Context)
	}
	rc.processed[activeCtx.id] = processed
}

// SharedContextCache keeps inline contexts across operations, keyed by
// their serialized form.
type SharedContextCache struct {
	mu      sync.RWMutex
	entries map[string]*ResolvedContext
}

// NewSharedContextCache creates an empty SharedContextCache.
func NewSharedContextCache() *SharedContextCache {
	return &SharedContextCache{entries: make(map[string]*ResolvedContext)}
}

func (sc *SharedContextCache) get(key string) *ResolvedContext {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.entries[key]
}

func (sc *SharedContextCache) put(key string, rc *ResolvedContext) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if len(sc.entries) >= maxSharedContexts {
		sc.entries = make(map[string]*ResolvedContext)
	}
	sc.entries[key] = rc
}

// Len returns the number of cached contexts.
func (sc *SharedContextCache) Len() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.entries)
}

// ContextResolver turns @context values into ResolvedContexts, fetching
// remote contexts through a DocumentLoader. A resolver caches everything it
// resolves, so one instance should serve a single operation. The document
// and shared caches may be reused across operations.
type ContextResolver struct {
	loader    DocumentLoader
	documents DocumentCache
	shared    *SharedContextCache
	logger    *slog.Logger

	mu    sync.Mutex
	perOp map[string][]*ResolvedContext
}

// NewContextResolver creates a ContextResolver. A nil documents cache
// fetches every remote context, a nil shared cache keeps inline contexts
// for this resolver only.
func NewContextResolver(loader DocumentLoader, documents DocumentCache, shared *SharedContextCache,
	logger *slog.Logger) *ContextResolver {
	if loader == nil {
		loader = NewDefaultDocumentLoader(nil)
	}
	if shared == nil {
		shared = NewSharedContextCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ContextResolver{
		loader:    loader,
		documents: documents,
		shared:    shared,
		logger:    logger,
		perOp:     make(map[string][]*ResolvedContext),
	}
}

// Resolve returns one ResolvedContext per entry of localCtx, in order.
// Relative context URLs are resolved against base.
func (r *ContextResolver) Resolve(localCtx interface{}, base string) ([]*ResolvedContext, error) {
	return r.resolve(localCtx, base, make(map[string]bool))
}

func (r *ContextResolver) resolve(localCtx interface{}, base string, cycles map[string]bool) ([]*ResolvedContext, error) {
	if ctxMap, isMap := localCtx.(map[string]interface{}); isMap {
		if inner, hasContext := ctxMap["@context"]; hasContext {
			localCtx = inner
		}
	}

	allResolved := make([]*ResolvedContext, 0)
	for _, ctx := range Arrayify(localCtx) {
		switch v := ctx.(type) {
		case string:
			resolved, err := r.resolveRemoteContext(v, base, cycles)
			if err != nil {
				return nil, err
			}
			allResolved = append(allResolved, resolved...)
		case nil:
			allResolved = append(allResolved, NewResolvedContext(nil))
		case map[string]interface{}:
			resolved, err := r.resolveInline(v)
			if err != nil {
				return nil, err
			}
			allResolved = append(allResolved, resolved)
		default:
			return nil, NewJsonLdError(InvalidLocalContext, "@context must be an object")
		}
	}

	return allResolved, nil
}

func (r *ContextResolver) resolveInline(ctx map[string]interface{}) (*ResolvedContext, error) {
	keyBytes, err := json.Marshal(ctx)
	if err != nil {
		return nil, NewJsonLdError(InvalidLocalContext, err)
	}
	key := string(keyBytes)

	if cached := r.get(key); cached != nil {
		return cached[0], nil
	}
	resolved := r.shared.get(key)
	if resolved == nil {
		resolved = NewResolvedContext(ctx)
		r.shared.put(key, resolved)
	}
	r.put(key, []*ResolvedContext{resolved})
	return resolved, nil
}

func (r *ContextResolver) get(key string) []*ResolvedContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.perOp[key]
}

func (r *ContextResolver) put(key string, resolved []*ResolvedContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.perOp[key] = resolved
}

func (r *ContextResolver) resolveRemoteContext(u string, base string, cycles map[string]bool) ([]*ResolvedContext, error) {
	u = PrependBase(base, u)
	if cached := r.get(u); cached != nil {
		return cached, nil
	}

	context, docURL, err := r.fetchContext(u, cycles)
	if err != nil {
		return nil, err
	}

	// relative URLs inside the remote context are relative to the context itself
	if docURL != "" {
		base = docURL
	} else {
		base = u
	}
	resolveContextUrls(context, base)

	resolved, err := r.resolve(context, base, cycles)
	if err != nil {
		return nil, err
	}
	r.put(u, resolved)
	return resolved, nil
}

func (r *ContextResolver) fetchContext(u string, cycles map[string]bool) (map[string]interface{}, string, error) {
	if len(cycles) > MaxContextURLs {
		return nil, "", NewJsonLdError(ContextOverflow, "maximum number of @context URLs exceeded")
	}
	if cycles[u] {
		return nil, "", NewJsonLdError(RecursiveContextInclusion, fmt.Sprintf("cyclical @context URLs detected: %s", u))
	}
	cycles[u] = true

	load := func() (*RemoteDocument, error) {
		r.logger.Debug("fetching remote context", slog.String("url", u))
		return r.loader.LoadDocument(u)
	}
	var rd *RemoteDocument
	var err error
	if r.documents != nil {
		rd, err = r.documents.GetOrLoad(u, load)
	} else {
		rd, err = load()
	}
	if err != nil {
		return nil, "", NewJsonLdError(LoadingRemoteContextFailed, err)
	}

	doc, isMap := rd.Document.(map[string]interface{})
	if !isMap {
		return nil, "", NewJsonLdError(InvalidRemoteContext,
			fmt.Sprintf("dereferencing a URL did not result in a JSON object: %s", u))
	}

	// the cached document is shared, only the copy gets its URLs rewritten
	ctx, hasContext := doc["@context"]
	if !hasContext {
		ctx = make(map[string]interface{})
	}
	return map[string]interface{}{"@context": CloneDocument(ctx)}, rd.DocumentURL, nil
}

// resolveContextUrls makes the context URLs found in context absolute.
func resolveContextUrls(context map[string]interface{}, base string) {
	ctx, hasContext := context["@context"]
	if !hasContext {
		return
	}

	switch v := ctx.(type) {
	case string:
		context["@context"] = PrependBase(base, v)
	case []interface{}:
		for i, el := range v {
			switch e := el.(type) {
			case string:
				v[i] = PrependBase(base, e)
			case map[string]interface{}:
				resolveContextUrls(map[string]interface{}{"@context": e}, base)
			}
		}
	case map[string]interface{}:
		for _, def := range v {
			if defMap, isMap := def.(map[string]interface{}); isMap {
				resolveContextUrls(defMap, base)
			}
		}
	}
}
