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
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/pquerna/cachecontrol"
)

const (
	// An HTTP Accept header that prefers JSONLD.
	acceptHeader = "application/ld+json, application/json;q=0.9, application/javascript;q=0.5, text/javascript;q=0.5, text/plain;q=0.2, */*;q=0.1"

	ApplicationJSONLDType = "application/ld+json"

	// JSON-LD link header rel
	linkHeaderRel = "http://www.w3.org/ns/json-ld#context"

	// MaxRedirects bounds the number of HTTP redirects and alternate
	// document hops followed for one document.
	MaxRedirects = 10
)

// RemoteDocument is a document retrieved from a remote source.
type RemoteDocument struct {
	DocumentURL string
	Document    interface{}
	ContextURL  string
}

// DocumentLoader knows how to load remote documents.
type DocumentLoader interface {
	LoadDocument(u string) (*RemoteDocument, error)
}

// DefaultDocumentLoader is a standard implementation of DocumentLoader
// which can retrieve documents via HTTP.
type DefaultDocumentLoader struct {
	httpClient *http.Client

	// AllowFiles lets URLs without an http(s) scheme be read from the local
	// file system. Context URLs come from the documents being processed, so
	// it is off unless set.
	AllowFiles bool
}

// NewDefaultDocumentLoader creates a new instance of DefaultDocumentLoader.
// Redirects are followed up to MaxRedirects times; a redirect back to an
// already visited URL fails immediately.
func NewDefaultDocumentLoader(httpClient *http.Client) *DefaultDocumentLoader {
	return &DefaultDocumentLoader{httpClient: redirectLimitedClient(httpClient)}
}

func redirectLimitedClient(httpClient *http.Client) *http.Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := *httpClient
	c.CheckRedirect = checkRedirect
	return &c
}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= MaxRedirects {
		return fmt.Errorf("URL could not be dereferenced; there were too many redirects")
	}
	target := req.URL.String()
	for _, prev := range via {
		if prev.URL.String() == target {
			return fmt.Errorf("URL could not be dereferenced; infinite redirection was detected: %s", target)
		}
	}
	return nil
}

// DocumentFromReader returns a document containing the contents of the JSON resource,
// streamed from the given Reader.
func DocumentFromReader(r io.Reader) (interface{}, error) {
	var document interface{}
	dec := json.NewDecoder(r)

	// If dec.UseNumber() were invoked here, all numbers would be decoded as json.Number.
	// Both the default and json.Number options are supported.

	if err := dec.Decode(&document); err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	return document, nil
}

// LoadDocument returns a RemoteDocument containing the contents of the JSON resource
// from the given URL.
func (dl *DefaultDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	parsedURL, err := url.Parse(u)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, fmt.Sprintf("error parsing URL: %s", u))
	}

	protocol := parsedURL.Scheme
	if protocol != "http" && protocol != "https" {
		// Can't use the HTTP client for those!
		return loadFile(u, dl.AllowFiles)
	}

	remoteDoc, _, _, err := loadHTTP(dl.httpClient, u, nil)
	return remoteDoc, err
}

func loadFile(u string, allowed bool) (*RemoteDocument, error) {
	if !allowed {
		return nil, NewJsonLdError(LoadingDocumentFailed, fmt.Sprintf("file access is disabled: %s", u))
	}
	file, err := os.Open(u)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	defer file.Close()

	doc, err := DocumentFromReader(file)
	if err != nil {
		return nil, err
	}
	return &RemoteDocument{DocumentURL: u, Document: doc}, nil
}

// loadHTTP fetches u, following a Link rel="alternate" hop when the response
// is not JSON. hops lists the URLs already visited through alternate links.
// The returned response's body has been consumed and closed.
func loadHTTP(client *http.Client, u string, hops []string) (*RemoteDocument, *http.Request, *http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, nil, nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	// We prefer application/ld+json, but fallback to application/json
	// or whatever is available
	req.Header.Add("Accept", acceptHeader)

	res, err := client.Do(req)
	if err != nil {
		return nil, nil, nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, nil, nil, NewJsonLdError(LoadingDocumentFailed,
			fmt.Sprintf("URL '%s' could not be dereferenced: bad response status code: %d", u, res.StatusCode))
	}

	remoteDoc := &RemoteDocument{DocumentURL: res.Request.URL.String()}

	contentType := res.Header.Get("Content-Type")
	if linkHeader := res.Header.Get("Link"); linkHeader != "" && contentType != ApplicationJSONLDType {
		parsedLinkHeader := ParseLinkHeader(linkHeader)

		contextLink := parsedLinkHeader[linkHeaderRel]
		if contextLink != nil && (contentType == "application/json" || rApplicationJSON.MatchString(contentType)) {
			if len(contextLink) > 1 {
				return nil, nil, nil, NewJsonLdError(MultipleContextLinkHeaders, nil)
			}
			remoteDoc.ContextURL = PrependBase(remoteDoc.DocumentURL, contextLink[0]["target"])
		}

		// If content-type is not application/ld+json, nor any other +json
		// and a link with rel=alternate and type='application/ld+json' is found,
		// use that instead
		alternateLink := parsedLinkHeader["alternate"]
		if len(alternateLink) > 0 &&
			alternateLink[0]["type"] == ApplicationJSONLDType &&
			!rApplicationJSON.MatchString(contentType) {

			if len(hops) >= MaxRedirects {
				return nil, nil, nil, NewJsonLdError(LoadingDocumentFailed,
					"URL could not be dereferenced; there were too many redirects")
			}
			for _, hop := range hops {
				if hop == u {
					return nil, nil, nil, NewJsonLdError(LoadingDocumentFailed,
						"URL could not be dereferenced; infinite redirection was detected: "+u)
				}
			}
			finalURL := PrependBase(remoteDoc.DocumentURL, alternateLink[0]["target"])
			return loadHTTP(client, finalURL, append(hops, u))
		}
	}

	remoteDoc.Document, err = DocumentFromReader(res.Body)
	if err != nil {
		return nil, nil, nil, err
	}
	return remoteDoc, req, res, nil
}

var rSplitOnComma = regexp.MustCompile("(?:<[^>]*?>|\"[^\"]*?\"|[^,])+")
var rLinkHeader = regexp.MustCompile(`\s*<([^>]*?)>\s*(?:;\s*(.*))?`)
var rApplicationJSON = regexp.MustCompile(`^application/(\w*\+)?json$`)
var rParams = regexp.MustCompile("(.*?)=(?:(?:\"([^\"]*?)\")|([^\"]*?))\\s*(?:(?:;\\s*)|$)")

// ParseLinkHeader parses a link header. The results will be keyed by the value of "rel".
//
//	Link: <http://json-ld.org/contexts/person.jsonld>; \
//	  rel="http://www.w3.org/ns/json-ld#context"; type="application/ld+json"
//
//	Parses as: {
//	  'http://www.w3.org/ns/json-ld#context': {
//	    target: http://json-ld.org/contexts/person.jsonld,
//	    rel:    http://www.w3.org/ns/json-ld#context
//	  }
//	}
//
// If there is more than one "rel" with the same IRI, then entries in the
// resulting map for that "rel" will be lists.
func ParseLinkHeader(header string) map[string][]map[string]string {

	rval := make(map[string][]map[string]string)

	// split on unbracketed/unquoted commas
	entries := rSplitOnComma.FindAllString(header, -1)
	if len(entries) == 0 {
		return rval
	}

	for _, entry := range entries {
		match := rLinkHeader.FindStringSubmatch(entry)
		if match == nil {
			continue
		}

		result := map[string]string{
			"target": match[1],
		}
		params := match[2]
		matches := rParams.FindAllStringSubmatch(params, -1)
		for _, match := range matches {
			if match[2] == "" {
				result[match[1]] = match[3]
			} else {
				result[match[1]] = match[2]
			}
		}
		rel := result["rel"]
		rval[rel] = append(rval[rel], result)
	}
	return rval
}

// CachingDocumentLoader is an overlay on top of DocumentLoader instance
// which allows caching documents as soon as they get retrieved
// from the underlying loader. You may also preload it with documents -
// this is useful for testing.
type CachingDocumentLoader struct {
	nextLoader DocumentLoader
	mu         sync.RWMutex
	cache      map[string]*RemoteDocument
}

// NewCachingDocumentLoader creates a new instance of CachingDocumentLoader.
func NewCachingDocumentLoader(nextLoader DocumentLoader) *CachingDocumentLoader {
	rval := &CachingDocumentLoader{
		nextLoader: nextLoader,
		cache:      make(map[string]*RemoteDocument),
	}

	return rval
}

// LoadDocument returns a RemoteDocument containing the contents of the JSON resource
// from the given URL.
func (cdl *CachingDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	cdl.mu.RLock()
	doc, cached := cdl.cache[u]
	cdl.mu.RUnlock()
	if cached {
		return doc, nil
	}

	if cdl.nextLoader == nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, "document not found: "+u)
	}
	doc, err := cdl.nextLoader.LoadDocument(u)
	if err != nil {
		return nil, err
	}
	cdl.mu.Lock()
	cdl.cache[u] = doc
	cdl.mu.Unlock()
	return doc, nil
}

// AddDocument populates the cache with the given document (doc) for the provided URL (u).
func (cdl *CachingDocumentLoader) AddDocument(u string, doc interface{}) {
	cdl.mu.Lock()
	cdl.cache[u] = &RemoteDocument{DocumentURL: u, Document: doc, ContextURL: ""}
	cdl.mu.Unlock()
}

// PreloadWithMapping populates the cache with a number of documents which may be loaded
// from location different from the original URL (most importantly, from local files,
// which needs a next loader with AllowFiles set).
//
// Example:
//
//	l.PreloadWithMapping(map[string]string{
//	    "http://www.example.com/context.json": "/home/me/cache/example_com_context.json",
//	})
func (cdl *CachingDocumentLoader) PreloadWithMapping(urlMap map[string]string) error {
	for srcURL, mappedURL := range urlMap {
		doc, err := cdl.nextLoader.LoadDocument(mappedURL)
		if err != nil {
			return err
		}
		cdl.mu.Lock()
		cdl.cache[srcURL] = doc
		cdl.mu.Unlock()
	}
	return nil
}

type cachedRemoteDocument struct {
	remoteDocument *RemoteDocument
	expireTime     time.Time
	neverExpires   bool
}

// RFC7324CachingDocumentLoader respects RFC7324 caching headers in order to
// cache effectively
type RFC7324CachingDocumentLoader struct {
	httpClient *http.Client
	// AllowFiles has the same meaning as in DefaultDocumentLoader. Files
	// never expire from the cache.
	AllowFiles bool
	mu         sync.Mutex
	cache      map[string]*cachedRemoteDocument
	now        func() time.Time
}

// NewRFC7324CachingDocumentLoader creates a new RFC7324CachingDocumentLoader
func NewRFC7324CachingDocumentLoader(httpClient *http.Client) *RFC7324CachingDocumentLoader {
	return &RFC7324CachingDocumentLoader{
		httpClient: redirectLimitedClient(httpClient),
		cache:      make(map[string]*cachedRemoteDocument),
		now:        time.Now,
	}
}

// LoadDocument returns a RemoteDocument containing the contents of the JSON resource
// from the given URL.
func (rcdl *RFC7324CachingDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	now := rcdl.now()

	rcdl.mu.Lock()
	entry, ok := rcdl.cache[u]
	rcdl.mu.Unlock()

	// First we check if we hit in the cache, and the cache entry is valid
	// We need to check if expireTime >= now, so we negate the comparison below
	if ok && (entry.neverExpires || entry.expireTime.After(now)) {
		return entry.remoteDocument, nil
	}

	parsedURL, err := url.Parse(u)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, fmt.Sprintf("error parsing URL: %s", u))
	}

	var remoteDoc *RemoteDocument
	cacheEntry := &cachedRemoteDocument{}
	shouldCache := false

	protocol := parsedURL.Scheme
	if protocol != "http" && protocol != "https" {
		remoteDoc, err = loadFile(u, rcdl.AllowFiles)
		if err != nil {
			return nil, err
		}
		cacheEntry.neverExpires = true
		shouldCache = true
	} else {
		var req *http.Request
		var res *http.Response
		remoteDoc, req, res, err = loadHTTP(rcdl.httpClient, u, nil)
		if err != nil {
			return nil, err
		}

		reasons, resExpireTime, err := cachecontrol.CachableResponse(req, res, cachecontrol.Options{})
		// If there are no errors parsing cache headers and there are no reasons not to cache, then we cache
		if err == nil && len(reasons) == 0 {
			shouldCache = true
			cacheEntry.expireTime = resExpireTime
		}
	}

	if shouldCache {
		cacheEntry.remoteDocument = remoteDoc
		rcdl.mu.Lock()
		rcdl.cache[u] = cacheEntry
		rcdl.mu.Unlock()
	}

	return remoteDoc, nil
}
