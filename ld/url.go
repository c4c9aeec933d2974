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
	"regexp"
	"strings"
)

// JsonLdUrl represents a URL split into the RFC 3986 components used when
// resolving relative references. The Has* flags tell an absent component
// from an empty one.
type JsonLdUrl struct { //nolint:stylecheck
	Href      string
	Scheme    string
	Authority string
	Path      string
	Query     string
	Fragment  string

	HasAuthority bool
	HasQuery     bool
	HasFragment  bool
}

var parser = regexp.MustCompile(`^(?:([^:/?#]+):)?(?://((?:[^:@/?#]*(?::[^:@/?#]*)?@)?[^:/?#]*(?::\d*)?))?([^?#]*)(?:\?([^#]*))?(?:#(.*))?`)

// ParseURL parses a string URL into JsonLdUrl struct.
func ParseURL(urlStr string) *JsonLdUrl {
	rval := &JsonLdUrl{Href: urlStr}

	m := parser.FindStringSubmatchIndex(urlStr)
	if m == nil {
		rval.Path = urlStr
		return rval
	}
	group := func(i int) (string, bool) {
		if m[2*i] < 0 {
			return "", false
		}
		return urlStr[m[2*i]:m[2*i+1]], true
	}

	rval.Scheme, _ = group(1)
	rval.Authority, rval.HasAuthority = group(2)
	rval.Path, _ = group(3)
	rval.Query, rval.HasQuery = group(4)
	rval.Fragment, rval.HasFragment = group(5)

	// drop default ports
	if (rval.Scheme == "https" && strings.HasSuffix(rval.Authority, ":443")) ||
		(rval.Scheme == "http" && strings.HasSuffix(rval.Authority, ":80")) {
		rval.Authority = rval.Authority[:strings.LastIndexByte(rval.Authority, ':')]
	}

	return rval
}

// PrependBase resolves iri against base following RFC 3986 section 5.2.2.
// Absolute IRIs and an empty base return iri unchanged.
func PrependBase(base string, iri string) string {
	if base == "" || IsAbsoluteIri(iri) {
		return iri
	}

	b := ParseURL(base)
	rel := ParseURL(iri)

	t := &JsonLdUrl{Scheme: b.Scheme}
	if rel.HasAuthority {
		t.Authority, t.HasAuthority = rel.Authority, true
		t.Path = rel.Path
		t.Query, t.HasQuery = rel.Query, rel.HasQuery
	} else {
		t.Authority, t.HasAuthority = b.Authority, b.HasAuthority
		if rel.Path == "" {
			t.Path = b.Path
			if rel.HasQuery {
				t.Query, t.HasQuery = rel.Query, true
			} else {
				t.Query, t.HasQuery = b.Query, b.HasQuery
			}
		} else {
			if strings.HasPrefix(rel.Path, "/") {
				t.Path = rel.Path
			} else {
				// merge with the base directory
				path := b.Path[:strings.LastIndexByte(b.Path, '/')+1]
				if (path != "" || b.Authority != "") && !strings.HasSuffix(path, "/") {
					path += "/"
				}
				t.Path = path + rel.Path
			}
			t.Query, t.HasQuery = rel.Query, rel.HasQuery
		}
	}

	if rel.Path != "" {
		t.Path = RemoveDotSegments(t.Path)
	}

	var sb strings.Builder
	if t.Scheme != "" {
		sb.WriteString(t.Scheme)
		sb.WriteByte(':')
	}
	if t.HasAuthority {
		sb.WriteString("//")
		sb.WriteString(t.Authority)
	}
	sb.WriteString(t.Path)
	if t.HasQuery {
		sb.WriteByte('?')
		sb.WriteString(t.Query)
	}
	if rel.HasFragment {
		sb.WriteByte('#')
		sb.WriteString(rel.Fragment)
	}

	rval := sb.String()
	if rval == "" {
		rval = "./"
	}
	return rval
}

// RemoveDotSegments removes "." and ".." segments from a URL path
// (RFC 3986 5.2.4, reworked).
func RemoveDotSegments(path string) string {
	if path == "" {
		return ""
	}

	input := strings.Split(path, "/")
	output := make([]string, 0, len(input))
	for i, next := range input {
		done := i == len(input)-1
		switch next {
		case ".":
			if done {
				// keep the trailing slash
				output = append(output, "")
			}
			continue
		case "..":
			if len(output) > 0 {
				output = output[:len(output)-1]
			}
			if done {
				output = append(output, "")
			}
			continue
		}
		output = append(output, next)
	}

	if strings.HasPrefix(path, "/") && len(output) > 0 && output[0] != "" {
		output = append([]string{""}, output...)
	}

	if len(output) == 1 && output[0] == "" {
		return "/"
	}

	return strings.Join(output, "/")
}
