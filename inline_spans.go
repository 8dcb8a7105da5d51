// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package commonmark

import (
	"bytes"

	"golang.org/x/net/html"
)

// This file's code-span, raw-HTML, autolink, entity, and escape scanners
// are grounded on inlines.go's codeSpan/htmlTag/autolink matchers
// (_examples/zombiezen-go-commonmark), generalized from building Inline
// AST nodes to returning a span plus the byte offset to resume scanning
// from. Entity decoding reuses golang.org/x/net/html.UnescapeString
// instead of a hand-written named-entity table, matching parse_html.go's
// choice of the same package for HTML-aware work.

// codeSpanIndex precomputes the position of every backtick run on a physical
// line, bucketed by exact run length, so tryCodeSpan's closer search becomes
// an amortized O(1) lookup instead of an O(line length) rescan per attempt
// (spec.md §4.4.2's "first-unused-mark-per-length" cache, guarding §8's
// Termination property against inputs with many distinct backtick run
// lengths). Lengths beyond maxCodeSpanLengths are not tracked; such runs
// fall back to an uncached, immediate failure, which is safe since a code
// span delimiter that long is vanishingly rare in practice.
type codeSpanIndex struct {
	positions [maxCodeSpanLengths + 1][]int
	cursor    [maxCodeSpanLengths + 1]int
}

// buildCodeSpanIndex scans line once, recording the start offset of every
// maximal backtick run, bucketed by its length.
func buildCodeSpanIndex(line []byte) codeSpanIndex {
	var idx codeSpanIndex
	i := 0
	for i < len(line) {
		if line[i] != '`' {
			i++
			continue
		}
		start := i
		n := 0
		for i < len(line) && line[i] == '`' {
			i++
			n++
		}
		if n <= maxCodeSpanLengths {
			idx.positions[n] = append(idx.positions[n], start)
		}
	}
	return idx
}

// tryCodeSpan attempts to parse a backtick code span starting at line[i]
// (spec.md §4.4.1). Returns the content range (with a single matching
// leading/trailing space stripped per the spec) and the offset to resume
// scanning from: on failure this is the end of the opening run, since a
// failed backtick string is CommonMark's one literal text token, not a
// prefix to keep re-probing one byte at a time.
func tryCodeSpan(line []byte, i, base int, idx *codeSpanIndex) (next int, content Range, ok bool) {
	n := 0
	for i+n < len(line) && line[i+n] == '`' {
		n++
	}
	end := i + n
	if n > maxCodeSpanLengths {
		return end, Range{}, false
	}
	positions := idx.positions[n]
	cur := idx.cursor[n]
	for cur < len(positions) && positions[cur] <= i {
		cur++
	}
	idx.cursor[n] = cur
	if cur >= len(positions) {
		return end, Range{}, false
	}
	j := positions[cur]
	k := j + n
	cs, ce := end, j
	if ce > cs && line[cs] == ' ' && line[ce-1] == ' ' && !allBytesSpace(line[cs:ce]) {
		cs++
		ce--
	}
	return k, newRange(base+cs, base+ce), true
}

func allBytesSpace(b []byte) bool {
	for _, c := range b {
		if c != ' ' {
			return false
		}
	}
	return true
}

// tryMathSpan attempts to parse a "$...$" or "$$...$$" math span starting
// at line[i] (SPEC_FULL.md §10's Math extension, grounded on
// original_source/src/inline/math.rs since the teacher has no math
// support). Only a single source line is considered: display math
// spanning multiple lines is a known simplification documented in
// DESIGN.md.
func tryMathSpan(line []byte, i, base int) (next int, content Range, display bool, ok bool) {
	if i >= len(line) || line[i] != '$' {
		return i, Range{}, false, false
	}
	if i+1 < len(line) && line[i+1] == '$' {
		idx := bytes.Index(line[i+2:], []byte("$$"))
		if idx < 0 {
			return i, Range{}, false, false
		}
		return i + 2 + idx + 2, newRange(base+i+2, base+i+2+idx), true, true
	}
	j := i + 1
	for j < len(line) {
		if line[j] == '\\' && j+1 < len(line) {
			j += 2
			continue
		}
		if line[j] == '$' {
			if j == i+1 {
				return i, Range{}, false, false
			}
			if line[i+1] == ' ' || line[j-1] == ' ' {
				return i, Range{}, false, false
			}
			return j + 1, newRange(base+i+1, base+j), false, true
		}
		j++
	}
	return i, Range{}, false, false
}

// tryAutolink attempts to parse a "<scheme:...>" absolute-URI or
// "<user@host>" email autolink starting at line[i] (spec.md §4.4.1).
func tryAutolink(line []byte, i int) (next int, url string, isEmail bool, ok bool) {
	if i >= len(line) || line[i] != '<' {
		return i, "", false, false
	}
	k := i + 1
	for k < len(line) {
		c := line[k]
		if c == '<' || c <= ' ' {
			return i, "", false, false
		}
		if c == '>' {
			break
		}
		k++
	}
	if k >= len(line) {
		return i, "", false, false
	}
	content := string(line[i+1 : k])
	if isAbsoluteURIText(content) {
		return k + 1, content, false, true
	}
	if isEmailAddressText(content) {
		return k + 1, "mailto:" + content, true, true
	}
	return i, "", false, false
}

func isAbsoluteURIText(s string) bool {
	colon := -1
	for idx := 0; idx < len(s); idx++ {
		if s[idx] == ':' {
			colon = idx
			break
		}
		if idx == 0 {
			if !isASCIIAlpha(s[idx]) {
				return false
			}
			continue
		}
		if idx > 32 {
			return false
		}
		if !isAlphaNumeric(s[idx]) && s[idx] != '+' && s[idx] != '-' && s[idx] != '.' {
			return false
		}
	}
	if colon < 2 || colon+1 >= len(s) {
		return false
	}
	return true
}

func isEmailAddressText(s string) bool {
	at := bytes.IndexByte([]byte(s), '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	for i := 0; i < len(local); i++ {
		c := local[i]
		if !isAlphaNumeric(c) && c != '.' && c != '-' && c != '_' && c != '+' {
			return false
		}
	}
	if !bytes.ContainsRune([]byte(domain), '.') {
		return false
	}
	labels := bytes.Split([]byte(domain), []byte("."))
	for _, label := range labels {
		if len(label) == 0 {
			return false
		}
		for _, c := range label {
			if !isAlphaNumeric(c) && c != '-' {
				return false
			}
		}
	}
	return true
}

// tryInlineHTML attempts to parse a raw HTML span (tag, comment,
// processing instruction, declaration, or CDATA section) starting at
// line[i] (spec.md §4.4.1, grounded on parse_html.go's parseHTMLTag).
func tryInlineHTML(line []byte, i int) (next int, ok bool) {
	if i >= len(line) || line[i] != '<' {
		return i, false
	}
	j := i + 1
	switch {
	case j < len(line) && line[j] == '!':
		j++
		switch {
		case bytes.HasPrefix(line[j:], []byte("--")):
			idx := bytes.Index(line[j+2:], []byte("-->"))
			if idx < 0 {
				return i, false
			}
			return j + 2 + idx + 3, true
		case bytes.HasPrefix(line[j:], []byte("[CDATA[")):
			idx := bytes.Index(line[j+7:], []byte("]]>"))
			if idx < 0 {
				return i, false
			}
			return j + 7 + idx + 3, true
		case j < len(line) && isASCIIAlpha(line[j]):
			idx := bytes.IndexByte(line[j:], '>')
			if idx < 0 {
				return i, false
			}
			return j + idx + 1, true
		}
		return i, false
	case j < len(line) && line[j] == '?':
		idx := bytes.Index(line[j:], []byte("?>"))
		if idx < 0 {
			return i, false
		}
		return j + idx + 2, true
	}

	p := j
	if p < len(line) && line[p] == '/' {
		p++
	}
	if p >= len(line) || !isASCIIAlpha(line[p]) {
		return i, false
	}
	for p < len(line) && (isAlphaNumeric(line[p]) || line[p] == '-') {
		p++
	}
	for p < len(line) {
		switch line[p] {
		case '>':
			return p + 1, true
		case '"', '\'':
			q := line[p]
			p++
			for p < len(line) && line[p] != q {
				p++
			}
			if p >= len(line) {
				return i, false
			}
			p++
		case '<':
			return i, false
		default:
			p++
		}
	}
	return i, false
}

// tryEntity attempts to decode an HTML character reference starting at
// line[i] (spec.md §4.4.1), using golang.org/x/net/html's entity table.
func tryEntity(line []byte, i int) (next int, decoded string, ok bool) {
	if i >= len(line) || line[i] != '&' {
		return i, "", false
	}
	j := i + 1
	if j >= len(line) {
		return i, "", false
	}
	if line[j] == '#' {
		j++
		if j < len(line) && (line[j] == 'x' || line[j] == 'X') {
			j++
			start := j
			for j < len(line) && isHexDigit(line[j]) {
				j++
			}
			if j == start || j-start > 6 {
				return i, "", false
			}
		} else {
			start := j
			for j < len(line) && isASCIIDigit(line[j]) {
				j++
			}
			if j == start || j-start > 7 {
				return i, "", false
			}
		}
	} else {
		start := j
		for j < len(line) && isAlphaNumeric(line[j]) {
			j++
		}
		if j == start {
			return i, "", false
		}
	}
	if j >= len(line) || line[j] != ';' {
		return i, "", false
	}
	j++
	raw := string(line[i:j])
	decoded = html.UnescapeString(raw)
	if decoded == raw {
		return i, "", false
	}
	return j, decoded, true
}

func isHexDigit(b byte) bool {
	return isASCIIDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// tryBackslashEscape implements spec.md §4.4.1's backslash escapes.
func tryBackslashEscape(line []byte, i int) (next int, literal byte, ok bool) {
	if i+1 < len(line) && isEscapable(line[i+1]) {
		return i + 2, line[i+1], true
	}
	return i, 0, false
}
