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

	"golang.org/x/net/html/atom"
)

// This file's seven HTML-block start/end conditions (spec.md §4.2.7) are
// grounded on parse_html.go's parseHTMLTag/parseHTMLOpenTag/
// parseHTMLClosingTag family, generalized from scanning an inline HTML
// span to classifying a block's first line. kind6Tags reuses atom for tag
// name dispatch the same way parse_html.go does.

var kind6Tags = func() map[atom.Atom]bool {
	names := []string{
		"address", "article", "aside", "base", "basefont", "blockquote",
		"body", "caption", "center", "col", "colgroup", "dd", "details",
		"dialog", "dir", "div", "dl", "dt", "fieldset", "figcaption",
		"figure", "footer", "form", "frame", "frameset", "h1", "h2", "h3",
		"h4", "h5", "h6", "head", "header", "hr", "html", "iframe",
		"legend", "li", "link", "main", "menu", "menuitem", "nav",
		"noframes", "ol", "optgroup", "option", "p", "param", "section",
		"summary", "table", "tbody", "td", "tfoot", "th", "thead",
		"title", "tr", "track", "ul",
	}
	m := make(map[atom.Atom]bool, len(names))
	for _, n := range names {
		m[atom.Lookup([]byte(n))] = true
	}
	return m
}()

var kind1Tags = [][]byte{[]byte("script"), []byte("pre"), []byte("style"), []byte("textarea")}

// detectHTMLBlockStart classifies line (indentation already stripped) as
// the start of one of the seven HTML-block kinds. inParagraph disables
// kind 7, which cannot interrupt an open paragraph.
func detectHTMLBlockStart(line []byte, inParagraph bool) (HTMLBlockKind, bool) {
	if len(line) == 0 || line[0] != '<' {
		return 0, false
	}
	rest := line[1:]

	for _, name := range kind1Tags {
		if len(rest) >= len(name) && bytes.EqualFold(rest[:len(name)], name) {
			after := rest[len(name):]
			if len(after) == 0 || isSpaceOrTab(after[0]) || after[0] == '>' || after[0] == '\r' {
				return 1, true
			}
		}
	}
	if bytes.HasPrefix(rest, []byte("!--")) {
		return 2, true
	}
	if len(rest) > 0 && rest[0] == '?' {
		return 3, true
	}
	if bytes.HasPrefix(bytes.ToUpper(take(rest, 8)), []byte("![CDATA[")) {
		return 5, true
	}
	if len(rest) > 1 && rest[0] == '!' && isASCIIAlpha(rest[1]) {
		return 4, true
	}

	p := rest
	if len(p) > 0 && p[0] == '/' {
		p = p[1:]
	}
	if len(p) == 0 || !isASCIIAlpha(p[0]) {
		return 0, false
	}
	j := 1
	for j < len(p) && (isAlphaNumeric(p[j]) || p[j] == '-') {
		j++
	}
	name := p[:j]
	after := p[j:]
	a := atom.Lookup(bytes.ToLower(name))
	if kind6Tags[a] {
		if len(after) == 0 || isSpaceOrTab(after[0]) || after[0] == '>' || after[0] == '\r' ||
			(len(after) >= 2 && after[0] == '/' && after[1] == '>') {
			return 6, true
		}
	}
	if inParagraph {
		return 0, false
	}
	gt := bytes.IndexByte(rest, '>')
	if gt < 0 {
		return 0, false
	}
	for _, b := range rest[gt+1:] {
		if !isSpaceOrTab(b) && b != '\r' {
			return 0, false
		}
	}
	return 7, true
}

func take(b []byte, n int) []byte {
	if n > len(b) {
		return b
	}
	return b[:n]
}

// htmlBlockClosesOnSameLine reports whether line (the line that just
// opened, or is continuing, an HTML block of the given kind) also
// contains that kind's close condition. Kinds 6 and 7 only close on a
// following blank line (spec.md §4.2.7), handled in onBlankLine.
func htmlBlockClosesOnSameLine(kind HTMLBlockKind, line []byte) bool {
	switch kind {
	case 1:
		upper := bytes.ToUpper(line)
		for _, needle := range [][]byte{[]byte("</SCRIPT>"), []byte("</PRE>"), []byte("</STYLE>"), []byte("</TEXTAREA>")} {
			if bytes.Contains(upper, needle) {
				return true
			}
		}
		return false
	case 2:
		return bytes.Contains(line, []byte("-->"))
	case 3:
		return bytes.Contains(line, []byte("?>"))
	case 4:
		return bytes.Contains(line, []byte(">"))
	case 5:
		return bytes.Contains(line, []byte("]]>"))
	default:
		return false
	}
}

// continueHTMLBlock appends line as a raw line of the currently open HTML
// block and closes it if its same-line close condition now matches.
func (bc *blockCompiler) continueHTMLBlock(line []byte, base, pos int) {
	content := line[pos:]
	bc.emit(BlockEvent{Kind: HTMLBlockLine, Text: newRange(base+pos, base+len(line))})
	if htmlBlockClosesOnSameLine(bc.leaf.htmlKind, content) {
		bc.closeLeaf()
	}
}
