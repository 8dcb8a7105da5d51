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

import "bytes"

// This file implements spec.md §4.2.5: link reference definitions are
// recognized only at the start of a paragraph that is about to close, by
// repeatedly peeling a "[label]: destination \"title\"" construct off the
// front of its lines. The destination/title/label grammar it shares with
// inline_links.go is grounded on references.go's labelSpan/destinationSpan
// handling (the teacher parsed these only as part of a full reference
// table pass; here the same grammar feeds refStore directly as the block
// parser discovers it).

// extractRefDefs peels as many leading link reference definitions as
// possible off lines, registering each with bc.refs, and returns the
// remaining lines that still belong to the paragraph (possibly empty).
func (bc *blockCompiler) extractRefDefs(lines []Range) []Range {
	for len(lines) > 0 {
		n, ok := bc.tryParseRefDef(lines)
		if !ok {
			break
		}
		lines = lines[n:]
	}
	return lines
}

func (bc *blockCompiler) tryParseRefDef(lines []Range) (consumed int, ok bool) {
	maxLines := len(lines)
	if maxLines > 5 {
		// A reference definition spanning more than a handful of physical
		// lines is vanishingly rare in practice; capping the search keeps
		// this from being quadratic in pathological inputs.
		maxLines = 5
	}
	for n := 1; n <= maxLines; n++ {
		joined := joinLines(bc.input, lines[:n])
		label, dest, title, hasTitle, rest, parsed := parseLinkRefDefText(joined)
		if parsed && isAllBlankBytes([]byte(rest)) {
			bc.refs.insert(normalizeLabel(label), refDefinition{dest: dest, title: title, hasTitle: hasTitle})
			return n, true
		}
	}
	return 0, false
}

func joinLines(input []byte, lines []Range) string {
	if len(lines) == 1 {
		return string(lines[0].Slice(input))
	}
	var buf bytes.Buffer
	for i, r := range lines {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(r.Slice(input))
	}
	return buf.String()
}

func isAllBlankBytes(b []byte) bool {
	for _, c := range b {
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return false
		}
	}
	return true
}

// parseLinkRefDefText attempts to parse text as a complete link reference
// definition, returning the unparsed remainder (which must be all-blank
// for the definition to be considered valid by the caller).
func parseLinkRefDefText(text string) (label, dest, title string, hasTitle bool, rest string, ok bool) {
	b := []byte(text)
	indent, skip := countIndent(b)
	if indent >= codeBlockIndentLimit {
		return "", "", "", false, "", false
	}
	i := skip
	lbl, i2, ok2 := parseLinkLabel(b, i)
	if !ok2 {
		return "", "", "", false, "", false
	}
	i = i2
	if i >= len(b) || b[i] != ':' {
		return "", "", "", false, "", false
	}
	i++
	i = skipLinkWhitespace(b, i)
	d, i3, ok3 := parseLinkDestination(b, i)
	if !ok3 {
		return "", "", "", false, "", false
	}
	i = i3

	afterDest := i
	t := ""
	titleStart := skipLinkWhitespace(b, i)
	if titleStart > afterDest && titleStart < len(b) {
		if parsedTitle, i4, ok4 := parseLinkTitle(b, titleStart); ok4 && isAllBlankBytes(restOfLine(b, i4)) {
			t = parsedTitle
			hasTitle = true
			i = i4
		} else {
			i = afterDest
		}
	}
	return lbl, d, t, hasTitle, string(b[i:]), true
}

func restOfLine(b []byte, i int) []byte {
	j := i
	for j < len(b) && b[j] != '\n' {
		j++
	}
	return b[i:j]
}

func skipLinkWhitespace(b []byte, i int) int {
	sawNewline := false
	for i < len(b) {
		switch b[i] {
		case ' ', '\t', '\r':
			i++
		case '\n':
			if sawNewline {
				return i
			}
			sawNewline = true
			i++
		default:
			return i
		}
	}
	return i
}

// parseLinkLabel parses a "[...]" link label starting at s[i]=='[',
// rejecting unescaped nested brackets and labels over 999 bytes (spec.md
// §4.4.3). It returns the raw (unnormalized) label text.
func parseLinkLabel(s []byte, i int) (label string, next int, ok bool) {
	if i >= len(s) || s[i] != '[' {
		return "", i, false
	}
	j := i + 1
	start := j
	for j < len(s) {
		c := s[j]
		switch {
		case c == '\\' && j+1 < len(s):
			j += 2
		case c == '[':
			return "", i, false
		case c == ']':
			if j == start || j-start > 999 {
				return "", i, false
			}
			return string(s[start:j]), j + 1, true
		default:
			j++
		}
	}
	return "", i, false
}

// parseLinkDestination parses a link destination at s[i:], either the
// bracketed "<...>" form or the bare form with balanced parentheses up to
// maxLinkParenDepth (spec.md §4.4.3).
func parseLinkDestination(s []byte, i int) (dest string, next int, ok bool) {
	if i < len(s) && s[i] == '<' {
		j := i + 1
		start := j
		for j < len(s) {
			c := s[j]
			switch {
			case c == '\\' && j+1 < len(s):
				j += 2
			case c == '<' || c == '\n':
				return "", i, false
			case c == '>':
				return unescapeText(s[start:j]), j + 1, true
			default:
				j++
			}
		}
		return "", i, false
	}
	j := i
	start := i
	depth := 0
loop:
	for j < len(s) {
		c := s[j]
		switch {
		case c == '\\' && j+1 < len(s):
			j += 2
		case isASCIISpace(c) || c == '\n' || c < 0x20:
			break loop
		case c == '(':
			depth++
			if depth > maxLinkParenDepth {
				return "", i, false
			}
			j++
		case c == ')':
			if depth == 0 {
				break loop
			}
			depth--
			j++
		default:
			j++
		}
	}
	if j == start || depth != 0 {
		return "", i, false
	}
	return unescapeText(s[start:j]), j, true
}

// parseLinkTitle parses a link title delimited by '"', '\'', or balanced
// '(' ')' (spec.md §4.4.3).
func parseLinkTitle(s []byte, i int) (title string, next int, ok bool) {
	if i >= len(s) {
		return "", i, false
	}
	var closer byte
	switch s[i] {
	case '"':
		closer = '"'
	case '\'':
		closer = '\''
	case '(':
		closer = ')'
	default:
		return "", i, false
	}
	j := i + 1
	start := j
	for j < len(s) {
		c := s[j]
		switch {
		case c == '\\' && j+1 < len(s):
			j += 2
		case c == closer:
			return unescapeText(s[start:j]), j + 1, true
		case closer == ')' && c == '(':
			return "", i, false
		default:
			j++
		}
	}
	return "", i, false
}

// unescapeText resolves CommonMark backslash escapes in a link
// destination or title. Entity references are left as written, and no
// later pass decodes them in destinations or titles.
func unescapeText(s []byte) string {
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && isEscapable(s[i+1]) {
			buf = append(buf, s[i+1])
			i++
			continue
		}
		buf = append(buf, s[i])
	}
	return string(buf)
}
