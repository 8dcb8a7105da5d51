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

// This file's matchers are grounded on blocks.go's parseThematicBreak,
// parseBlockQuote, and parseATXHeading (teacher), generalized from the
// teacher's tree-building blockParser to plain functions that the
// event-emitting state machine in block_parser.go calls directly.

const codeBlockIndentLimit = 4

// parseThematicBreak attempts to parse line as a thematic break (spec.md
// §4.2.3's leaf-phase candidate list). line must have leading indentation
// already stripped. Returns -1 if line is not a thematic break.
func parseThematicBreak(line []byte) (end int) {
	n := 0
	var want byte
	for i, b := range line {
		switch b {
		case '-', '_', '*':
			if n == 0 {
				want = b
			} else if b != want {
				return -1
			}
			n++
			end = i + 1
		case ' ', '\t', '\r':
			// ignored
		default:
			return -1
		}
	}
	if n < 3 {
		return -1
	}
	return end
}

// parseBlockQuoteMarker attempts to parse a '>' block-quote marker
// (optionally followed by one space) from the start of line.
func parseBlockQuoteMarker(line []byte) (end int) {
	if len(line) == 0 || line[0] != '>' {
		return -1
	}
	if len(line) > 1 && line[1] == ' ' {
		return 2
	}
	if len(line) > 1 && line[1] == '\t' {
		return 2
	}
	return 1
}

type atxHeading struct {
	level        int
	contentStart int
	contentEnd   int
}

// parseATXHeading attempts to parse line as an ATX heading. level is zero
// if line is not an ATX heading.
func parseATXHeading(line []byte) atxHeading {
	var h atxHeading
	for h.level < len(line) && line[h.level] == '#' {
		h.level++
	}
	if h.level == 0 || h.level > 6 {
		return atxHeading{}
	}
	i := h.level
	if i >= len(line) {
		h.contentStart, h.contentEnd = i, i
		return h
	}
	if !isSpaceOrTab(line[i]) {
		return atxHeading{}
	}
	for i < len(line) && isSpaceOrTab(line[i]) {
		i++
	}
	h.contentStart = i
	h.contentEnd = len(line)
	for h.contentEnd > h.contentStart && isSpaceOrTab(line[h.contentEnd-1]) {
		h.contentEnd--
	}
	// Strip an optional closing sequence of hashes.
	end := h.contentEnd
	hashStart := end
	for hashStart > h.contentStart && line[hashStart-1] == '#' {
		hashStart--
	}
	if hashStart < end && (hashStart == h.contentStart || isSpaceOrTab(line[hashStart-1])) {
		h.contentEnd = hashStart
		for h.contentEnd > h.contentStart && isSpaceOrTab(line[h.contentEnd-1]) {
			h.contentEnd--
		}
	}
	return h
}

// parseSetextUnderline reports whether line is a setext heading underline
// and, if so, which level it promotes the preceding paragraph to.
func parseSetextUnderline(line []byte) (level int, ok bool) {
	if len(line) == 0 {
		return 0, false
	}
	switch line[0] {
	case '=':
		for _, b := range line {
			if b != '=' && !isSpaceOrTab(b) && b != '\r' {
				return 0, false
			}
		}
		return 1, true
	case '-':
		for _, b := range line {
			if b != '-' && !isSpaceOrTab(b) && b != '\r' {
				return 0, false
			}
		}
		return 2, true
	default:
		return 0, false
	}
}

type fenceInfo struct {
	char   byte
	length int
	info   Range // relative to the caller's base offset
	ok     bool
}

// parseFenceOpen attempts to parse line as a fenced-code opener (spec.md
// §4.2.4). base is the absolute offset of line[0] in the source buffer, so
// the returned Info range is directly usable.
func parseFenceOpen(line []byte, base int) fenceInfo {
	if len(line) == 0 {
		return fenceInfo{}
	}
	ch := line[0]
	if ch != '`' && ch != '~' {
		return fenceInfo{}
	}
	n := 0
	for n < len(line) && line[n] == ch {
		n++
	}
	if n < 3 {
		return fenceInfo{}
	}
	infoStart := n
	for infoStart < len(line) && isSpaceOrTab(line[infoStart]) {
		infoStart++
	}
	infoEnd := len(line)
	for infoEnd > infoStart && (isSpaceOrTab(line[infoEnd-1]) || line[infoEnd-1] == '\r') {
		infoEnd--
	}
	if ch == '`' {
		for _, b := range line[infoStart:infoEnd] {
			if b == '`' {
				return fenceInfo{}
			}
		}
	}
	return fenceInfo{
		char:   ch,
		length: n,
		info:   newRange(base+infoStart, base+infoEnd),
		ok:     true,
	}
}

// parseFenceClose reports whether line closes a fence of the given
// character and length (indentation already stripped, up to 3 columns).
func parseFenceClose(line []byte, ch byte, minLength int) bool {
	indent, rest := countIndent(line)
	if indent >= codeBlockIndentLimit {
		return false
	}
	body := line[rest:]
	n := 0
	for n < len(body) && body[n] == ch {
		n++
	}
	if n < minLength {
		return false
	}
	for _, b := range body[n:] {
		if !isSpaceOrTab(b) && b != '\r' {
			return false
		}
	}
	return true
}

// parseOrderedMarker attempts to parse an ordered-list marker ("1.", "2)",
// ...) from the start of line. Returns ok=false if there are more than
// maxOrderedListDigits digits (spec.md §5/§8 boundary behavior).
func parseOrderedMarker(line []byte) (value int, delim byte, length int, ok bool) {
	i := 0
	for i < len(line) && isASCIIDigit(line[i]) {
		i++
		if i > maxOrderedListDigits {
			return 0, 0, 0, false
		}
	}
	if i == 0 || i >= len(line) {
		return 0, 0, 0, false
	}
	if line[i] != '.' && line[i] != ')' {
		return 0, 0, 0, false
	}
	delim = line[i]
	for _, b := range line[:i] {
		value = value*10 + int(b-'0')
	}
	return value, delim, i + 1, true
}

// parseBulletMarker attempts to parse a bullet-list marker ('-', '*', '+')
// from the start of line. It rejects '-'/'*' sequences that are actually a
// thematic break by requiring the caller to check that first.
func parseBulletMarker(line []byte) (ch byte, length int, ok bool) {
	if len(line) == 0 {
		return 0, 0, false
	}
	switch line[0] {
	case '-', '*', '+':
		return line[0], 1, true
	default:
		return 0, 0, false
	}
}

// parseTaskMarker recognizes "[ ] ", "[x] ", "[X] " at the very start of a
// list item's first content line (spec.md §9(b): no leading blank
// accepted; this function assumes the caller has already verified it is
// looking at the first content line).
func parseTaskMarker(line []byte) (state TaskState, length int) {
	if len(line) < 4 || line[0] != '[' || line[2] != ']' {
		return NoTask, 0
	}
	switch line[1] {
	case ' ':
		state = TaskUnchecked
	case 'x', 'X':
		state = TaskChecked
	default:
		return NoTask, 0
	}
	if !isSpaceOrTab(line[3]) {
		return NoTask, 0
	}
	return state, 4
}

// parseFootnoteDefMarker recognizes a footnote definition marker
// ("[^label]:") at the start of a line (spec.md §9(c)/SPEC_FULL.md §10.1,
// grounded on original_source's footnote.rs since the teacher has no
// footnote support). Only valid at the top of the container stack; the
// caller enforces that restriction.
func parseFootnoteDefMarker(line []byte) (label string, length int, ok bool) {
	if len(line) < 4 || line[0] != '[' || line[1] != '^' {
		return "", 0, false
	}
	end := -1
	for i := 2; i < len(line); i++ {
		if line[i] == ']' {
			end = i
			break
		}
		if line[i] == '[' {
			return "", 0, false
		}
	}
	if end < 0 || end == 2 {
		return "", 0, false
	}
	if end+1 >= len(line) || line[end+1] != ':' {
		return "", 0, false
	}
	return string(line[2:end]), end + 2, true
}

var calloutClasses = map[string]string{
	"NOTE":      "note",
	"TIP":       "tip",
	"IMPORTANT": "important",
	"WARNING":   "warning",
	"CAUTION":   "caution",
}

// parseCalloutMarker recognizes a GitHub-style admonition marker
// ("[!NOTE]", etc.) at the start of a blockquote's first line (spec.md §6.1
// "callouts", SPEC_FULL.md §10.1 grounded on original_source's
// block/parser.rs callout detection).
func parseCalloutMarker(line []byte) (class string, rest int, ok bool) {
	if len(line) < 3 || line[0] != '[' || line[1] != '!' {
		return "", 0, false
	}
	end := -1
	for i := 2; i < len(line); i++ {
		if line[i] == ']' {
			end = i
			break
		}
	}
	if end < 0 {
		return "", 0, false
	}
	name := string(line[2:end])
	class, known := calloutClasses[name]
	if !known {
		return "", 0, false
	}
	rest = end + 1
	for rest < len(line) && isSpaceOrTab(line[rest]) {
		rest++
	}
	return class, rest, true
}
