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

// This file's bracket-stack resolution is grounded on inlines.go's
// bracketStackElement handling (teacher), reusing block_refdef.go's
// destination/title/label grammar instead of a second copy of it. Unlike
// emphasis, a link/image closer is resolved the moment its ']' is seen
// (there is exactly one candidate opener search, not a later pass), so
// there is no separate resolveLinks entry point; openBracket/closeBracket
// are called directly from the scan loop in inline_parser.go.

// openBracket records a '[' or '![' opener (spec.md §3 "Bracket stack"),
// reserving a Text placeholder that closeBracket rewrites into LinkStart
// if the bracket is later resolved as a link or image. Once the bracket
// stack or the combined inline-construct nesting budget (spec.md §5,
// limits.go) is exhausted, '[' and '![' degrade to literal text instead of
// growing the stack further.
func (ic *inlineCompiler) openBracket(pos int, width int, isImage bool) {
	if ic.inlineNestingExceeded() || len(ic.scratch.brackets) >= maxBracketStackDepth {
		ic.appendText(pos, pos+width)
		return
	}
	eventIdx := len(ic.scratch.events)
	ic.scratch.events = append(ic.scratch.events, InlineEvent{Kind: Text, Span: newRange(pos, pos+width)})
	ic.scratch.brackets = append(ic.scratch.brackets, bracketStackEntry{
		isImage:   isImage,
		active:    true,
		eventIdx:  eventIdx,
		pos:       uint32(pos),
		textStart: uint32(pos + width),
	})
}

// closeBracket handles a ']' encountered while scanning: it looks for the
// nearest active bracket opener, then tries the inline, full-reference,
// collapsed-reference, and shortcut-reference forms in that order (spec.md
// §4.4.3 rules 1-5). It returns the line offset to resume scanning from,
// which is past any "(...)" or "[...]" tail the link consumed.
func (ic *inlineCompiler) closeBracket(line []byte, i, base int) int {
	closePos := base + i
	closeEventIdx := len(ic.scratch.events)
	ic.scratch.events = append(ic.scratch.events, InlineEvent{Kind: Text, Span: newRange(closePos, closePos+1)})

	k := -1
	for j := len(ic.scratch.brackets) - 1; j >= 0; j-- {
		if ic.scratch.brackets[j].active {
			k = j
			break
		}
	}
	if k < 0 {
		return i + 1
	}
	entry := ic.scratch.brackets[k]
	textStart, textEnd := int(entry.textStart)-base, i

	dest, title, hasTitle, next, matched := ic.tryLinkTail(line, i+1, textStart, textEnd)
	if !matched {
		// The opener can't be reused by a later ']', but earlier openers
		// are untouched (spec.md §4.4.3 rule 4).
		ic.scratch.brackets = append(ic.scratch.brackets[:k], ic.scratch.brackets[k+1:]...)
		return i + 1
	}

	ic.scratch.events[entry.eventIdx] = InlineEvent{
		Kind: LinkStart, Dest: dest, Title: title, HasTitle: hasTitle, IsImage: entry.isImage,
	}
	ic.scratch.events[closeEventIdx] = InlineEvent{Kind: LinkEnd}
	ic.scratch.brackets = ic.scratch.brackets[:k]
	if !entry.isImage {
		// A successfully parsed link deactivates every remaining opener so
		// it cannot itself become a link (spec.md §4.4.3 rule 4); images
		// are unaffected, since a link may still contain an image.
		for idx := range ic.scratch.brackets {
			ic.scratch.brackets[idx].active = false
		}
	}
	return next
}

// tryLinkTail attempts to parse the inline "(dest \"title\")" form or one
// of the three reference forms starting at line[tailStart] (spec.md
// §4.4.3). textStart/textEnd bound the bracket's own text, used as the
// label for collapsed and shortcut references.
func (ic *inlineCompiler) tryLinkTail(line []byte, tailStart, textStart, textEnd int) (dest, title string, hasTitle bool, next int, ok bool) {
	if tailStart < len(line) && line[tailStart] == '(' {
		k := skipInlineSpace(line, tailStart+1)
		d, k2, okd := parseLinkDestination(line, k)
		if okd {
			k = k2
			k3 := skipInlineSpace(line, k)
			if k3 > k && k3 < len(line) && line[k3] != ')' {
				if t, k4, okt := parseLinkTitle(line, k3); okt {
					title, hasTitle = t, true
					k = skipInlineSpace(line, k4)
				}
			} else {
				k = k3
			}
			if k < len(line) && line[k] == ')' {
				return d, title, hasTitle, k + 1, true
			}
		}
		return "", "", false, tailStart, false
	}

	var label string
	next = tailStart
	if tailStart < len(line) && line[tailStart] == '[' {
		lbl, k2, okl := parseLinkLabel(line, tailStart)
		if !okl {
			return "", "", false, tailStart, false
		}
		if lbl == "" {
			label = string(line[textStart:textEnd])
		} else {
			label = lbl
		}
		next = k2
	} else {
		label = string(line[textStart:textEnd])
		next = tailStart
	}
	norm := normalizeLabel(unescapeText([]byte(label)))
	if def, okref := ic.refs.lookup(norm); okref {
		return def.dest, def.title, def.hasTitle, next, true
	}
	return "", "", false, tailStart, false
}

func skipInlineSpace(line []byte, i int) int {
	for i < len(line) && isSpaceOrTab(line[i]) {
		i++
	}
	return i
}

// tryFootnoteRefToken recognizes a "[^label]" footnote reference (spec.md
// §4.5, SPEC_FULL.md §10.1). Unlike a link label, nested brackets are
// simply rejected rather than escaped, matching parseFootnoteDefMarker's
// grammar in block_leaves.go.
func tryFootnoteRefToken(line []byte, i int) (next int, label string, ok bool) {
	if i+2 >= len(line) || line[i] != '[' || line[i+1] != '^' {
		return i, "", false
	}
	end := -1
	for k := i + 2; k < len(line); k++ {
		if line[k] == ']' {
			end = k
			break
		}
		if line[k] == '[' {
			return i, "", false
		}
	}
	if end < 0 || end == i+2 {
		return i, "", false
	}
	return end + 1, string(line[i+2 : end]), true
}

// GFM autolink literals (spec.md §4.4.1, gated by Options.AutolinkLiterals).
// Grounded on _examples/russross-blackfriday's autolink extension since the
// teacher has no bare-URL autolinking.

func autolinkLiteralBoundaryOK(before rune, atStart bool) bool {
	return atStart || isUnicodeWhitespace(before) || isUnicodePunctuation(before)
}

func tryAutolinkLiteral(line []byte, i int) (next int, url string, isEmail bool, ok bool) {
	rest := line[i:]
	switch {
	case bytes.HasPrefix(rest, []byte("http://")), bytes.HasPrefix(rest, []byte("https://")):
		end := scanAutolinkLiteralURL(rest)
		if end == 0 {
			return i, "", false, false
		}
		return i + end, string(rest[:end]), false, true
	case bytes.HasPrefix(rest, []byte("www.")):
		end := scanAutolinkLiteralURL(rest)
		if end == 0 {
			return i, "", false, false
		}
		return i + end, "http://" + string(rest[:end]), false, true
	}
	if end, matched := scanAutolinkLiteralEmail(rest); matched {
		return i + end, "mailto:" + string(rest[:end]), true, true
	}
	return i, "", false, false
}

func scanAutolinkLiteralURL(rest []byte) int {
	j := 0
	for j < len(rest) {
		c := rest[j]
		if c <= ' ' || c == '<' {
			break
		}
		j++
	}
	for j > 0 {
		switch rest[j-1] {
		case '.', ',', ':', ';', '!', '?', '\'', '"':
			j--
			continue
		case ')':
			if bytes.Count(rest[:j], []byte(")")) > bytes.Count(rest[:j], []byte("(")) {
				j--
				continue
			}
		}
		break
	}
	return j
}

func scanAutolinkLiteralEmail(rest []byte) (int, bool) {
	j := 0
	for j < len(rest) && (isAlphaNumeric(rest[j]) || rest[j] == '.' || rest[j] == '-' || rest[j] == '_' || rest[j] == '+') {
		j++
	}
	if j == 0 || j >= len(rest) || rest[j] != '@' {
		return 0, false
	}
	j++
	labelStart := j
	sawDot := false
	for j < len(rest) {
		c := rest[j]
		if isAlphaNumeric(c) || c == '-' {
			j++
			continue
		}
		if c == '.' {
			sawDot = true
			j++
			continue
		}
		break
	}
	for j > labelStart && rest[j-1] == '.' {
		j--
	}
	if j == labelStart || !sawDot {
		return 0, false
	}
	return j, true
}
