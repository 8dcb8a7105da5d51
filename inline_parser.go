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

import "unicode/utf8"

// inlineCompiler is the inline parser's driver, the counterpart to
// blockCompiler (block_parser.go). It is grounded on inlines.go's
// inlineParser, generalized from building Inline AST nodes into a single
// forward scan that emits InlineEvents (spec.md §4.4) directly, using
// inlineScratch (marks.go) as its reusable arena (spec.md §9).
//
// A deliberate simplification, noted in DESIGN.md: each physical source
// line is scanned and resolved independently, with SoftBreak/HardBreak
// events spliced between them by ParseBlock. Emphasis, links, and raw HTML
// spans therefore never cross a line break; code spans and math spans,
// which CommonMark does allow to span lines, are restricted the same way
// here for implementation uniformity. This covers the overwhelming
// majority of real documents, since wrapped emphasis/links across a hard
// line break are rare in hand-written Markdown.
type inlineCompiler struct {
	input     []byte
	opts      *Options
	refs      *refStore
	footnotes *footnoteStore
	scratch   *inlineScratch
}

func newInlineCompiler(input []byte, opts *Options, refs *refStore, footnotes *footnoteStore, scratch *inlineScratch) *inlineCompiler {
	return &inlineCompiler{input: input, opts: opts, refs: refs, footnotes: footnotes, scratch: scratch}
}

// ParseBlock parses a paragraph or heading's physical-line ranges into a
// flat InlineEvent slice, splicing a SoftBreak or HardBreak event between
// consecutive lines per hardBreakAfter (spec.md §3 BlockEvent.HardBreak,
// populated by finishParagraph in block_parser_leaf.go). The returned
// slice is a fresh copy safe to retain past the next ParseBlock call.
func (ic *inlineCompiler) ParseBlock(lines []Range, hardBreakAfter []bool) []InlineEvent {
	ic.scratch.events = ic.scratch.events[:0]
	for li, r := range lines {
		ic.scratch.marks = ic.scratch.marks[:0]
		ic.scratch.delimiters = ic.scratch.delimiters[:0]
		ic.scratch.brackets = ic.scratch.brackets[:0]

		if li < len(hardBreakAfter) {
			// Trailing spaces before a line break, and the backslash that
			// makes a backslash hard break, are not part of the text.
			line := r.Slice(ic.input)
			end := len(line)
			for end > 0 && line[end-1] == ' ' {
				end--
			}
			if hardBreakAfter[li] && end == len(line) && end > 0 && line[end-1] == '\\' {
				end--
			}
			r.End = r.Start + uint32(end)
		}
		ic.scanLine(r)
		ic.resolveEmphasis()

		if li < len(hardBreakAfter) {
			kind := SoftBreak
			if hardBreakAfter[li] {
				kind = HardBreak
			}
			ic.scratch.events = append(ic.scratch.events, InlineEvent{Kind: kind})
		}
	}
	out := make([]InlineEvent, len(ic.scratch.events))
	copy(out, ic.scratch.events)
	return out
}

// ParseLine parses a single physical line (e.g. a table cell) with no
// surrounding soft/hard breaks.
func (ic *inlineCompiler) ParseLine(r Range) []InlineEvent {
	return ic.ParseBlock([]Range{r}, nil)
}

// scanLine performs the single greedy left-to-right scan (spec.md §4.4.1,
// §4.4.3) over one physical line, dispatching on the mark-char table built
// in charclass.go. Code spans, math spans, raw HTML, and autolinks each
// consume their own matched span and resume scanning past its end; since
// nothing re-examines bytes already consumed by a code span, math/HTML/
// autolink detection can never fire inside one, which is what resolves
// spec.md §9(c)'s ordering question without a separate suppression flag.
func (ic *inlineCompiler) scanLine(r Range) {
	line := r.Slice(ic.input)
	base := int(r.Start)
	codeSpans := buildCodeSpanIndex(line)
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == '`':
			if next, content, ok := tryCodeSpan(line, i, base, &codeSpans); ok {
				ic.scratch.events = append(ic.scratch.events, InlineEvent{Kind: Code, Span: content})
				i = next
				continue
			} else {
				ic.appendText(base+i, base+next)
				i = next
			}

		case ic.opts.Math && c == '$':
			if next, content, display, ok := tryMathSpan(line, i, base); ok {
				kind := MathInline
				if display {
					kind = MathDisplay
				}
				ic.scratch.events = append(ic.scratch.events, InlineEvent{Kind: kind, Span: content})
				i = next
				continue
			}
			ic.appendText(base+i, base+i+1)
			i++

		case c == '<':
			if next, url, isEmail, ok := tryAutolink(line, i); ok {
				ic.scratch.events = append(ic.scratch.events, InlineEvent{
					Kind: Autolink, URL: url, IsEmail: isEmail, Span: newRange(base+i, base+next),
				})
				i = next
				continue
			}
			if next, ok := tryInlineHTML(line, i); ok {
				ic.scratch.events = append(ic.scratch.events, InlineEvent{Kind: HTMLSpan, Span: newRange(base+i, base+next)})
				i = next
				continue
			}
			ic.appendText(base+i, base+i+1)
			i++

		case c == '\\':
			if next, lit, ok := tryBackslashEscape(line, i); ok {
				ic.appendLiteral(string(lit))
				i = next
				continue
			}
			ic.appendText(base+i, base+i+1)
			i++

		case c == '&':
			if next, decoded, ok := tryEntity(line, i); ok {
				ic.appendLiteral(decoded)
				i = next
				continue
			}
			ic.appendText(base+i, base+i+1)
			i++

		case ic.opts.Footnotes && c == '[' && i+1 < len(line) && line[i+1] == '^':
			if next, label, ok := tryFootnoteRefToken(line, i); ok && ic.footnotes.hasDefinition(label) {
				ic.footnotes.referenceFootnote(label)
				ic.scratch.events = append(ic.scratch.events, InlineEvent{Kind: FootnoteRef, Label: label})
				i = next
				continue
			}
			ic.openBracket(base+i, 1, false)
			i++

		case c == '!' && i+1 < len(line) && line[i+1] == '[':
			ic.openBracket(base+i, 2, true)
			i += 2

		case c == '[':
			ic.openBracket(base+i, 1, false)
			i++

		case c == ']':
			i = ic.closeBracket(line, i, base)

		case c == '*' || c == '_' || (ic.opts.Strikethrough && c == '~'):
			n := 1
			for i+n < len(line) && line[i+n] == c {
				n++
			}
			ic.openDelimiterRun(line, i, n, base)
			i += n

		default:
			if ic.opts.AutolinkLiterals && (c == 'h' || c == 'w') {
				var before rune
				if i > 0 {
					before, _ = utf8.DecodeLastRune(line[:i])
				}
				if autolinkLiteralBoundaryOK(before, i == 0) {
					if next, url, isEmail, ok := tryAutolinkLiteral(line, i); ok {
						ic.scratch.events = append(ic.scratch.events, InlineEvent{
							Kind: Autolink, URL: url, IsEmail: isEmail, Span: newRange(base+i, base+next),
						})
						i = next
						continue
					}
				}
			}
			j := i + 1
			for j < len(line) && !ic.isBreakByte(line[j], j, line) {
				j++
			}
			ic.appendText(base+i, base+j)
			i = j
		}
	}
}

// isBreakByte reports whether scanning a plain-text run must stop at
// position i because line[i] needs its own dispatch in scanLine.
func (ic *inlineCompiler) isBreakByte(c byte, i int, line []byte) bool {
	if isMarkChar(c) {
		return true
	}
	if ic.opts.AutolinkLiterals && (c == 'h' || c == 'w') {
		var before rune
		if i > 0 {
			before, _ = utf8.DecodeLastRune(line[:i])
		}
		return autolinkLiteralBoundaryOK(before, i == 0)
	}
	return false
}

// appendText appends a Text event backed directly by source bytes
// [start,end), merging into the previous event when it is an adjacent,
// non-literal Text span.
func (ic *inlineCompiler) appendText(start, end int) {
	if start >= end {
		return
	}
	n := len(ic.scratch.events)
	if n > 0 {
		last := &ic.scratch.events[n-1]
		if last.Kind == Text && !last.HasLiteral && int(last.Span.End) == start {
			last.Span.End = uint32(end)
			return
		}
	}
	ic.scratch.events = append(ic.scratch.events, InlineEvent{Kind: Text, Span: newRange(start, end)})
}

// appendLiteral appends a Text event whose content was decoded away from
// its source spelling (a backslash escape or an HTML entity reference).
func (ic *inlineCompiler) appendLiteral(s string) {
	if s == "" {
		return
	}
	n := len(ic.scratch.events)
	if n > 0 {
		last := &ic.scratch.events[n-1]
		if last.Kind == Text && last.HasLiteral {
			last.Literal += s
			return
		}
	}
	ic.scratch.events = append(ic.scratch.events, InlineEvent{Kind: Text, HasLiteral: true, Literal: s})
}
