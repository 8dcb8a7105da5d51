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
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/atom"
)

// htmlSink walks a completed BlockEvent stream (plus the InlineEvents it
// drives on demand) and appends HTML to dst. It is grounded on
// html_renderer.go's renderState, generalized from walking a *Block/*Inline
// tree to consuming a flat, already-closed event slice: tag emission
// (openTag/closeTag/escapeHTML/NormalizeURI) is kept essentially verbatim,
// while block/inline dispatch is rewritten around BlockEvent.Kind/
// InlineEvent.Kind switches instead of Block.Kind()/Inline.Kind().
//
// Three shapes the teacher's tree made free require explicit bookkeeping
// here, since the event stream is append-only and flat:
//
//   - Tight-list paragraph suppression needs a stack, since "is this
//     paragraph a direct child of a tight list item" can no longer be
//     answered by looking at a parent pointer.
//   - A heading's id attribute is only known once HeadingEnd's Slug field
//     arrives (the slug is computed from the heading's flattened text,
//     which finishes after the opening tag would otherwise be written), so
//     the opening tag is spliced in retroactively once the heading closes.
//   - Footnote definitions may appear anywhere in source order but render
//     as a single trailing section ordered by first reference; their
//     content is buffered per label and replayed at the end.
type htmlSink struct {
	opts      *Options
	input     []byte
	ic        *inlineCompiler
	footnotes *footnoteStore

	dst   []byte
	stack []sinkFrame

	headingStart int // dst offset where the current heading's content begins

	tableAligns    []ColumnAlign
	tableSection   string // "", "thead", or "tbody"
	tableCellIndex int

	footnoteBuf    map[string][]byte
	inFootnoteDef  bool
	footnoteOuter  []byte
	footnoteLabel  string
}

type sinkFrame struct {
	kind      BlockKind
	suppressP bool // valid only when kind == ListItemStart
}

// RenderHTML renders a fully parsed document (spec.md §6.2) to w.
func RenderHTML(w io.Writer, input []byte, blockEvents []BlockEvent, opts Options, refs *refStore, footnotes *footnoteStore) error {
	dst := AppendHTML(nil, input, blockEvents, opts, refs, footnotes)
	if _, err := w.Write(dst); err != nil {
		return fmt.Errorf("render markdown to html: %w", err)
	}
	return nil
}

// AppendHTML appends a fully parsed document's HTML to dst and returns the
// resulting slice.
func AppendHTML(dst []byte, input []byte, blockEvents []BlockEvent, opts Options, refs *refStore, footnotes *footnoteStore) []byte {
	scratch := newInlineScratch()
	s := &htmlSink{
		opts:        &opts,
		input:       input,
		ic:          newInlineCompiler(input, &opts, refs, footnotes, scratch),
		footnotes:   footnotes,
		dst:         dst,
		footnoteBuf: make(map[string][]byte),
	}
	for i := range blockEvents {
		s.block(&blockEvents[i])
	}
	s.closeTableIfOpen()
	s.appendFootnoteSection()
	return s.dst
}

func (s *htmlSink) topSuppressesP() bool {
	if len(s.stack) == 0 {
		return false
	}
	top := s.stack[len(s.stack)-1]
	return top.kind == ListItemStart && top.suppressP
}

func (s *htmlSink) push(kind BlockKind, suppressP bool) {
	s.stack = append(s.stack, sinkFrame{kind: kind, suppressP: suppressP})
}

func (s *htmlSink) pop() {
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *htmlSink) openTag(name atom.Atom) {
	s.dst = append(s.dst, '<')
	s.dst = append(s.dst, name.String()...)
	s.dst = append(s.dst, '>')
}

func (s *htmlSink) openTagAttr(name atom.Atom) {
	s.dst = append(s.dst, '<')
	s.dst = append(s.dst, name.String()...)
}

func (s *htmlSink) closeTag(name atom.Atom) {
	s.dst = append(s.dst, "</"...)
	s.dst = append(s.dst, name.String()...)
	s.dst = append(s.dst, '>')
}

func headingTag(level int) atom.Atom {
	switch level {
	case 1:
		return atom.H1
	case 2:
		return atom.H2
	case 3:
		return atom.H3
	case 4:
		return atom.H4
	case 5:
		return atom.H5
	default:
		return atom.H6
	}
}

func (s *htmlSink) block(ev *BlockEvent) {
	switch ev.Kind {
	case ParagraphStart:
		if !s.topSuppressesP() {
			s.openTag(atom.P)
		}
		s.push(ParagraphStart, false)
	case ParagraphEnd:
		s.pop()
		if !s.topSuppressesP() {
			s.closeTag(atom.P)
		}

	case HeadingStart:
		s.headingStart = len(s.dst)
	case HeadingEnd:
		tag := headingTag(ev.Level)
		inner := append([]byte(nil), s.dst[s.headingStart:]...)
		s.dst = s.dst[:s.headingStart]
		s.openTagAttr(tag)
		if s.opts.HeadingIDs && ev.Slug != "" {
			s.dst = append(s.dst, ` id="`...)
			s.dst = append(s.dst, html.EscapeString(ev.Slug)...)
			s.dst = append(s.dst, '"')
		}
		s.dst = append(s.dst, '>')
		s.dst = append(s.dst, inner...)
		s.closeTag(tag)

	case ThematicBreak:
		s.openTag(atom.Hr)

	case CodeBlockStart:
		s.openTag(atom.Pre)
		s.openTagAttr(atom.Code)
		if ev.Info.Len() > 0 {
			words := strings.Fields(ev.Info.String(s.input))
			if len(words) > 0 {
				s.dst = append(s.dst, ` class="language-`...)
				s.dst = append(s.dst, html.EscapeString(words[0])...)
				s.dst = append(s.dst, '"')
			}
		}
		s.dst = append(s.dst, '>')
	case CodeBlockText:
		s.dst = escapeHTMLInto(s.dst, ev.Text.Slice(s.input))
		s.dst = append(s.dst, '\n')
	case CodeBlockEnd:
		s.closeTag(atom.Code)
		s.closeTag(atom.Pre)

	case BlockquoteStart:
		if s.opts.Callouts && ev.IsCallout {
			s.openTagAttr(atom.Blockquote)
			s.dst = append(s.dst, ` class="callout callout-`...)
			s.dst = append(s.dst, ev.CalloutClass...)
			s.dst = append(s.dst, `">`...)
		} else {
			s.openTag(atom.Blockquote)
		}
		s.push(BlockquoteStart, false)
	case BlockquoteEnd:
		s.pop()
		s.closeTag(atom.Blockquote)

	case ListStart:
		if ev.ListKind == OrderedList {
			s.openTagAttr(atom.Ol)
			if ev.OrderedStart != 1 {
				s.dst = append(s.dst, ` start="`...)
				s.dst = strconv.AppendInt(s.dst, int64(ev.OrderedStart), 10)
				s.dst = append(s.dst, '"')
			}
			s.dst = append(s.dst, '>')
		} else {
			s.openTag(atom.Ul)
		}
		s.push(ListStart, ev.Tight)
	case ListEnd:
		s.pop()
		if ev.ListKind == OrderedList {
			s.closeTag(atom.Ol)
		} else {
			s.closeTag(atom.Ul)
		}

	case ListItemStart:
		parentTight := false
		if len(s.stack) > 0 && s.stack[len(s.stack)-1].kind == ListStart {
			parentTight = s.stack[len(s.stack)-1].suppressP
		}
		if s.opts.TaskLists && ev.Task != NoTask {
			s.openTagAttr(atom.Li)
			s.dst = append(s.dst, ` class="task-list-item"`...)
			s.dst = append(s.dst, '>')
			s.dst = append(s.dst, `<input type="checkbox" disabled`...)
			if ev.Task == TaskChecked {
				s.dst = append(s.dst, " checked"...)
			}
			s.dst = append(s.dst, "> "...)
		} else {
			s.openTag(atom.Li)
		}
		s.push(ListItemStart, parentTight)
	case ListItemEnd:
		s.pop()
		s.closeTag(atom.Li)

	case HTMLBlockStart:
		s.push(HTMLBlockStart, false)
	case HTMLBlockLine:
		if s.opts.AllowHTML {
			s.dst = append(s.dst, ev.Text.Slice(s.input)...)
		} else {
			s.dst = escapeHTMLInto(s.dst, ev.Text.Slice(s.input))
		}
		s.dst = append(s.dst, '\n')
	case HTMLBlockEnd:
		s.pop()

	case TableStart:
		s.closeTableIfOpen()
		s.openTag(atom.Table)
		s.tableAligns = ev.Aligns
		s.tableSection = ""
	case TableHeadRow:
		s.dst = append(s.dst, "<thead>"...)
		s.openTag(atom.Tr)
		s.tableSection = "thead"
		s.tableCellIndex = 0
	case TableBodyRow:
		s.closeTableRow()
		if s.tableSection != "tbody" {
			s.dst = append(s.dst, "<tbody>"...)
			s.tableSection = "tbody"
		}
		s.openTag(atom.Tr)
		s.tableCellIndex = 0
	case TableCellStart:
		tag := atom.Td
		if s.tableSection == "thead" {
			tag = atom.Th
		}
		s.openTagAttr(tag)
		if s.tableCellIndex < len(s.tableAligns) {
			switch s.tableAligns[s.tableCellIndex] {
			case AlignLeft:
				s.dst = append(s.dst, ` align="left"`...)
			case AlignRight:
				s.dst = append(s.dst, ` align="right"`...)
			case AlignCenter:
				s.dst = append(s.dst, ` align="center"`...)
			}
		}
		s.dst = append(s.dst, '>')
	case TableCellEnd:
		tag := atom.Td
		if s.tableSection == "thead" {
			tag = atom.Th
		}
		s.closeTag(tag)
		s.tableCellIndex++
	case TableEnd:
		s.closeTableIfOpen()

	case FootnoteDefStart:
		s.inFootnoteDef = true
		s.footnoteLabel = ev.Label
		s.footnoteOuter = s.dst
		s.dst = nil
	case FootnoteDefEnd:
		s.footnoteBuf[s.footnoteLabel] = s.dst
		s.dst = s.footnoteOuter
		s.footnoteOuter = nil
		s.inFootnoteDef = false

	case InlineText:
		s.renderInline(s.ic.ParseLine(ev.InlineRange))
	case InlineMultiRange:
		s.renderInline(s.ic.ParseBlock(ev.InlineRanges, ev.HardBreakAfter))
	}
}

func (s *htmlSink) closeTableRow() {
	if s.tableSection != "" {
		s.closeTag(atom.Tr)
		if s.tableSection == "thead" {
			s.dst = append(s.dst, "</thead>"...)
		}
	}
}

func (s *htmlSink) closeTableIfOpen() {
	if s.tableAligns == nil && s.tableSection == "" {
		return
	}
	s.closeTableRow()
	if s.tableSection == "tbody" {
		s.dst = append(s.dst, "</tbody>"...)
	}
	s.closeTag(atom.Table)
	s.tableAligns = nil
	s.tableSection = ""
}

// appendFootnoteSection emits the trailing footnote list, ordered by first
// reference (spec.md §4.5), using the per-label HTML buffered while
// walking each FootnoteDefStart/FootnoteDefEnd pair.
func (s *htmlSink) appendFootnoteSection() {
	if s.footnotes == nil || len(s.footnotes.refOrder) == 0 {
		return
	}
	s.dst = append(s.dst, `<section class="footnotes"><ol>`...)
	for _, label := range s.footnotes.refOrder {
		num := s.footnotes.refSeen[label]
		s.dst = append(s.dst, `<li id="fn-`...)
		s.dst = strconv.AppendInt(s.dst, int64(num), 10)
		s.dst = append(s.dst, '"', '>')
		s.dst = append(s.dst, s.footnoteBuf[label]...)
		s.dst = append(s.dst, ` <a href="#fnref-`...)
		s.dst = strconv.AppendInt(s.dst, int64(num), 10)
		s.dst = append(s.dst, `">&#8617;</a></li>`...)
	}
	s.dst = append(s.dst, "</ol></section>"...)
}

func (s *htmlSink) renderInline(events []InlineEvent) {
	for i := 0; i < len(events); i++ {
		ev := &events[i]
		switch ev.Kind {
		case Text:
			if ev.HasLiteral {
				s.dst = escapeHTMLInto(s.dst, []byte(ev.Literal))
			} else {
				s.dst = escapeHTMLInto(s.dst, ev.Span.Slice(s.input))
			}
		case Code:
			s.openTag(atom.Code)
			s.dst = escapeHTMLInto(s.dst, ev.Span.Slice(s.input))
			s.closeTag(atom.Code)
		case MathInline:
			s.dst = append(s.dst, `<span class="math-inline">\(`...)
			s.dst = escapeHTMLInto(s.dst, ev.Span.Slice(s.input))
			s.dst = append(s.dst, `\)</span>`...)
		case MathDisplay:
			s.dst = append(s.dst, `<span class="math-display">\[`...)
			s.dst = escapeHTMLInto(s.dst, ev.Span.Slice(s.input))
			s.dst = append(s.dst, `\]</span>`...)
		case HTMLSpan:
			raw := ev.Span.Slice(s.input)
			switch {
			case !s.opts.AllowHTML:
				s.dst = escapeHTMLInto(s.dst, raw)
			case s.opts.DisallowedRawHTML && isDisallowedRawTag(raw):
				s.dst = append(s.dst, '&', 'l', 't', ';')
				s.dst = append(s.dst, raw[1:]...)
			default:
				s.dst = append(s.dst, raw...)
			}
		case Autolink:
			s.openTagAttr(atom.A)
			s.dst = append(s.dst, ` href="`...)
			s.dst = append(s.dst, html.EscapeString(NormalizeURI(ev.URL))...)
			s.dst = append(s.dst, `">`...)
			label := ev.URL
			if ev.IsEmail {
				label = strings.TrimPrefix(label, "mailto:")
			}
			s.dst = append(s.dst, html.EscapeString(label)...)
			s.closeTag(atom.A)
		case EmphStart:
			s.openTag(atom.Em)
		case EmphEnd:
			s.closeTag(atom.Em)
		case StrongStart:
			s.openTag(atom.Strong)
		case StrongEnd:
			s.closeTag(atom.Strong)
		case StrikeStart:
			s.openTag(atom.Del)
		case StrikeEnd:
			s.closeTag(atom.Del)
		case LinkStart:
			if ev.IsImage {
				s.openTagAttr(atom.Img)
				s.dst = append(s.dst, ` src="`...)
				s.dst = append(s.dst, html.EscapeString(NormalizeURI(ev.Dest))...)
				s.dst = append(s.dst, '"')
				if ev.HasTitle {
					s.dst = append(s.dst, ` title="`...)
					s.dst = append(s.dst, html.EscapeString(ev.Title)...)
					s.dst = append(s.dst, '"')
				}
				s.dst = append(s.dst, ` alt="`...)
				s.dst = appendAltText(s.dst, s.input, events, i)
				s.dst = append(s.dst, `">`...)
				i = skipToLinkEnd(events, i)
			} else {
				s.openTagAttr(atom.A)
				s.dst = append(s.dst, ` href="`...)
				s.dst = append(s.dst, html.EscapeString(NormalizeURI(ev.Dest))...)
				s.dst = append(s.dst, '"')
				if ev.HasTitle {
					s.dst = append(s.dst, ` title="`...)
					s.dst = append(s.dst, html.EscapeString(ev.Title)...)
					s.dst = append(s.dst, '"')
				}
				s.dst = append(s.dst, '>')
			}
		case LinkEnd:
			s.closeTag(atom.A)
		case SoftBreak:
			s.dst = append(s.dst, '\n')
		case HardBreak:
			s.dst = append(s.dst, "<br>\n"...)
		case FootnoteRef:
			num := s.footnotes.referenceFootnote(ev.Label)
			s.dst = append(s.dst, `<sup id="fnref-`...)
			s.dst = strconv.AppendInt(s.dst, int64(num), 10)
			s.dst = append(s.dst, `"><a href="#fn-`...)
			s.dst = strconv.AppendInt(s.dst, int64(num), 10)
			s.dst = append(s.dst, `">`...)
			s.dst = strconv.AppendInt(s.dst, int64(num), 10)
			s.dst = append(s.dst, `</a></sup>`...)
		}
	}
}

// skipToLinkEnd finds the matching LinkEnd for the LinkStart at index i,
// treating nested LinkStart/LinkEnd pairs (an image inside a link) as
// balanced.
func skipToLinkEnd(events []InlineEvent, i int) int {
	depth := 0
	for j := i; j < len(events); j++ {
		switch events[j].Kind {
		case LinkStart:
			depth++
		case LinkEnd:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return len(events) - 1
}

// appendAltText flattens an image's inline content to plain text for its
// alt attribute (spec.md §6.2), grounded on html_renderer.go's
// appendAltText.
func appendAltText(dst []byte, input []byte, events []InlineEvent, linkStartIdx int) []byte {
	depth := 0
	for j := linkStartIdx; j < len(events); j++ {
		ev := &events[j]
		switch ev.Kind {
		case LinkStart:
			depth++
			if depth > 1 {
				continue
			}
			continue
		case LinkEnd:
			depth--
			if depth == 0 {
				return dst
			}
			continue
		case Text:
			if ev.HasLiteral {
				dst = append(dst, html.EscapeString(ev.Literal)...)
			} else {
				dst = append(dst, html.EscapeString(string(ev.Span.Slice(input)))...)
			}
		case Code:
			dst = append(dst, html.EscapeString(string(ev.Span.Slice(input)))...)
		case SoftBreak, HardBreak:
			dst = append(dst, ' ')
		}
	}
	return dst
}

// escapeHTMLInto appends the HTML-escaped form of src to dst (spec.md
// §6.2), grounded on html_renderer.go's escapeHTML.
func escapeHTMLInto(dst []byte, src []byte) []byte {
	verbatimStart := 0
	for i, b := range src {
		switch b {
		case '&':
			dst = append(dst, src[verbatimStart:i]...)
			dst = append(dst, "&amp;"...)
			verbatimStart = i + 1
		case '<':
			dst = append(dst, src[verbatimStart:i]...)
			dst = append(dst, "&lt;"...)
			verbatimStart = i + 1
		case '>':
			dst = append(dst, src[verbatimStart:i]...)
			dst = append(dst, "&gt;"...)
			verbatimStart = i + 1
		case '"':
			dst = append(dst, src[verbatimStart:i]...)
			dst = append(dst, "&quot;"...)
			verbatimStart = i + 1
		}
	}
	if verbatimStart < len(src) {
		dst = append(dst, src[verbatimStart:]...)
	}
	return dst
}

// isDisallowedRawTag reports whether raw is an open or close tag naming one
// of the GFM disallowed-raw-HTML elements (title, textarea, style, xmp,
// iframe, noembed, noframes, script, plaintext), grounded on
// html_renderer.go's FilterTagGFM/filterRaw, generalized from a streaming
// state machine to a single already-delimited tag span.
func isDisallowedRawTag(raw []byte) bool {
	body := bytes.TrimPrefix(raw, []byte("<"))
	body = bytes.TrimPrefix(body, []byte("/"))
	end := 0
	for end < len(body) && (isASCIIAlpha(body[end]) || isASCIIDigit(body[end]) || body[end] == '-') {
		end++
	}
	if end == 0 {
		return false
	}
	switch atom.Lookup(bytes.ToLower(body[:end])) {
	case atom.Title, atom.Textarea, atom.Style, atom.Xmp, atom.Iframe,
		atom.Noembed, atom.Noframes, atom.Script, atom.Plaintext:
		return true
	default:
		return false
	}
}

// NormalizeURI percent-encodes any characters in s that are not reserved
// or unreserved URI characters, for use in href/src attributes (spec.md
// §6.2). Grounded on html_renderer.go's NormalizeURI, but shares its
// character class with the link-destination scanner instead of carrying a
// second copy of it: both consult charclass.go's isURLSpecial.
func NormalizeURI(s string) string {
	sb := new(strings.Builder)
	sb.Grow(len(s))
	skip := 0
	var buf [utf8.UTFMax]byte
	for i, c := range s {
		if skip > 0 {
			skip--
			sb.WriteRune(c)
			continue
		}
		switch {
		case c == '%':
			if i+2 < len(s) && isHexDigit(s[i+1]) && isHexDigit(s[i+2]) {
				skip = 2
				sb.WriteByte('%')
			} else {
				sb.WriteString("%25")
			}
		case c < utf8.RuneSelf && isURLSpecial(byte(c)):
			sb.WriteByte(byte(c))
		default:
			n := utf8.EncodeRune(buf[:], c)
			for _, b := range buf[:n] {
				sb.WriteByte('%')
				sb.WriteByte(urlHexDigit(b >> 4))
				sb.WriteByte(urlHexDigit(b & 0x0f))
			}
		}
	}
	return sb.String()
}

func urlHexDigit(x byte) byte {
	switch {
	case x < 0xa:
		return '0' + x
	default:
		return 'a' + x - 0xa
	}
}
