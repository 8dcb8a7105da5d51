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

// runLeafPhase implements spec.md §4.2.2 step 3: on the content remaining
// after container prefixes, attempt to start or continue a leaf block in
// CommonMark's fixed precedence order.
func (bc *blockCompiler) runLeafPhase(line []byte, base, pos int) {
	content := line[pos:]

	// A currently open fenced/indented code block or HTML block claims
	// every line until its own close condition, regardless of what the
	// line would otherwise parse as (spec.md §4.2.4, §4.2.7).
	if bc.hasLeaf {
		switch bc.leaf.kind {
		case leafFencedCode:
			if parseFenceClose(content, bc.leaf.fenceChar, bc.leaf.fenceLen) {
				bc.closeLeaf()
				return
			}
			stripped := consumeIndentCols(content, 0, bc.leaf.fenceIndent)
			bc.emit(BlockEvent{Kind: CodeBlockText, Text: newRange(base+pos+stripped, base+len(line))})
			return
		case leafHTMLBlock:
			bc.continueHTMLBlock(line, base, pos)
			return
		case leafTable:
			if bc.continueTable(content, base+pos) {
				return
			}
			bc.closeLeaf()
			// fall through to re-evaluate this line as a fresh leaf
		}
	}

	indentCols, skip := countIndent(content)

	// Indented code can only continue (not start) while lazily
	// continuing; starting one requires no open paragraph.
	if bc.hasLeaf && bc.leaf.kind == leafIndentedCode {
		if indentCols >= codeBlockIndentLimit {
			bc.flushPendingCodeBlanks()
			stripped := consumeIndentCols(content, 0, codeBlockIndentLimit)
			bc.emit(BlockEvent{Kind: CodeBlockText, Text: newRange(base+pos+stripped, base+len(line))})
			return
		}
		bc.closeLeaf()
	}

	trimmed := content[skip:]

	if indentCols < codeBlockIndentLimit {
		if h := parseATXHeading(trimmed); h.level > 0 {
			bc.closeLeaf()
			bc.emitHeading(h.level, newRange(base+pos+skip+h.contentStart, base+pos+skip+h.contentEnd))
			return
		}
		if end := parseThematicBreak(trimmed); end >= 0 {
			// Under an open paragraph, an unbroken run of '-' is a setext
			// underline, which takes precedence over a thematic break.
			underline := bc.hasLeaf && bc.leaf.kind == leafParagraph
			for _, b := range trimmed[:end] {
				if b != '-' {
					underline = false
				}
			}
			if underline {
				bc.promoteToSetext(2)
				return
			}
			bc.closeLeaf()
			bc.emit(BlockEvent{Kind: ThematicBreak})
			return
		}
		if fi := parseFenceOpen(trimmed, base+pos+skip); fi.ok {
			bc.closeLeaf()
			bc.hasLeaf = true
			bc.leaf = openLeaf{
				kind:        leafFencedCode,
				fenceChar:   fi.char,
				fenceLen:    fi.length,
				fenceIndent: indentCols,
				info:        fi.info,
			}
			bc.emit(BlockEvent{Kind: CodeBlockStart, CodeKind: FencedCode, Info: fi.info})
			return
		}
		if kind, ok := detectHTMLBlockStart(trimmed, bc.hasLeaf && bc.leaf.kind == leafParagraph); ok {
			bc.closeLeaf()
			bc.hasLeaf = true
			bc.leaf = openLeaf{kind: leafHTMLBlock, htmlKind: kind}
			bc.emit(BlockEvent{Kind: HTMLBlockStart, HTMLKind: kind})
			bc.emit(BlockEvent{Kind: HTMLBlockLine, Text: newRange(base+pos+skip, base+len(line))})
			if htmlBlockClosesOnSameLine(kind, trimmed) {
				bc.closeLeaf()
			}
			return
		}
		if bc.opts.Tables && bc.hasLeaf && bc.leaf.kind == leafParagraph && len(bc.leaf.lines) == 1 {
			if aligns, ok := parseTableDelimiterRow(trimmed); ok && len(aligns) > 0 {
				header := bc.leaf.lines[0]
				headerCells := splitTableRow(header.Slice(bc.input), int(header.Start))
				if len(headerCells) == len(aligns) {
					bc.startTable(aligns)
					return
				}
			}
		}
		if bc.hasLeaf && bc.leaf.kind == leafParagraph {
			if level, ok := parseSetextUnderline(trimmed); ok {
				bc.promoteToSetext(level)
				return
			}
		}
	}

	if isBlankLine(content) {
		// Nothing but container markers (e.g. ">" or a callout marker) on
		// this line: it ends an open leaf and starts none.
		bc.closeLeaf()
		return
	}

	if indentCols >= codeBlockIndentLimit && !(bc.hasLeaf && bc.leaf.kind == leafParagraph) {
		bc.closeLeaf()
		bc.hasLeaf = true
		bc.leaf = openLeaf{kind: leafIndentedCode}
		bc.emit(BlockEvent{Kind: CodeBlockStart, CodeKind: IndentedCode})
		stripped := consumeIndentCols(content, 0, codeBlockIndentLimit)
		bc.emit(BlockEvent{Kind: CodeBlockText, Text: newRange(base+pos+stripped, base+len(line))})
		return
	}

	bc.continueParagraph(newRange(base+pos, base+len(line)))
}

func (bc *blockCompiler) flushPendingCodeBlanks() {
	for i := 0; i < bc.leaf.trailingBlankLines; i++ {
		bc.emit(BlockEvent{Kind: CodeBlockText, Text: Range{}})
	}
	bc.leaf.trailingBlankLines = 0
}

// continueParagraph appends r as a line of the current paragraph,
// starting a new paragraph (and, when applicable, stripping a task-list
// marker) if none is open.
func (bc *blockCompiler) continueParagraph(r Range) {
	if bc.hasLeaf && bc.leaf.kind != leafParagraph {
		bc.closeLeaf()
	}
	if !bc.hasLeaf {
		r = bc.maybeStripTaskMarker(r)
		bc.hasLeaf = true
		bc.leaf = openLeaf{kind: leafParagraph}
		bc.markContainerBlockStarted()
	} else if n := len(bc.leaf.lines); n > 0 {
		prev := bc.leaf.lines[n-1]
		bc.leaf.hardBreakAfter = append(bc.leaf.hardBreakAfter, isHardBreakBoundary(prev.Slice(bc.input)))
	}
	bc.leaf.lines = append(bc.leaf.lines, r)
}

func isHardBreakBoundary(line []byte) bool {
	if len(line) >= 1 && line[len(line)-1] == '\\' {
		// Count trailing backslashes; an odd run means the final one is
		// unescaped and forces a hard break.
		n := 0
		for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
			n++
		}
		return n%2 == 1
	}
	trailingSpaces := 0
	for i := len(line) - 1; i >= 0 && line[i] == ' '; i-- {
		trailingSpaces++
	}
	return trailingSpaces >= 2
}

// maybeStripTaskMarker checks whether r is the first content line of a
// freshly opened list item and, if Options.TaskLists is set, strips a
// leading "[ ] "/"[x] " marker (spec.md §9(b): only at the immediate start
// of the item's first content line).
func (bc *blockCompiler) maybeStripTaskMarker(r Range) Range {
	if !bc.opts.TaskLists || len(bc.containers) == 0 {
		return r
	}
	top := &bc.containers[len(bc.containers)-1]
	if top.kind != containerListItem || top.sawAnyBlock || top.taskConsumed {
		return r
	}
	top.taskConsumed = true
	line := r.Slice(bc.input)
	state, length := parseTaskMarker(line)
	if state == NoTask {
		return r
	}
	top.task = state
	// The item's ListItemStart is the most recent one emitted, since no
	// block or container has opened inside the item yet.
	for i := len(bc.events) - 1; i >= 0; i-- {
		if bc.events[i].Kind == ListItemStart {
			bc.events[i].Task = state
			break
		}
	}
	return newRange(int(r.Start)+length, int(r.End))
}

func (bc *blockCompiler) markContainerBlockStarted() {
	if len(bc.containers) == 0 {
		return
	}
	top := &bc.containers[len(bc.containers)-1]
	if top.kind == containerListItem {
		top.sawAnyBlock = true
	}
}

func (bc *blockCompiler) emitHeading(level int, content Range) {
	bc.markContainerBlockStarted()
	bc.emit(BlockEvent{Kind: HeadingStart, Level: level})
	bc.emit(BlockEvent{Kind: InlineText, InlineRange: content})
	slug := ""
	if bc.opts.HeadingIDs {
		slug = bc.headingIDs.slugify(flattenForSlug(content.Slice(bc.input)))
	}
	bc.emit(BlockEvent{Kind: HeadingEnd, Level: level, Slug: slug})
}

// flattenForSlug gives a rough plain-text rendering of a heading's raw
// source for slug purposes: markup delimiter characters are dropped
// (spec.md §6.2's "markup delimiters stripped").
func flattenForSlug(src []byte) string {
	buf := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		b := src[i]
		switch b {
		case '*', '_', '`', '~':
			continue
		case '\\':
			if i+1 < len(src) {
				i++
				buf = append(buf, src[i])
			}
			continue
		default:
			buf = append(buf, b)
		}
	}
	return string(buf)
}

func (bc *blockCompiler) promoteToSetext(level int) {
	lines := bc.leaf.lines
	hardBreaks := bc.leaf.hardBreakAfter
	bc.markContainerBlockStarted()
	bc.hasLeaf = false
	bc.leaf = openLeaf{}
	bc.emit(BlockEvent{Kind: HeadingStart, Level: level})
	if len(lines) == 1 {
		bc.emit(BlockEvent{Kind: InlineText, InlineRange: lines[0]})
	} else {
		bc.emit(BlockEvent{Kind: InlineMultiRange, InlineRanges: lines, HardBreakAfter: hardBreaks})
	}
	slug := ""
	if bc.opts.HeadingIDs {
		var sb []byte
		for _, l := range lines {
			sb = append(sb, l.Slice(bc.input)...)
			sb = append(sb, ' ')
		}
		slug = bc.headingIDs.slugify(flattenForSlug(sb))
	}
	bc.emit(BlockEvent{Kind: HeadingEnd, Level: level, Slug: slug})
}

// onBlankLine implements spec.md §4.2.2 step 1's blank-line handling: it
// closes any open paragraph, defers blank lines inside code/HTML blocks,
// tracks per-list blank-line bookkeeping for tightness (spec.md §4.2.3),
// and closes the innermost list after two consecutive blanks.
func (bc *blockCompiler) onBlankLine() {
	if bc.hasLeaf {
		switch bc.leaf.kind {
		case leafParagraph:
			bc.closeLeaf()
		case leafFencedCode:
			bc.emit(BlockEvent{Kind: CodeBlockText, Text: Range{}})
		case leafIndentedCode:
			bc.leaf.trailingBlankLines++
		case leafHTMLBlock:
			if bc.leaf.htmlKind == 6 || bc.leaf.htmlKind == 7 {
				bc.closeLeaf()
			} else {
				bc.emit(BlockEvent{Kind: HTMLBlockLine, Text: Range{}})
			}
		case leafTable:
			bc.closeLeaf()
		}
	}
	for i := range bc.containers {
		switch bc.containers[i].kind {
		case containerListItem:
			bc.containers[i].sawBlankInside = true
		case containerList:
			bc.containers[i].anyBlankInList = true
		}
	}
	if bc.consecutiveBlanks >= 2 {
		for len(bc.containers) > 0 {
			top := bc.containers[len(bc.containers)-1].kind
			if top != containerList && top != containerListItem {
				break
			}
			bc.closeTopContainer()
			if top == containerList {
				break
			}
		}
	}
}

// closeContainersTo closes containers from the top of the stack down to
// (but not including) index depth.
func (bc *blockCompiler) closeContainersTo(depth int) {
	for len(bc.containers) > depth {
		bc.closeTopContainer()
	}
}

func (bc *blockCompiler) closeTopContainer() {
	n := len(bc.containers) - 1
	ctr := bc.containers[n]
	bc.closeLeaf()
	switch ctr.kind {
	case containerBlockquote:
		bc.emit(BlockEvent{Kind: BlockquoteEnd})
	case containerListItem:
		bc.emit(BlockEvent{Kind: ListItemEnd})
	case containerFootnoteDef:
		bc.emit(BlockEvent{Kind: FootnoteDefEnd})
	case containerList:
		bc.events[ctr.listStartIndex].Tight = !ctr.anyBlankInList
		bc.emit(BlockEvent{Kind: ListEnd, ListKind: ctr.listKind})
	}
	bc.containers = bc.containers[:n]
	// A blank line between an item's last block and its closing bracket
	// also breaks tightness for the enclosing list.
	if ctr.kind == containerListItem && ctr.sawBlankInside && len(bc.containers) > 0 {
		if top := &bc.containers[len(bc.containers)-1]; top.kind == containerList {
			top.anyBlankInList = true
		}
	}
}

// closeLeaf closes whatever leaf is currently open, extracting link
// reference definitions from a closing paragraph first (spec.md §4.2.5).
func (bc *blockCompiler) closeLeaf() {
	if !bc.hasLeaf {
		return
	}
	switch bc.leaf.kind {
	case leafParagraph:
		bc.finishParagraph()
	case leafFencedCode, leafIndentedCode:
		bc.emit(BlockEvent{Kind: CodeBlockEnd})
	case leafHTMLBlock:
		bc.emit(BlockEvent{Kind: HTMLBlockEnd})
	case leafTable:
		bc.emit(BlockEvent{Kind: TableEnd})
	}
	bc.hasLeaf = false
	bc.leaf = openLeaf{}
}

func (bc *blockCompiler) finishParagraph() {
	lines := bc.leaf.lines
	if bc.opts.AllowLinkRefs {
		lines = bc.extractRefDefs(lines)
	}
	if len(lines) == 0 {
		return
	}
	bc.emit(BlockEvent{Kind: ParagraphStart})
	if len(lines) == 1 {
		bc.emit(BlockEvent{Kind: InlineText, InlineRange: lines[0]})
	} else {
		// Keep only the break flags between the lines that remain after
		// any leading reference definitions were peeled off.
		hardBreaks := bc.leaf.hardBreakAfter
		hardBreaks = hardBreaks[len(hardBreaks)-(len(lines)-1):]
		bc.emit(BlockEvent{Kind: InlineMultiRange, InlineRanges: lines, HardBreakAfter: hardBreaks})
	}
	bc.emit(BlockEvent{Kind: ParagraphEnd})
}

func (bc *blockCompiler) emitPendingFootnoteDefs() {
	// Footnote *references* are discovered during inline parsing, which
	// runs after the full block pass (spec.md §2 control flow); the
	// definitions themselves were already emitted as ordinary blocks
	// (FootnoteDefStart from openNewContainers in block_parser.go), so
	// there is nothing left to flush here. This hook is called at the end
	// of run, after the block pass completes.
}
