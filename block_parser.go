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

// blockCompiler drives the line-oriented block state machine (spec.md
// §4.2.2). It is grounded on blocks.go's blockParser/OpenBlock/EndBlock,
// generalized from building an AST to appending BlockEvents to a
// caller-owned slice (the teacher's container-walk/new-container/leaf
// phases are kept; what each phase *does* on a match changed from
// tree-mutation to event emission).
type blockCompiler struct {
	input []byte
	opts  Options

	events     []BlockEvent
	refs       *refStore
	footnotes  *footnoteStore
	headingIDs *headingIDStore

	containers []container
	leaf       openLeaf
	hasLeaf    bool

	consecutiveBlanks int
	lastItemPos       int
}

func compileBlocks(input []byte, opts Options) (events []BlockEvent, refs *refStore, footnotes *footnoteStore, headingIDs *headingIDStore) {
	bc := &blockCompiler{
		input:      input,
		opts:       opts,
		refs:       newRefStore(len(input)),
		footnotes:  newFootnoteStore(),
		headingIDs: newHeadingIDStore(),
	}
	bc.run()
	return bc.events, bc.refs, bc.footnotes, bc.headingIDs
}

func (bc *blockCompiler) emit(ev BlockEvent) {
	bc.events = append(bc.events, ev)
}

func (bc *blockCompiler) run() {
	cur := newCursor(bc.input)
	for !cur.atEOF() {
		content, _, _ := cur.nextLine()
		bc.processLine(content)
	}
	bc.closeContainersTo(0)
	bc.closeLeaf()
	if bc.opts.Footnotes {
		bc.emitPendingFootnoteDefs()
	}
}

// processLine runs the per-line algorithm of spec.md §4.2.2: container
// match, new-container, leaf, lazy-continuation, and close phases.
func (bc *blockCompiler) processLine(content Range) {
	line := content.Slice(bc.input)
	base := int(content.Start)
	blank := isBlankLine(line)

	matchedDepth, pos := bc.matchContainers(line, blank)

	if blank {
		bc.consecutiveBlanks++
		bc.onBlankLine()
		return
	}
	hadBlanksBefore := bc.consecutiveBlanks > 0
	bc.consecutiveBlanks = 0

	lazy := matchedDepth < len(bc.containers) &&
		bc.hasLeaf && bc.leaf.kind == leafParagraph &&
		bc.unmatchedAreLazyContinuable(matchedDepth) &&
		!bc.wouldInterruptParagraph(line[pos:])

	if lazy {
		bc.continueParagraph(newRange(base+pos, base+len(line)))
		return
	}

	if matchedDepth < len(bc.containers) {
		bc.closeContainersTo(matchedDepth)
	}

	pos = bc.openNewContainers(line, base, pos, hadBlanksBefore)

	bc.runLeafPhase(line, base, pos)
}

// matchContainers walks the container stack and consumes each container's
// required prefix from line, returning how many containers matched and the
// resulting byte offset into line.
func (bc *blockCompiler) matchContainers(line []byte, blank bool) (matchedDepth, pos int) {
	pos = 0
	for matchedDepth < len(bc.containers) {
		ctr := &bc.containers[matchedDepth]
		if blank {
			matchedDepth++
			continue
		}
		switch ctr.kind {
		case containerBlockquote:
			indentCols, _ := countIndent(line[pos:])
			if indentCols >= codeBlockIndentLimit {
				return matchedDepth, pos
			}
			p2 := pos + indentCols
			end := parseBlockQuoteMarker(line[p2:])
			if end < 0 {
				return matchedDepth, pos
			}
			pos = p2 + end
			matchedDepth++
		case containerListItem, containerFootnoteDef:
			indentCols, _ := countIndent(line[pos:])
			if indentCols < ctr.contentIndent {
				return matchedDepth, pos
			}
			pos = consumeIndentCols(line, pos, ctr.contentIndent)
			matchedDepth++
		case containerList:
			matchedDepth++
		}
	}
	return matchedDepth, pos
}

func consumeIndentCols(line []byte, pos, cols int) int {
	col := 0
	for pos < len(line) && col < cols {
		switch line[pos] {
		case ' ':
			col++
			pos++
		case '\t':
			col += tabStopSize
			pos++
		default:
			return pos
		}
	}
	return pos
}

// unmatchedAreLazyContinuable reports whether every container from
// matchedDepth onward is the kind of container a lazy continuation line is
// permitted to skip (spec.md §4.2.2 step 4): blockquotes and list items,
// never a list-grouping entry's own table/code state.
func (bc *blockCompiler) unmatchedAreLazyContinuable(matchedDepth int) bool {
	for i := matchedDepth; i < len(bc.containers); i++ {
		switch bc.containers[i].kind {
		case containerBlockquote, containerListItem, containerList, containerFootnoteDef:
		default:
			return false
		}
	}
	return true
}

// wouldInterruptParagraph reports whether rest begins a new block that is
// allowed to interrupt an open paragraph, used by the lazy-continuation
// check and by the new-container/leaf phase's "continue vs. start new
// paragraph" decision.
func (bc *blockCompiler) wouldInterruptParagraph(rest []byte) bool {
	indentCols, skip := countIndent(rest)
	if indentCols >= codeBlockIndentLimit {
		return false
	}
	trimmed := rest[skip:]
	if parseATXHeading(trimmed).level > 0 {
		return true
	}
	if end := parseThematicBreak(trimmed); end >= 0 {
		return true
	}
	if fi := parseFenceOpen(trimmed, 0); fi.ok {
		return true
	}
	if parseBlockQuoteMarker(trimmed) >= 0 {
		return true
	}
	if _, _, _, ok := parseOrderedMarker(trimmed); ok {
		// An ordered list only interrupts a paragraph when it starts at 1.
		v, _, _, _ := parseOrderedMarker(trimmed)
		return v == 1
	}
	if ch, n, ok := parseBulletMarker(trimmed); ok {
		// A bullet marker not immediately followed by more punctuation
		// of the same kind that would instead read as a thematic break.
		_ = ch
		_ = n
		return true
	}
	if bc.opts.Tables && bc.hasLeaf && bc.leaf.kind == leafParagraph && len(bc.leaf.lines) == 1 {
		if aligns, ok := parseTableDelimiterRow(trimmed); ok && len(aligns) > 0 {
			return true
		}
	}
	return false
}

// openNewContainers implements spec.md §4.2.2 step 2: starting at pos,
// repeatedly open blockquote and list-item containers.
func (bc *blockCompiler) openNewContainers(line []byte, base, pos int, hadBlanksBefore bool) int {
	openedAny := false
	for {
		if len(bc.containers) >= maxBlockNesting {
			return pos
		}
		indentCols, skip := countIndent(line[pos:])
		if indentCols < codeBlockIndentLimit {
			if end := parseBlockQuoteMarker(line[pos+skip:]); end >= 0 {
				bc.closeLeaf()
				openedAny = true
				ctr := container{kind: containerBlockquote}
				markerEnd := end
				if bc.opts.Callouts {
					rest := line[pos+skip+end:]
					if class, markerRest, ok := parseCalloutMarker(rest); ok {
						ctr.isCallout = true
						ctr.calloutClass = class
						markerEnd = end + markerRest
					}
				}
				bc.containers = append(bc.containers, ctr)
				bc.emit(BlockEvent{Kind: BlockquoteStart, IsCallout: ctr.isCallout, CalloutClass: ctr.calloutClass})
				pos = pos + skip + markerEnd
				continue
			}
		}
		if indentCols < codeBlockIndentLimit && bc.opts.Footnotes && len(bc.containers) == 0 {
			rest := line[pos+skip:]
			if label, length, ok := parseFootnoteDefMarker(rest); ok {
				bc.closeLeaf()
				openedAny = true
				afterCols, afterSkip := countIndent(rest[length:])
				contentIndent := skip + length
				if afterSkip > 0 && afterCols <= 4 {
					contentIndent += afterCols
				}
				bc.containers = append(bc.containers, container{
					kind:          containerFootnoteDef,
					contentIndent: contentIndent,
					footnoteLabel: label,
				})
				if bc.footnotes.defineFootnote(label) {
					bc.emit(BlockEvent{Kind: FootnoteDefStart, Label: label})
				}
				pos = pos + skip + length + afterSkip
				continue
			}
		}
		if indentCols < codeBlockIndentLimit {
			rest := line[pos+skip:]
			if v, delim, length, ok := parseOrderedMarker(rest); ok && bc.canOpenListMarker(rest[length:]) {
				bc.openListItem(OrderedList, 0, v, delim, pos, skip, length, line, base)
				pos = bc.lastItemPos
				openedAny = true
				continue
			}
			if ch, length, ok := parseBulletMarker(rest); ok && bc.canOpenListMarker(rest[length:]) && parseThematicBreak(rest) < 0 {
				bc.openListItem(BulletList, ch, 0, 0, pos, skip, length, line, base)
				pos = bc.lastItemPos
				openedAny = true
				continue
			}
		}
		break
	}
	if openedAny && bc.hasLeaf && bc.leaf.kind == leafParagraph {
		// A new container always closes a currently open paragraph; the
		// paragraph belonged to the now-enclosing container.
		bc.closeLeaf()
	}
	return pos
}

// canOpenListMarker reports whether the bytes following a list marker are
// valid: either the marker is the entire (blank) remainder of the line, or
// it's followed by at least one space/tab.
func (bc *blockCompiler) canOpenListMarker(afterMarker []byte) bool {
	if len(afterMarker) == 0 {
		return true
	}
	return isSpaceOrTab(afterMarker[0])
}

// openListItem's result position (the byte offset just past the marker and
// any single required space) is communicated back through bc.lastItemPos
// since it needs to inspect blank-after-marker to compute contentIndent.
func (bc *blockCompiler) openListItem(kind ListMarkerKind, bullet byte, orderedStart int, delim byte, pos, skip, markerLen int, line []byte, base int) {
	markerEnd := pos + skip + markerLen
	afterIndentCols, afterSkip := countIndent(line[markerEnd:])
	blankAfterMarker := markerEnd+afterSkip >= len(line)

	contentIndent := skip + markerLen
	if blankAfterMarker {
		contentIndent += 1
	} else if afterIndentCols >= 1 && afterIndentCols <= 4 {
		contentIndent += afterIndentCols
	} else {
		// 5+ spaces after the marker: only 1 column of indent counts and
		// the rest is treated as the start of an indented code block
		// inside the item (CommonMark's "indented code" list-item rule).
		contentIndent += 1
	}

	// Reuse or open the enclosing "list" grouping container.
	needNewList := true
	if n := len(bc.containers); n > 0 && bc.containers[n-1].kind == containerList {
		top := &bc.containers[n-1]
		if top.listKind == kind && (kind == BulletList && top.bulletChar == bullet || kind == OrderedList && top.orderedDelim == delim) {
			needNewList = false
		}
	}
	if needNewList {
		listIdx := len(bc.events)
		bc.emit(BlockEvent{Kind: ListStart, ListKind: kind, BulletChar: bullet, OrderedStart: orderedStart, OrderedDelim: delim, Tight: true})
		bc.containers = append(bc.containers, container{
			kind:           containerList,
			listKind:       kind,
			bulletChar:     bullet,
			orderedDelim:   delim,
			orderedNext:    orderedStart + 1,
			tight:          true,
			listStartIndex: listIdx,
		})
	} else {
		top := &bc.containers[len(bc.containers)-1]
		if kind == OrderedList {
			top.orderedNext++
		}
	}

	bc.containers = append(bc.containers, container{
		kind:          containerListItem,
		contentIndent: contentIndent,
		markerColumn:  skip,
		startedBlank:  blankAfterMarker,
	})
	bc.emit(BlockEvent{Kind: ListItemStart})
	if afterSkip > 0 && afterIndentCols > 4 {
		bc.lastItemPos = consumeIndentCols(line, markerEnd, 1)
	} else if afterSkip > 0 {
		bc.lastItemPos = markerEnd + afterSkip
	} else {
		bc.lastItemPos = markerEnd
	}
	if blankAfterMarker {
		bc.lastItemPos = len(line)
	}
}
