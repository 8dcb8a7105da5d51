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

// This file's GFM table support is grounded on blackfriday's blockTable,
// blockTableHeader, and blockTableRow (_examples/russross-blackfriday),
// generalized to emit TableStart/TableHeadRow/TableBodyRow/TableCellStart
// events instead of building *ast.Node table nodes.

// splitTableRow splits a table row's raw source on unescaped pipe
// characters, skipping pipes that fall inside a code span, and trims
// surrounding whitespace (and a leading/trailing empty cell produced by
// optional outer pipes) from each cell. base is the absolute offset of
// line[0] in the source buffer.
func splitTableRow(line []byte, base int) []Range {
	var cells []Range
	start := 0
	i := 0
	codeRun := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == '\\' && i+1 < len(line):
			i += 2
		case c == '`':
			j := i
			for j < len(line) && line[j] == '`' {
				j++
			}
			run := j - i
			if codeRun == 0 {
				if hasMatchingBacktickRun(line[j:], run) {
					codeRun = run
				}
			} else if run == codeRun {
				codeRun = 0
			}
			i = j
		case c == '|' && codeRun == 0:
			cells = append(cells, trimCellRange(line, start, i, base))
			i++
			start = i
		default:
			i++
		}
	}
	cells = append(cells, trimCellRange(line, start, len(line), base))
	if len(cells) > 1 && cells[0].Len() == 0 {
		cells = cells[1:]
	}
	if len(cells) > 1 && cells[len(cells)-1].Len() == 0 {
		cells = cells[:len(cells)-1]
	}
	return cells
}

func hasMatchingBacktickRun(rest []byte, n int) bool {
	i := 0
	for i < len(rest) {
		if rest[i] == '`' {
			j := i
			for j < len(rest) && rest[j] == '`' {
				j++
			}
			if j-i == n {
				return true
			}
			i = j
		} else {
			i++
		}
	}
	return false
}

func trimCellRange(line []byte, start, end, base int) Range {
	for start < end && isSpaceOrTab(line[start]) {
		start++
	}
	for end > start && isSpaceOrTab(line[end-1]) {
		end--
	}
	return newRange(base+start, base+end)
}

// parseTableDelimiterRow attempts to parse line (indentation already
// stripped) as a GFM table delimiter row ("---|:--:|--:"). It returns the
// column alignments, or ok=false if line isn't a valid delimiter row.
func parseTableDelimiterRow(line []byte) (aligns []ColumnAlign, ok bool) {
	cells := splitTableRow(line, 0)
	if len(cells) == 0 || len(cells) > maxTableColumns {
		return nil, false
	}
	aligns = make([]ColumnAlign, len(cells))
	for i, cell := range cells {
		s := bytes.TrimSpace(cell.Slice(line))
		if len(s) == 0 {
			return nil, false
		}
		left := s[0] == ':'
		right := s[len(s)-1] == ':'
		body := s
		if left {
			body = body[1:]
		}
		if right && len(body) > 0 {
			body = body[:len(body)-1]
		}
		if len(body) == 0 {
			return nil, false
		}
		for _, b := range body {
			if b != '-' {
				return nil, false
			}
		}
		switch {
		case left && right:
			aligns[i] = AlignCenter
		case left:
			aligns[i] = AlignLeft
		case right:
			aligns[i] = AlignRight
		default:
			aligns[i] = AlignNone
		}
	}
	return aligns, true
}

// startTable converts the single-line paragraph currently open (the table
// header row, already validated against the just-seen delimiter row by the
// caller) into an open table leaf and emits its header row.
func (bc *blockCompiler) startTable(aligns []ColumnAlign) {
	header := bc.leaf.lines[0]
	bc.markContainerBlockStarted()
	bc.hasLeaf = true
	bc.leaf = openLeaf{kind: leafTable, tableAligns: aligns, tableStarted: true}
	bc.emit(BlockEvent{Kind: TableStart, Aligns: aligns})
	bc.emitTableRow(TableHeadRow, header, len(aligns))
}

// continueTable appends content as a table body row, or reports false if
// content is blank (ending the table; the caller closes the leaf).
func (bc *blockCompiler) continueTable(content []byte, absPos int) bool {
	if isBlankLine(content) {
		return false
	}
	indentCols, _ := countIndent(content)
	if indentCols >= codeBlockIndentLimit {
		return false
	}
	bc.emitTableRow(TableBodyRow, newRange(absPos, absPos+len(content)), len(bc.leaf.tableAligns))
	return true
}

func (bc *blockCompiler) emitTableRow(kind BlockKind, r Range, numCols int) {
	cells := splitTableRow(r.Slice(bc.input), int(r.Start))
	bc.emit(BlockEvent{Kind: kind})
	for i := 0; i < numCols; i++ {
		var cr Range
		if i < len(cells) {
			cr = cells[i]
		} else {
			cr = newRange(int(r.End), int(r.End))
		}
		bc.emit(BlockEvent{Kind: TableCellStart})
		bc.emit(BlockEvent{Kind: InlineText, InlineRange: cr})
		bc.emit(BlockEvent{Kind: TableCellEnd})
	}
}
