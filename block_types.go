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

// containerKind tags an entry on the block parser's container stack
// (spec.md §3 "Container entry").
type containerKind uint8

const (
	containerBlockquote containerKind = iota
	containerList
	containerListItem
	containerFootnoteDef
)

// container is one entry of the container stack. Its fields are a superset
// covering both containerList and containerListItem entries; the kind
// field selects which are meaningful, matching the teacher's preference
// (blocks.go's blockRule map) for a small closed set of block kinds over
// an interface hierarchy.
type container struct {
	kind containerKind

	// containerList
	listKind     ListMarkerKind
	bulletChar   byte
	orderedDelim byte
	orderedNext  int // marker value for the *next* item to be opened
	tight        bool
	anyBlankInList bool // a blank line occurred somewhere inside the list
	listStartIndex int // index into blockCompiler.events of this list's ListStart

	// containerListItem
	contentIndent  int  // column subsequent lines must reach to continue
	markerColumn   int  // column the item marker started at
	startedBlank   bool // the line that opened the item had no content after the marker
	blankBeforeEnd bool // a blank line occurred just before this item closed
	sawBlankInside bool // a blank line occurred inside this item's content
	sawAnyBlock    bool // the item has at least one child block so far
	task           TaskState
	taskConsumed   bool // task marker already stripped from first content line

	// containerBlockquote
	isCallout    bool
	calloutClass string

	// containerFootnoteDef
	footnoteLabel string
}

// leafKind tags the currently open leaf block, if any (spec.md §3
// "Open leaf").
type leafKind uint8

const (
	leafNone leafKind = iota
	leafParagraph
	leafFencedCode
	leafIndentedCode
	leafHTMLBlock
	leafTable
)

// openLeaf holds the state of the innermost open leaf block.
type openLeaf struct {
	kind leafKind

	// leafParagraph
	lines          []Range
	hardBreakAfter []bool

	// leafFencedCode / leafIndentedCode
	fenceChar   byte
	fenceLen    int
	fenceIndent int
	info        Range
	codeLines   []Range
	trailingBlankLines int // trailing blank lines pending (indented code trims these at close)

	// leafHTMLBlock
	htmlKind  HTMLBlockKind
	htmlLines []Range

	// leafTable
	tableHeader Range
	tableAligns []ColumnAlign
	tableStarted bool
}
