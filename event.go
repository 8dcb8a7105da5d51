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

// BlockKind tags a BlockEvent (spec.md §3 "Block event").
type BlockKind uint8

const (
	ParagraphStart BlockKind = 1 + iota
	ParagraphEnd
	HeadingStart
	HeadingEnd
	CodeBlockStart
	CodeBlockText
	CodeBlockEnd
	BlockquoteStart
	BlockquoteEnd
	ListStart
	ListEnd
	ListItemStart
	ListItemEnd
	ThematicBreak
	HTMLBlockStart
	HTMLBlockLine
	HTMLBlockEnd
	TableStart
	TableHeadRow
	TableBodyRow
	TableCellStart
	TableCellEnd
	TableEnd
	FootnoteDefStart
	FootnoteDefEnd
	InlineText
	InlineMultiRange
)

func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) {
		if name := blockKindNames[k]; name != "" {
			return name
		}
	}
	return "BlockKind(?)"
}

var blockKindNames = [...]string{
	ParagraphStart:   "ParagraphStart",
	ParagraphEnd:     "ParagraphEnd",
	HeadingStart:     "HeadingStart",
	HeadingEnd:       "HeadingEnd",
	CodeBlockStart:   "CodeBlockStart",
	CodeBlockText:    "CodeBlockText",
	CodeBlockEnd:     "CodeBlockEnd",
	BlockquoteStart:  "BlockquoteStart",
	BlockquoteEnd:    "BlockquoteEnd",
	ListStart:        "ListStart",
	ListEnd:          "ListEnd",
	ListItemStart:    "ListItemStart",
	ListItemEnd:      "ListItemEnd",
	ThematicBreak:    "ThematicBreak",
	HTMLBlockStart:   "HTMLBlockStart",
	HTMLBlockLine:    "HTMLBlockLine",
	HTMLBlockEnd:     "HTMLBlockEnd",
	TableStart:       "TableStart",
	TableHeadRow:     "TableHeadRow",
	TableBodyRow:     "TableBodyRow",
	TableCellStart:   "TableCellStart",
	TableCellEnd:     "TableCellEnd",
	TableEnd:         "TableEnd",
	FootnoteDefStart: "FootnoteDefStart",
	FootnoteDefEnd:   "FootnoteDefEnd",
	InlineText:       "InlineText",
	InlineMultiRange: "InlineMultiRange",
}

// CodeBlockKind distinguishes fenced from indented code blocks.
type CodeBlockKind uint8

const (
	FencedCode CodeBlockKind = iota
	IndentedCode
)

// HTMLBlockKind is the CommonMark HTML-block detection kind, 1 through 7
// (spec.md §4.2.7).
type HTMLBlockKind uint8

// ListMarkerKind distinguishes bullet lists from ordered lists.
type ListMarkerKind uint8

const (
	BulletList ListMarkerKind = iota
	OrderedList
)

// TaskState is the checkbox state of a list item, recognized only when
// Options.TaskLists is set (spec.md §3 ListItemStart{task}).
type TaskState uint8

const (
	NoTask TaskState = iota
	TaskUnchecked
	TaskChecked
)

// ColumnAlign is a GFM table column's alignment (spec.md §4.2.6).
type ColumnAlign uint8

const (
	AlignNone ColumnAlign = iota
	AlignLeft
	AlignRight
	AlignCenter
)

// BlockEvent is a single tagged emission from the block parser (spec.md §3
// "Block event"). Only the fields relevant to Kind are populated; the rest
// are zero.
type BlockEvent struct {
	Kind BlockKind

	// HeadingStart/HeadingEnd
	Level int
	Slug  string // HeadingEnd, only when Options.HeadingIDs

	// BlockquoteStart
	IsCallout    bool
	CalloutClass string // "note", "tip", "important", "warning", or "caution"

	// CodeBlockStart
	CodeKind CodeBlockKind
	Info     Range // fenced code info string, may be empty

	// CodeBlockText, HTMLBlockLine
	Text Range

	// ListStart
	ListKind     ListMarkerKind
	BulletChar   byte
	OrderedStart int
	OrderedDelim byte
	Tight        bool

	// ListItemStart
	Task TaskState

	// HTMLBlockStart
	HTMLKind HTMLBlockKind

	// TableStart
	Aligns []ColumnAlign

	// FootnoteDefStart
	Label string

	// InlineText
	InlineRange Range
	// InlineMultiRange: one Range per physical source line the paragraph/
	// heading spans. HardBreakAfter[i] reports whether the boundary after
	// InlineRanges[i] is a hard line break (trailing "  "+ or a trailing
	// backslash) rather than a soft one; it has len(InlineRanges)-1
	// entries.
	InlineRanges   []Range
	HardBreakAfter []bool
}

// InlineKind tags an InlineEvent (spec.md §3 "Inline event").
type InlineKind uint8

const (
	Text InlineKind = 1 + iota
	Code
	MathInline
	MathDisplay
	HTMLSpan
	Autolink
	EmphStart
	EmphEnd
	StrongStart
	StrongEnd
	StrikeStart
	StrikeEnd
	LinkStart
	LinkEnd
	SoftBreak
	HardBreak
	FootnoteRef
)

func (k InlineKind) String() string {
	if int(k) < len(inlineKindNames) {
		if name := inlineKindNames[k]; name != "" {
			return name
		}
	}
	return "InlineKind(?)"
}

var inlineKindNames = [...]string{
	Text:        "Text",
	Code:        "Code",
	MathInline:  "MathInline",
	MathDisplay: "MathDisplay",
	HTMLSpan:    "HTMLSpan",
	Autolink:    "Autolink",
	EmphStart:   "EmphStart",
	EmphEnd:     "EmphEnd",
	StrongStart: "StrongStart",
	StrongEnd:   "StrongEnd",
	StrikeStart: "StrikeStart",
	StrikeEnd:   "StrikeEnd",
	LinkStart:   "LinkStart",
	LinkEnd:     "LinkEnd",
	SoftBreak:   "SoftBreak",
	HardBreak:   "HardBreak",
	FootnoteRef: "FootnoteRef",
}

// InlineEvent is a single tagged emission from the inline parser (spec.md §3
// "Inline event").
type InlineEvent struct {
	Kind InlineKind

	// Text, Code, MathInline, MathDisplay, HTMLSpan. For Text, Span is only
	// meaningful when HasLiteral is false: a backslash escape or decoded
	// entity reference produces text that differs from its source bytes, so
	// those are carried in Literal instead (spec.md §4.4.1).
	Span       Range
	Literal    string
	HasLiteral bool

	// Autolink
	URL     string
	IsEmail bool

	// LinkStart
	Dest        string
	Title       string
	HasTitle    bool
	IsImage     bool

	// FootnoteRef
	Label string
}
