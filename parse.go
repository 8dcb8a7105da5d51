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

// Package commonmark provides a [CommonMark]-compliant Markdown compiler
// with the GitHub Flavored Markdown extensions (tables, strikethrough,
// task lists, autolink literals, disallowed raw HTML), plus footnotes,
// math spans, heading IDs, front matter, and callouts (spec.md §1, §6.1).
//
// Parsing happens in two independently reusable passes (spec.md §3): the
// block parser ([compileBlocks]) walks the document once, line by line,
// and emits a flat [BlockEvent] stream; the inline parser
// ([newInlineCompiler]) is invoked on demand for each paragraph/heading's
// text, emitting [InlineEvent]s. [AppendHTML] and [RenderHTML] drive both
// passes and render directly to HTML without ever materializing a
// retained syntax tree.
//
// [CommonMark]: https://commonmark.org/
package commonmark

import (
	"bytes"
	"fmt"
	"io"
)

// Document is a parsed document: the block event stream plus the
// auxiliary stores the inline parser and HTML sink need to resolve link
// references, footnotes, and heading slugs (spec.md §3).
type Document struct {
	input       []byte
	opts        Options
	blockEvents []BlockEvent
	refs        *refStore
	footnotes   *footnoteStore
	frontMatter []byte
}

// Parse parses source into a [Document] (spec.md §6.1 parse(input,
// options) → {html, front_matter?}, carried unchanged into SPEC_FULL.md
// §6). Every NUL byte, which CommonMark disallows appearing literally, is
// replaced with the Unicode replacement character, matching the
// teacher's html_renderer.go-era Parse and every CommonMark reference
// implementation's handling of NUL.
func Parse(source []byte, opts Options) *Document {
	if bytes.IndexByte(source, 0) >= 0 {
		source = bytes.ReplaceAll(source, []byte{0}, []byte("�"))
	}
	body := source
	var frontMatter []byte
	if opts.FrontMatter {
		body, frontMatter = stripFrontMatter(source)
	}
	events, refs, footnotes, _ := compileBlocks(body, opts)
	return &Document{input: body, opts: opts, blockEvents: events, refs: refs, footnotes: footnotes, frontMatter: frontMatter}
}

// FrontMatter returns the raw front-matter text (fence lines included)
// extracted by [Parse] when [Options.FrontMatter] is set, or nil if the
// document had none or the option was disabled (spec.md §6.1's
// front_matter? result).
func (doc *Document) FrontMatter() []byte {
	return doc.frontMatter
}

// ParseReader reads all of r and parses it, matching [Parse]'s NUL and
// front-matter handling.
func ParseReader(r io.Reader, opts Options) (*Document, error) {
	source, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("parse markdown: %w", err)
	}
	return Parse(source, opts), nil
}

// AppendHTML appends doc's rendered HTML to dst and returns the resulting
// slice (spec.md §6.2).
func (doc *Document) AppendHTML(dst []byte) []byte {
	return AppendHTML(dst, doc.input, doc.blockEvents, doc.opts, doc.refs, doc.footnotes)
}

// RenderHTML writes doc's rendered HTML to w.
func (doc *Document) RenderHTML(w io.Writer) error {
	return RenderHTML(w, doc.input, doc.blockEvents, doc.opts, doc.refs, doc.footnotes)
}

// ToHTML parses source with opts and renders it to HTML in one step
// (spec.md §6.2 ToHTML).
func ToHTML(source []byte, opts Options) []byte {
	return Parse(source, opts).AppendHTML(nil)
}

// ToHTMLInto parses source with opts and appends the rendered HTML to
// dst, returning the resulting slice.
func ToHTMLInto(dst []byte, source []byte, opts Options) []byte {
	return Parse(source, opts).AppendHTML(dst)
}

// ToHTMLReader reads all of r, parses it with opts, and writes the
// rendered HTML to w.
func ToHTMLReader(w io.Writer, r io.Reader, opts Options) error {
	doc, err := ParseReader(r, opts)
	if err != nil {
		return err
	}
	return doc.RenderHTML(w)
}
