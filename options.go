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

// Options is the single configuration record both parsers consult at their
// state-machine branch points (spec.md §4.5). The zero value is not the
// default configuration -- use DefaultOptions to get spec-compliant
// defaults, matching the teacher's preference (HTMLRenderer in
// html_renderer.go) for exported, directly-constructible option structs
// over functional options.
type Options struct {
	// Tables enables GFM tables (default true).
	Tables bool
	// Strikethrough enables ~~text~~ (default true).
	Strikethrough bool
	// TaskLists recognizes [ ], [x], [X] at the start of a list item's
	// first content line (default true).
	TaskLists bool
	// AutolinkLiterals autolinks bare http(s)://, www., and email text
	// (default false).
	AutolinkLiterals bool
	// DisallowedRawHTML strips the GFM-disallowed tag set (default true).
	DisallowedRawHTML bool
	// AllowHTML passes raw HTML through; otherwise it is escaped
	// (default true).
	AllowHTML bool
	// AllowLinkRefs enables link reference definitions (default true).
	AllowLinkRefs bool
	// Footnotes parses [^id] and [^id]: ... (default false).
	Footnotes bool
	// FrontMatter strips a leading ---\n...\n--- or +++\n...\n+++ block
	// (default false).
	FrontMatter bool
	// HeadingIDs emits <hN id="slug"> with a GitHub-style slug
	// (default true).
	HeadingIDs bool
	// Math enables $...$ and $$...$$ spans (default false).
	Math bool
	// Callouts treats a blockquote starting with [!NOTE] (and
	// TIP/IMPORTANT/WARNING/CAUTION) as an admonition (default false).
	Callouts bool
}

// DefaultOptions returns the option set spec.md §6.1 documents as the
// default: every extension on except the ones that are opt-in
// (AutolinkLiterals, Footnotes, FrontMatter, Math, Callouts).
func DefaultOptions() Options {
	return Options{
		Tables:            true,
		Strikethrough:     true,
		TaskLists:         true,
		DisallowedRawHTML: true,
		AllowHTML:         true,
		AllowLinkRefs:     true,
		HeadingIDs:        true,
	}
}
