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

// stripFrontMatter removes a leading YAML (---) or TOML (+++) front-matter
// block (spec.md §6.1 "front matter", gated by Options.FrontMatter),
// grounded on original_source/src/frontmatter.rs's fence-line detection.
// It returns the remaining document body and the front-matter block's raw
// text (fences included, empty if none was found).
//
// The fence must be alone on its own line (only trailing whitespace
// allowed) both at open and close; the block is capped at
// maxFrontMatterBytes so a missing closing fence can't force a full-
// document scan on every parse.
func stripFrontMatter(source []byte) (body []byte, frontMatter []byte) {
	fence, ok := frontMatterFence(source)
	if !ok {
		return source, nil
	}
	search := source
	if len(search) > maxFrontMatterBytes {
		search = search[:maxFrontMatterBytes]
	}
	lineStart := len(fence)
	if lineStart < len(source) && source[lineStart] == '\r' {
		lineStart++
	}
	if lineStart < len(source) && source[lineStart] == '\n' {
		lineStart++
	}
	for pos := lineStart; pos < len(search); {
		nl := bytes.IndexByte(search[pos:], '\n')
		lineEnd := len(search)
		next := lineEnd
		if nl >= 0 {
			lineEnd = pos + nl
			next = lineEnd + 1
		}
		line := search[pos:lineEnd]
		trimmed := bytes.TrimRight(line, "\r")
		if bytes.Equal(bytes.TrimRight(trimmed, " \t"), fence) {
			return source[next:], source[:next]
		}
		pos = next
		if nl < 0 {
			break
		}
	}
	return source, nil
}

// frontMatterFence reports the fence line ("---" or "+++", with no other
// content but trailing whitespace) that opens source, if any.
func frontMatterFence(source []byte) (fence []byte, ok bool) {
	var delim byte
	switch {
	case bytes.HasPrefix(source, []byte("---")):
		delim = '-'
	case bytes.HasPrefix(source, []byte("+++")):
		delim = '+'
	default:
		return nil, false
	}
	n := 0
	for n < len(source) && source[n] == delim {
		n++
	}
	if n < 3 {
		return nil, false
	}
	rest := source[n:]
	lineEnd := bytes.IndexByte(rest, '\n')
	if lineEnd < 0 {
		lineEnd = len(rest)
	}
	if !isBlankLine(rest[:lineEnd]) {
		return nil, false
	}
	return source[:n], true
}
