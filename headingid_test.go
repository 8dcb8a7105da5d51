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

import "testing"

func TestRawSlug(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Punctuation! Matters?", "punctuation-matters"},
		{"Already-Hyphenated", "already-hyphenated"},
		{"snake_case_name", "snake_case_name"},
		{"", ""},
		{"!!!", ""},
	}
	for _, test := range tests {
		if got := rawSlug(test.text); got != test.want {
			t.Errorf("rawSlug(%q) = %q; want %q", test.text, got, test.want)
		}
	}
}

func TestHeadingIDStoreDeduplicates(t *testing.T) {
	s := newHeadingIDStore()
	first := s.slugify("Overview")
	second := s.slugify("Overview")
	third := s.slugify("Overview")
	if first != "overview" {
		t.Errorf("first slug = %q; want %q", first, "overview")
	}
	if second != "overview-1" {
		t.Errorf("second slug = %q; want %q", second, "overview-1")
	}
	if third != "overview-2" {
		t.Errorf("third slug = %q; want %q", third, "overview-2")
	}
}

func TestHeadingIDStoreEmptyTextFallsBackToHeading(t *testing.T) {
	s := newHeadingIDStore()
	if got := s.slugify("!!!"); got != "heading" {
		t.Errorf("slugify(%q) = %q; want %q", "!!!", got, "heading")
	}
}

func TestToHTMLDuplicateHeadingIDs(t *testing.T) {
	input := "# Overview\n\n## Overview\n"
	got := string(ToHTML([]byte(input), DefaultOptions()))
	want := "<h1 id=\"overview\">Overview</h1><h2 id=\"overview-1\">Overview</h2>"
	if got != want {
		t.Errorf("ToHTML(%q) = %q; want %q", input, got, want)
	}
}
