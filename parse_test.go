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
	"strings"
	"testing"
)

func TestToHTMLBasics(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  Options
		want  string
	}{
		{
			name:  "Paragraph",
			input: "Hello *world*\n",
			opts:  DefaultOptions(),
			want:  "<p>Hello <em>world</em></p>",
		},
		{
			name:  "HeadingWithID",
			input: "# Hello World\n",
			opts:  DefaultOptions(),
			want:  "<h1 id=\"hello-world\">Hello World</h1>",
		},
		{
			name: "HeadingWithoutID",
			input: "# Hello World\n",
			opts: func() Options {
				o := DefaultOptions()
				o.HeadingIDs = false
				return o
			}(),
			want: "<h1>Hello World</h1>",
		},
		{
			name:  "ThematicBreak",
			input: "---\n",
			opts:  DefaultOptions(),
			want:  "<hr>",
		},
		{
			name:  "FencedCodeBlock",
			input: "```go\nfmt.Println(1)\n```\n",
			opts:  DefaultOptions(),
			want:  "<pre><code class=\"language-go\">fmt.Println(1)\n</code></pre>",
		},
		{
			name:  "HardBreak",
			input: "line one  \nline two\n",
			opts:  DefaultOptions(),
			want:  "<p>line one<br>\nline two</p>",
		},
		{
			name:  "SoftBreak",
			input: "line one\nline two\n",
			opts:  DefaultOptions(),
			want:  "<p>line one\nline two</p>",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := string(ToHTML([]byte(test.input), test.opts))
			if got != test.want {
				t.Errorf("ToHTML(%q) = %q; want %q", test.input, got, test.want)
			}
		})
	}
}

func TestToHTMLInto(t *testing.T) {
	dst := []byte("PREFIX:")
	got := string(ToHTMLInto(dst, []byte("hi\n"), DefaultOptions()))
	want := "PREFIX:<p>hi</p>"
	if got != want {
		t.Errorf("ToHTMLInto = %q; want %q", got, want)
	}
}

func TestToHTMLReader(t *testing.T) {
	var buf bytes.Buffer
	err := ToHTMLReader(&buf, strings.NewReader("# hi\n"), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	want := "<h1 id=\"hi\">hi</h1>"
	if got := buf.String(); got != want {
		t.Errorf("ToHTMLReader output = %q; want %q", got, want)
	}
}

func TestParseReader(t *testing.T) {
	doc, err := ParseReader(strings.NewReader("hello\n"), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := doc.RenderHTML(&buf); err != nil {
		t.Fatal(err)
	}
	want := "<p>hello</p>"
	if got := buf.String(); got != want {
		t.Errorf("RenderHTML output = %q; want %q", got, want)
	}
}

func TestParseReplacesNUL(t *testing.T) {
	got := string(ToHTML([]byte("a\x00b\n"), DefaultOptions()))
	if strings.Contains(got, "\x00") {
		t.Errorf("ToHTML output retained a literal NUL byte: %q", got)
	}
	if !strings.Contains(got, "�") {
		t.Errorf("ToHTML output = %q; want it to contain U+FFFD in place of NUL", got)
	}
}

func TestFrontMatterStripped(t *testing.T) {
	input := "---\ntitle: Hi\n---\n# Heading\n"
	opts := DefaultOptions()
	opts.FrontMatter = true
	got := string(ToHTML([]byte(input), opts))
	want := "<h1 id=\"heading\">Heading</h1>"
	if got != want {
		t.Errorf("ToHTML(%q) = %q; want %q", input, got, want)
	}
}

func TestFrontMatterRequiresOption(t *testing.T) {
	// Without Options.FrontMatter, the fence lines are ordinary Markdown:
	// a leading thematic break, then "title: Hi" turned into a setext
	// heading by the closing "---", so the literal front-matter text
	// survives into the rendered output instead of being stripped.
	input := "---\ntitle: Hi\n---\n# Heading\n"
	got := string(ToHTML([]byte(input), DefaultOptions()))
	if !strings.Contains(got, "title: Hi") {
		t.Errorf("ToHTML(%q) = %q; want front matter text to survive when Options.FrontMatter is unset", input, got)
	}
}
