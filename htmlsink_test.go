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

func TestHTMLSinkExtensions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  Options
		want  string
	}{
		{
			name:  "TightList",
			input: "- one\n- two\n",
			opts:  DefaultOptions(),
			want:  "<ul><li>one</li><li>two</li></ul>",
		},
		{
			name:  "LooseList",
			input: "- one\n\n- two\n",
			opts:  DefaultOptions(),
			want:  "<ul><li><p>one</p></li><li><p>two</p></li></ul>",
		},
		{
			name:  "OrderedListStart",
			input: "3. one\n4. two\n",
			opts:  DefaultOptions(),
			want:  "<ol start=\"3\"><li>one</li><li>two</li></ol>",
		},
		{
			name:  "TaskList",
			input: "- [ ] todo\n- [x] done\n",
			opts:  DefaultOptions(),
			want: "<ul>" +
				"<li class=\"task-list-item\"><input type=\"checkbox\" disabled> todo</li>" +
				"<li class=\"task-list-item\"><input type=\"checkbox\" disabled checked> done</li>" +
				"</ul>",
		},
		{
			name:  "Strikethrough",
			input: "~~gone~~\n",
			opts:  DefaultOptions(),
			want:  "<p><del>gone</del></p>",
		},
		{
			name: "AutolinkLiteral",
			input: "See https://example.com/path for more.\n",
			opts: func() Options {
				o := DefaultOptions()
				o.AutolinkLiterals = true
				return o
			}(),
			want: "<p>See <a href=\"https://example.com/path\">https://example.com/path</a> for more.</p>",
		},
		{
			name: "Math",
			input: "$x^2$\n",
			opts: func() Options {
				o := DefaultOptions()
				o.Math = true
				return o
			}(),
			want: "<p><span class=\"math-inline\">\\(x^2\\)</span></p>",
		},
		{
			name: "Table",
			input: "| A | B |\n| --- | ---: |\n| 1 | 2 |\n",
			opts:  DefaultOptions(),
			want: "<table>" +
				"<thead><tr><th>A</th><th align=\"right\">B</th></tr></thead>" +
				"<tbody><tr><td>1</td><td align=\"right\">2</td></tr></tbody>" +
				"</table>",
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

func TestHTMLSinkCallouts(t *testing.T) {
	opts := DefaultOptions()
	opts.Callouts = true
	input := "> [!NOTE]\n> Heads up.\n"
	got := string(ToHTML([]byte(input), opts))
	want := "<blockquote class=\"callout callout-note\"><p>Heads up.</p></blockquote>"
	if got != want {
		t.Errorf("ToHTML(%q) = %q; want %q", input, got, want)
	}
}

func TestHTMLSinkCalloutsDisabledByDefault(t *testing.T) {
	// Without Options.Callouts, a "[!NOTE]" marker is ordinary blockquote
	// text and must not be stripped or styled.
	input := "> [!NOTE]\n> Heads up.\n"
	got := string(ToHTML([]byte(input), DefaultOptions()))
	want := "<blockquote><p>[!NOTE]\nHeads up.</p></blockquote>"
	if got != want {
		t.Errorf("ToHTML(%q) = %q; want %q", input, got, want)
	}
}

func TestHTMLSinkFootnotes(t *testing.T) {
	opts := DefaultOptions()
	opts.Footnotes = true
	input := "First[^a] and second[^b].\n\n[^b]: second note\n\n[^a]: first note\n"
	got := string(ToHTML([]byte(input), opts))
	want := "<p>First<sup id=\"fnref-1\"><a href=\"#fn-1\">1</a></sup> and second<sup id=\"fnref-2\"><a href=\"#fn-2\">2</a></sup>.</p>" +
		"<section class=\"footnotes\"><ol>" +
		"<li id=\"fn-1\"><p>first note</p> <a href=\"#fnref-1\">&#8617;</a></li>" +
		"<li id=\"fn-2\"><p>second note</p> <a href=\"#fnref-2\">&#8617;</a></li>" +
		"</ol></section>"
	if got != want {
		t.Errorf("ToHTML(%q) = %q; want %q", input, got, want)
	}
}

func TestHTMLSinkDisallowedRawHTML(t *testing.T) {
	opts := DefaultOptions()
	input := "Hello <script>alert(1)</script> World\n"
	got := string(ToHTML([]byte(input), opts))
	want := "<p>Hello &lt;script>alert(1)&lt;/script> World</p>"
	if got != want {
		t.Errorf("ToHTML(%q) = %q; want %q", input, got, want)
	}
}

func TestHTMLSinkAllowHTMLOff(t *testing.T) {
	opts := DefaultOptions()
	opts.AllowHTML = false
	input := "Hello <em>World</em>\n"
	got := string(ToHTML([]byte(input), opts))
	want := "<p>Hello &lt;em&gt;World&lt;/em&gt;</p>"
	if got != want {
		t.Errorf("ToHTML(%q) = %q; want %q", input, got, want)
	}
}
