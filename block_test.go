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

func TestToHTMLBlockConstructs(t *testing.T) {
	opts := DefaultOptions()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "SetextH1",
			input: "Title\n=====\n",
			want:  "<h1 id=\"title\">Title</h1>",
		},
		{
			name:  "SetextH2",
			input: "Title\n-----\n",
			want:  "<h2 id=\"title\">Title</h2>",
		},
		{
			name:  "NestedBlockquote",
			input: "> outer\n> > inner\n",
			want:  "<blockquote><p>outer</p><blockquote><p>inner</p></blockquote></blockquote>",
		},
		{
			name:  "IndentedCodeBlock",
			input: "    code line\n",
			want:  "<pre><code>code line\n</code></pre>",
		},
		{
			name: "HTMLBlock",
			input: "<div>\n  raw\n</div>\n",
			want: "<div>\n  raw\n</div>\n",
		},
		{
			name:  "UnreferencedLinkDefNotRendered",
			input: "[ref]: /url \"title\"\n",
			want:  "",
		},
		{
			name:  "MultipleParagraphs",
			input: "first\n\nsecond\n",
			want:  "<p>first</p><p>second</p>",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := string(ToHTML([]byte(test.input), opts))
			if got != test.want {
				t.Errorf("ToHTML(%q) = %q; want %q", test.input, got, test.want)
			}
		})
	}
}
