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

func TestToHTMLInlineConstructs(t *testing.T) {
	opts := DefaultOptions()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Emphasis",
			input: "*em* _also em_\n",
			want:  "<p><em>em</em> <em>also em</em></p>",
		},
		{
			name:  "Strong",
			input: "**strong** __also strong__\n",
			want:  "<p><strong>strong</strong> <strong>also strong</strong></p>",
		},
		{
			name:  "NestedEmphasis",
			input: "**strong *and em***\n",
			want:  "<p><strong>strong <em>and em</em></strong></p>",
		},
		{
			name:  "CodeSpan",
			input: "`code <tag>`\n",
			want:  "<p><code>code &lt;tag&gt;</code></p>",
		},
		{
			name:  "Autolink",
			input: "<https://example.com>\n",
			want:  "<p><a href=\"https://example.com\">https://example.com</a></p>",
		},
		{
			name:  "Image",
			input: "![alt text](/img.png \"title\")\n",
			want:  "<p><img src=\"/img.png\" title=\"title\" alt=\"alt text\"></p>",
		},
		{
			name:  "Link",
			input: "[text](/url \"title\")\n",
			want:  "<p><a href=\"/url\" title=\"title\">text</a></p>",
		},
		{
			name:  "ReferenceLink",
			input: "[text][ref]\n\n[ref]: /url \"title\"\n",
			want:  "<p><a href=\"/url\" title=\"title\">text</a></p>",
		},
		{
			name:  "EscapedCharacter",
			input: "1 \\* 2 = 2\n",
			want:  "<p>1 * 2 = 2</p>",
		},
		{
			name:  "EntityReference",
			input: "&copy; 2024\n",
			want:  "<p>© 2024</p>",
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
