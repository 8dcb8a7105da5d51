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

func TestStripFrontMatter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantBody string
		wantFM   string
	}{
		{
			name:     "YAMLFence",
			input:    "---\ntitle: Hi\n---\nbody\n",
			wantBody: "body\n",
			wantFM:   "---\ntitle: Hi\n---\n",
		},
		{
			name:     "TOMLFence",
			input:    "+++\ntitle = \"Hi\"\n+++\nbody\n",
			wantBody: "body\n",
			wantFM:   "+++\ntitle = \"Hi\"\n+++\n",
		},
		{
			name:     "NoFence",
			input:    "body\n",
			wantBody: "body\n",
			wantFM:   "",
		},
		{
			name:     "UnclosedFence",
			input:    "---\ntitle: Hi\nbody\n",
			wantBody: "---\ntitle: Hi\nbody\n",
			wantFM:   "",
		},
		{
			name:     "FenceNotAlone",
			input:    "--- not a fence\nbody\n",
			wantBody: "--- not a fence\nbody\n",
			wantFM:   "",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			body, fm := stripFrontMatter([]byte(test.input))
			if string(body) != test.wantBody {
				t.Errorf("body = %q; want %q", body, test.wantBody)
			}
			if string(fm) != test.wantFM {
				t.Errorf("frontMatter = %q; want %q", fm, test.wantFM)
			}
		})
	}
}
