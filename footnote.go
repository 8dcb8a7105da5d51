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

// footnoteStore is the auxiliary store spec.md §2/§4.5 describes, populated
// only when Options.Footnotes is set and referenced from both parsers: the
// block parser records definitions ([^id]: ...), the inline parser records
// references ([^id]) in the order encountered so the sink can assign
// footnote numbers and emit the back-reference section at document end.
type footnoteStore struct {
	defOrder   []string
	defByLabel map[string]int // label -> index into defOrder
	refOrder   []string       // references in document order, duplicates allowed
	refSeen    map[string]int // label -> 1-based footnote number, first use wins
}

func newFootnoteStore() *footnoteStore {
	return &footnoteStore{
		defByLabel: make(map[string]int),
		refSeen:    make(map[string]int),
	}
}

// defineFootnote registers a definition; first writer wins, matching
// spec.md §4.3's refdef policy which footnotes mirror.
func (s *footnoteStore) defineFootnote(label string) bool {
	if _, exists := s.defByLabel[label]; exists {
		return false
	}
	s.defByLabel[label] = len(s.defOrder)
	s.defOrder = append(s.defOrder, label)
	return true
}

// referenceFootnote records a [^label] use and returns its 1-based
// footnote number, allocating a new one on first use.
func (s *footnoteStore) referenceFootnote(label string) int {
	if n, ok := s.refSeen[label]; ok {
		return n
	}
	n := len(s.refSeen) + 1
	s.refSeen[label] = n
	s.refOrder = append(s.refOrder, label)
	return n
}

func (s *footnoteStore) hasDefinition(label string) bool {
	_, ok := s.defByLabel[label]
	return ok
}
