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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Foo", "foo"},
		{"  Foo   Bar  ", "foo bar"},
		{"Foo\tBar\nBaz", "foo bar baz"},
		{"STRASSE", "strasse"},
		{"", ""},
	}
	for _, test := range tests {
		if got := normalizeLabel(test.label); got != test.want {
			t.Errorf("normalizeLabel(%q) = %q; want %q", test.label, got, test.want)
		}
	}
}

func TestRefStoreFirstWriterWins(t *testing.T) {
	s := newRefStore(1024)
	first := refDefinition{dest: "/first"}
	second := refDefinition{dest: "/second"}

	if ok := s.insert("foo", first); !ok {
		t.Fatal("first insert of \"foo\" should have succeeded")
	}
	if ok := s.insert("foo", second); ok {
		t.Fatal("second insert of \"foo\" should have been rejected (first writer wins)")
	}

	got, ok := s.lookup("foo")
	if !ok {
		t.Fatal("lookup(\"foo\") = false; want true")
	}
	if diff := cmp.Diff(first, got, cmp.AllowUnexported(refDefinition{})); diff != "" {
		t.Errorf("lookup(\"foo\") mismatch (-want +got):\n%s", diff)
	}

	if !s.MatchReference("foo") {
		t.Error("MatchReference(\"foo\") = false; want true")
	}
	if s.MatchReference("bar") {
		t.Error("MatchReference(\"bar\") = true; want false")
	}
	if _, ok := s.lookup("bar"); ok {
		t.Error("lookup(\"bar\") = true; want false, no such definition")
	}
}

func TestRefStoreEmptyLabelRejected(t *testing.T) {
	s := newRefStore(1024)
	if ok := s.insert("", refDefinition{dest: "/x"}); ok {
		t.Error("insert(\"\", ...) = true; want false")
	}
}

func TestRefStoreExpansionBudget(t *testing.T) {
	s := newRefStore(10)
	s.expansionBudget = 10
	s.insert("a", refDefinition{dest: "0123456789"})
	if _, ok := s.lookup("a"); !ok {
		t.Fatal("first lookup within budget should succeed")
	}
	s.insert("b", refDefinition{dest: "x"})
	if _, ok := s.lookup("b"); ok {
		t.Error("lookup(\"b\") succeeded after the expansion budget was exhausted; want false")
	}
}
