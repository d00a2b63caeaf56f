// Copyright (C) 2026 The Boolidx Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package tokenize

import (
	"reflect"
	"testing"
)

func TestSimpleStem(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"cat dog", []string{"cat", "dog"}},
		{"The Cat, the DOG!", []string{"the", "cat", "the", "dog"}},
		{"", nil},
		{"   ", nil},
		{"a1 b2-c3", []string{"a1", "b2", "c3"}},
	}
	var s Simple
	for _, c := range cases {
		got := s.Stem(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Stem(%q) = %#v, want %#v", c.in, got, c.want)
		}
	}
}

func TestSimpleStemDeterministic(t *testing.T) {
	var s Simple
	a := s.Stem("repeatable input text")
	b := s.Stem("repeatable input text")
	if !reflect.DeepEqual(a, b) {
		t.Fatal("Stem is not deterministic")
	}
}
