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

package query

import (
	"testing"

	"github.com/boolidx/boolidx/tokenize"
)

func postfixString(items []Item) string {
	out := ""
	for i, it := range items {
		if i > 0 {
			out += " "
		}
		if it.IsOp {
			out += it.Op.String()
		} else {
			out += it.Term
		}
	}
	return out
}

func TestParseSimpleAnd(t *testing.T) {
	got, err := Parse("cat AND dog", tokenize.Simple{})
	if err != nil {
		t.Fatal(err)
	}
	if postfixString(got) != "cat dog AND" {
		t.Fatalf("got %q", postfixString(got))
	}
}

func TestParsePrecedenceAndOverOr(t *testing.T) {
	got, err := Parse("a OR b AND c", tokenize.Simple{})
	if err != nil {
		t.Fatal(err)
	}
	if postfixString(got) != "a b c AND OR" {
		t.Fatalf("got %q", postfixString(got))
	}
}

func TestParseNotBindsTighter(t *testing.T) {
	got, err := Parse("NOT a AND b", tokenize.Simple{})
	if err != nil {
		t.Fatal(err)
	}
	if postfixString(got) != "a NOT b AND" {
		t.Fatalf("got %q", postfixString(got))
	}
}

func TestParseParentheses(t *testing.T) {
	got, err := Parse("(a OR b) AND c", tokenize.Simple{})
	if err != nil {
		t.Fatal(err)
	}
	if postfixString(got) != "a b OR c AND" {
		t.Fatalf("got %q", postfixString(got))
	}
}

func TestParseUnbalancedParens(t *testing.T) {
	if _, err := Parse("(a AND b", tokenize.Simple{}); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := Parse("a AND b)", tokenize.Simple{}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseStemsWordsToLowercase(t *testing.T) {
	got, err := Parse("Cat AND Dog", tokenize.Simple{})
	if err != nil {
		t.Fatal(err)
	}
	if postfixString(got) != "cat dog AND" {
		t.Fatalf("got %q", postfixString(got))
	}
}
