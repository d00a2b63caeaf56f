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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/boolidx/boolidx/index"
)

func buildTestIndex(t *testing.T, docs map[string]string) (dictPath, postPath string) {
	t.Helper()
	corpusDir := t.TempDir()
	for name, content := range docs {
		if err := os.WriteFile(filepath.Join(corpusDir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	out := t.TempDir()
	dictPath = filepath.Join(out, "final.dict")
	postPath = filepath.Join(out, "final.post")
	b := &index.Builder{MaxBlockSize: 1000}
	if _, err := b.Build(corpusDir, t.TempDir(), dictPath, postPath); err != nil {
		t.Fatal(err)
	}
	return dictPath, postPath
}

func TestDriverEvalBasicQueries(t *testing.T) {
	dictPath, postPath := buildTestIndex(t, map[string]string{
		"1": "the quick brown fox",
		"2": "the lazy dog",
		"3": "the fox and the dog",
	})
	d, err := Open(dictPath, postPath)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	cases := []struct {
		q, want string
	}{
		{"fox", "1 3"},
		{"fox AND dog", "3"},
		{"fox OR dog", "1 2 3"},
		{"NOT fox", "2"},
		{"nonexistent", ""},
		{"fox AND NOT dog", "1"},
	}
	for _, c := range cases {
		if got := d.Eval(c.q); got != c.want {
			t.Errorf("Eval(%q) = %q, want %q", c.q, got, c.want)
		}
	}
}

func TestDriverEvalInvalidQuery(t *testing.T) {
	dictPath, postPath := buildTestIndex(t, map[string]string{"1": "a"})
	d, err := Open(dictPath, postPath)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	for _, q := range []string{"AND a", "a AND", "(a"} {
		if got := d.Eval(q); got != invalidQuery {
			t.Errorf("Eval(%q) = %q, want %q", q, got, invalidQuery)
		}
	}
}

func TestDriverEvalOversizeQueryYieldsBlank(t *testing.T) {
	dictPath, postPath := buildTestIndex(t, map[string]string{"1": "a"})
	d, err := Open(dictPath, postPath)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	if got := d.Eval(""); got != "" {
		t.Errorf("empty query: got %q", got)
	}
	oversize := strings.Repeat("a ", MaxQueryLen)
	if got := d.Eval(oversize); got != "" {
		t.Errorf("oversize query: got %q", got)
	}
}

func TestDriverRunEndToEnd(t *testing.T) {
	dictPath, postPath := buildTestIndex(t, map[string]string{
		"1": "apple banana",
		"2": "banana cherry",
	})
	d, err := Open(dictPath, postPath)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	dir := t.TempDir()
	queriesPath := filepath.Join(dir, "queries.txt")
	outputPath := filepath.Join(dir, "results.txt")
	if err := os.WriteFile(queriesPath, []byte("banana\napple AND cherry\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := d.Run(queriesPath, outputPath); err != nil {
		t.Fatal(err)
	}
	out, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "1 2\n\n"
	if string(out) != want {
		t.Fatalf("got %q want %q", out, want)
	}
}
