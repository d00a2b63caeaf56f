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

package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDocs(t *testing.T, docs map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range docs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestBuilderBuildEndToEnd(t *testing.T) {
	corpusDir := writeDocs(t, map[string]string{
		"1": "the quick brown fox",
		"2": "the lazy dog",
		"3": "the fox and the dog",
	})
	workDir := t.TempDir()
	out := t.TempDir()
	dictOut := filepath.Join(out, "final.dict")
	postOut := filepath.Join(out, "final.post")

	b := &Builder{MaxBlockSize: 1000}
	stats, err := b.Build(corpusDir, workDir, dictOut, postOut)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Documents != 3 {
		t.Fatalf("got %d documents, want 3", stats.Documents)
	}
	if stats.BuildID == "" {
		t.Fatal("expected non-empty build ID")
	}

	dictBytes, err := os.ReadFile(dictOut)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(dictBytes), "\n"), "\n")
	if lines[0] != "1 2 3" {
		t.Fatalf("universal doc header: got %q", lines[0])
	}
	var foundFox bool
	for _, line := range lines[1:] {
		if strings.HasPrefix(line, "fox 2 ") {
			foundFox = true
		}
	}
	if !foundFox {
		t.Fatalf("expected term 'fox' with doc_freq 2, dict:\n%s", dictBytes)
	}

	sigPath := dictOut + ".sig"
	if _, err := os.Stat(sigPath); err != nil {
		t.Fatalf("expected signature sidecar: %v", err)
	}
	ok, err := VerifySignature(dictOut, postOut, DefaultSigningKey)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected default-key signature to verify")
	}

	// No leftover transient block files.
	leftovers, err := filepath.Glob(filepath.Join(workDir, "*_block_*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("expected no leftover block files, got %v", leftovers)
	}
}

func TestBuilderSpillsAcrossBlocks(t *testing.T) {
	corpusDir := writeDocs(t, map[string]string{
		"1": "alpha beta",
		"2": "gamma delta",
		"3": "epsilon zeta",
	})
	workDir := t.TempDir()
	out := t.TempDir()
	dictOut := filepath.Join(out, "final.dict")
	postOut := filepath.Join(out, "final.post")

	// A tiny cap of 2 forces multiple spills across 6 distinct terms.
	small := &Builder{MaxBlockSize: 2}
	smallStats, err := small.Build(corpusDir, workDir+"/small", dictOut, postOut)
	if err != nil {
		t.Fatal(err)
	}
	if smallStats.BlocksWritten < 2 {
		t.Fatalf("expected multiple spilled blocks, got %d", smallStats.BlocksWritten)
	}

	bigDictOut := filepath.Join(out, "big.dict")
	bigPostOut := filepath.Join(out, "big.post")
	big := &Builder{MaxBlockSize: 1000}
	if _, err := big.Build(corpusDir, workDir+"/big", bigDictOut, bigPostOut); err != nil {
		t.Fatal(err)
	}

	smallBytes, err := os.ReadFile(dictOut)
	if err != nil {
		t.Fatal(err)
	}
	bigBytes, err := os.ReadFile(bigDictOut)
	if err != nil {
		t.Fatal(err)
	}
	if string(smallBytes) != string(bigBytes) {
		t.Fatalf("block-spill test: small-block and single-block dictionaries differ:\n%s\nvs\n%s", smallBytes, bigBytes)
	}
}

func TestBuilderTestModeSampleCap(t *testing.T) {
	docs := make(map[string]string, 5)
	for i := 1; i <= 5; i++ {
		docs[itoaTest(i)] = "word"
	}
	corpusDir := writeDocs(t, docs)
	workDir := t.TempDir()
	out := t.TempDir()

	b := &Builder{TestMode: true, SampleCap: 3}
	stats, err := b.Build(corpusDir, workDir, filepath.Join(out, "d"), filepath.Join(out, "p"))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Documents != 3 {
		t.Fatalf("got %d documents processed, want 3", stats.Documents)
	}
}
