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

// Package corpus lists and orders the documents of an input corpus: a
// directory whose file names are decimal document IDs and whose
// contents are UTF-8 text.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// Doc identifies one corpus document by its numeric ID and its path on
// disk.
type Doc struct {
	ID   int
	Path string
}

// List returns the documents found directly inside dir, sorted in
// ascending numeric order of their document ID, per the construction
// ordering requirement. Entries whose file name does not parse as a
// positive decimal integer are skipped; subdirectories are skipped.
func List(dir string) ([]Doc, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing corpus %s: %w", dir, err)
	}
	docs := make([]Doc, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, err := strconv.Atoi(e.Name())
		if err != nil || id <= 0 {
			continue
		}
		docs = append(docs, Doc{ID: id, Path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// IDs returns the document IDs of docs in the order given; for the
// output of List that order is ascending, and the result is the
// "universal doc list" once an entire corpus has been listed.
func IDs(docs []Doc) []int {
	ids := make([]int, len(docs))
	for i := range docs {
		ids[i] = docs[i].ID
	}
	return ids
}
