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

import "sort"

// dictEntry is one term's accumulated state inside a Block: how many
// documents have been seen to contain the term, and the ordered list
// of document IDs that contain it.
type dictEntry struct {
	docFreq  int
	postings []int
}

// Block is a bounded-memory, in-memory partial inverted index. It is
// the SPIMI accumulator: terms are inserted as documents are
// tokenized, and the block is spilled to disk once it grows past a
// configured size.
type Block struct {
	dict map[string]*dictEntry
}

// NewBlock returns an empty Block.
func NewBlock() *Block {
	return &Block{dict: make(map[string]*dictEntry)}
}

// Insert records that docID contains term. Because documents are
// processed in ascending ID order and each document is processed
// contiguously, checking only the last element of the postings list
// suffices to deduplicate repeated terms within one document.
func (b *Block) Insert(term string, docID int) {
	e, ok := b.dict[term]
	if !ok {
		b.dict[term] = &dictEntry{docFreq: 1, postings: []int{docID}}
		return
	}
	last := e.postings[len(e.postings)-1]
	if last == docID {
		return
	}
	e.postings = append(e.postings, docID)
	e.docFreq++
}

// Size returns the number of distinct terms currently held, which
// drives spill decisions.
func (b *Block) Size() int {
	return len(b.dict)
}

// terms returns the block's terms sorted ascending by codepoint.
func (b *Block) terms() []string {
	out := make([]string, 0, len(b.dict))
	for t := range b.dict {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
