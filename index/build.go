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

// Package index implements the SPIMI-style external-memory inverted
// index pipeline: bounded-memory in-memory blocks, disk spilling,
// pairwise external merge, and the finalizer that produces the query
// driver's on-disk dictionary and postings files.
package index

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/boolidx/boolidx/corpus"
	"github.com/boolidx/boolidx/tokenize"
)

// DefaultMaxBlockSize and DefaultTestMaxBlockSize are the recommended
// block-size caps from spec §4.1.
const (
	DefaultMaxBlockSize     = 3500
	DefaultTestMaxBlockSize = 350
	DefaultTestSampleCap    = 100
)

// DefaultSigningKey is the builder's well-known signing key, suitable
// for local/offline use where no multi-tenant key management exists
// (mirroring the teacher's "unsafe" default signing key).
var DefaultSigningKey = []byte("boolidx-default-signing-key")

// BuildStats summarizes one Builder.Build run for logging and tests.
// It is not part of the on-disk format.
type BuildStats struct {
	BuildID       string
	Documents     int
	Terms         int
	BlocksWritten int
	MergePasses   int
	BytesWritten  int64
}

// Builder orchestrates the full pipeline: corpus scan, tokenize,
// in-memory block accumulation with spill-on-size-cap, pairwise
// external merge, and finalization.
type Builder struct {
	// MaxBlockSize is the term-count cap that triggers a block spill.
	// Zero selects DefaultMaxBlockSize (or DefaultTestMaxBlockSize in
	// test mode).
	MaxBlockSize int
	// ChunkSize controls how many dictionary lines the merger buffers
	// per side. Zero selects MaxBlockSize/2.
	ChunkSize int
	// TestMode caps the corpus at SampleCap files and, unless
	// MaxBlockSize is set explicitly, lowers the default block size.
	TestMode  bool
	SampleCap int

	// Stemmer tokenizes and stems document text into index terms. A
	// nil Stemmer defaults to tokenize.Simple{}.
	Stemmer tokenize.Stemmer

	// CompressBlocks enables s2 compression of intermediate block
	// files; it never affects the final dictionary/postings bytes.
	CompressBlocks bool
	// SigningKey keys the final index's sidecar signature. Empty
	// selects DefaultSigningKey.
	SigningKey []byte

	Verbose bool
	Logf    func(string, ...interface{})
}

func (b *Builder) logf(format string, args ...interface{}) {
	if b.Logf != nil {
		b.Logf(format, args...)
	}
}

func (b *Builder) maxBlockSize() int {
	if b.MaxBlockSize > 0 {
		return b.MaxBlockSize
	}
	if b.TestMode {
		return DefaultTestMaxBlockSize
	}
	return DefaultMaxBlockSize
}

func (b *Builder) chunkSize() int {
	if b.ChunkSize > 0 {
		return b.ChunkSize
	}
	return max1(b.maxBlockSize() / 2)
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func (b *Builder) sampleCap() int {
	if b.SampleCap > 0 {
		return b.SampleCap
	}
	return DefaultTestSampleCap
}

func (b *Builder) codec() string {
	if b.CompressBlocks {
		return "s2"
	}
	return "none"
}

func (b *Builder) stemmer() tokenize.Stemmer {
	if b.Stemmer != nil {
		return b.Stemmer
	}
	return tokenize.Simple{}
}

func (b *Builder) signingKey() []byte {
	if len(b.SigningKey) > 0 {
		return b.SigningKey
	}
	return DefaultSigningKey
}

// Build runs the full pipeline over the corpus directory corpusDir,
// writing the final dictionary and postings files to dictOut and
// postOut (plus a signature sidecar at dictOut+".sig"). workDir holds
// transient block files and is purged of any pre-existing
// dict_block_*/postings_block_* files at start (spec §5: auxiliary
// directories are assumed exclusive to one build run).
func (b *Builder) Build(corpusDir, workDir, dictOut, postOut string) (BuildStats, error) {
	buildID := uuid.New().String()
	stats := BuildStats{BuildID: buildID}

	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return stats, fmt.Errorf("creating work directory: %w", err)
	}
	for _, pattern := range []string{"dict_block_*", "postings_block_*"} {
		stale, err := filepath.Glob(filepath.Join(workDir, pattern))
		if err != nil {
			return stats, fmt.Errorf("purging work directory: %w", err)
		}
		for _, p := range stale {
			if err := os.Remove(p); err != nil {
				return stats, fmt.Errorf("purging work directory: %w", err)
			}
		}
	}

	docs, err := corpus.List(corpusDir)
	if err != nil {
		return stats, fmt.Errorf("listing corpus: %w", err)
	}
	b.logf("build %s: corpus has %d documents", buildID, len(docs))

	maxBlock := b.maxBlockSize()
	codec := b.codec()
	merger := NewMerger(workDir, 0, b.chunkSize(), codec, b.Logf)
	merger.Verify = true

	blockNum := 0
	blk := NewBlock()
	docIDs := make([]int, 0, len(docs))
	processed := 0

	spill := func() error {
		if blk.Size() == 0 {
			return nil
		}
		ref, err := writeBlock(workDir, blockNum, blk, codec)
		if err != nil {
			return fmt.Errorf("spilling block %d: %w", blockNum, err)
		}
		b.logf("build %s: spilled block %d (%d terms, fingerprint %s)",
			buildID, blockNum, blk.Size(), fingerprintHex(mustReadBack(workDir, blockNum)))
		merger.Push(ref)
		stats.BlocksWritten++
		blockNum++
		blk = NewBlock()
		return nil
	}

	stemmer := b.stemmer()
	for _, doc := range docs {
		if b.TestMode && processed >= b.sampleCap() {
			break
		}
		// Spill is checked after every line of the document, not just
		// once per document, per spec's spill-trigger wording.
		onLine := func() error {
			if blk.Size() > maxBlock {
				return spill()
			}
			return nil
		}
		if err := indexDoc(blk, stemmer, doc, onLine); err != nil {
			return stats, fmt.Errorf("indexing document %d (%s): %w", doc.ID, doc.Path, err)
		}
		docIDs = append(docIDs, doc.ID)
		processed++
		if b.TestMode && processed >= b.sampleCap() {
			break
		}
	}
	if err := spill(); err != nil {
		return stats, err
	}
	stats.Documents = processed

	if merger.Len() == 0 {
		// Empty corpus: spill one empty block so the finalizer has
		// something to rewrite into a (degenerate) final index pair.
		ref, err := writeBlock(workDir, blockNum, blk, codec)
		if err != nil {
			return stats, err
		}
		merger.Push(ref)
		stats.BlocksWritten++
	}

	// Merged blocks are numbered after the spilled ones, so a merge
	// never overwrites one of its own input blocks.
	merger.nextNum = stats.BlocksWritten
	final, err := merger.MergeAll()
	if err != nil {
		return stats, fmt.Errorf("merging blocks: %w", err)
	}
	stats.MergePasses = mergePassesFor(stats.BlocksWritten)

	sort.Ints(docIDs)
	sig, err := Finalize(final, docIDs, dictOut, postOut, b.signingKey())
	if err != nil {
		return stats, fmt.Errorf("finalizing index: %w", err)
	}
	for _, p := range []string{final.dictPath, final.postsPath} {
		if err := os.Remove(p); err != nil {
			return stats, fmt.Errorf("removing merged block file: %w", err)
		}
	}
	b.logf("build %s: signature %s", buildID, sig.String())

	if fi, err := os.Stat(dictOut); err == nil {
		stats.BytesWritten += fi.Size()
	}
	if fi, err := os.Stat(postOut); err == nil {
		stats.BytesWritten += fi.Size()
	}

	finalDict, err := readDictTerms(dictOut)
	if err != nil {
		return stats, err
	}
	stats.Terms = finalDict

	return stats, nil
}

// indexDoc reads path line by line, per spec §4.1's spill-trigger
// wording ("after processing each line of a document"), tokenizing
// each line and inserting every resulting term into blk under docID.
// onLine is invoked after each line is fully indexed, so the caller
// can check the spill trigger at the same granularity as the spec.
func indexDoc(blk *Block, stemmer tokenize.Stemmer, doc corpus.Doc, onLine func() error) error {
	f, err := os.Open(doc.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		for _, term := range stemmer.Stem(sc.Text()) {
			blk.Insert(term, doc.ID)
		}
		if err := onLine(); err != nil {
			return err
		}
	}
	return sc.Err()
}

// mergePassesFor returns ceil(log2(n)) for n>=1 blocks, the number of
// pairwise merge rounds a balanced FIFO merge performs.
func mergePassesFor(n int) int {
	if n <= 1 {
		return 0
	}
	passes := 0
	for remaining := n; remaining > 1; {
		remaining = (remaining + 1) / 2
		passes++
	}
	return passes
}

// mustReadBack re-reads a just-written block's dictionary bytes purely
// to render a log-line fingerprint; build failures here are not fatal
// to the build itself.
func mustReadBack(workDir string, k int) []byte {
	data, err := readBlockFile(filepath.Join(workDir, dictBlockName(k)))
	if err != nil {
		return nil
	}
	return data
}

// readDictTerms counts the term lines (excluding the universal doc-ID
// header) in a final dictionary file, for BuildStats.
func readDictTerms(dictPath string) (int, error) {
	f, err := os.Open(dictPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	n := -1 // first line is the header, not a term
	for sc.Scan() {
		n++
	}
	if n < 0 {
		n = 0
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return n, nil
}
