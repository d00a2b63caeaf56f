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
	"bufio"
	"bytes"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/boolidx/boolidx/ints"
)

// Signature is a keyed BLAKE2b-256 MAC over the concatenation of the
// final dictionary and postings files, written as a sidecar alongside
// them so a consumer can detect a partially-copied or bit-rotted
// index without re-running the builder.
type Signature [32]byte

// String renders the signature as lowercase hex.
func (s Signature) String() string {
	return fmt.Sprintf("%x", s[:])
}

// Finalize turns a merged block's dictionary+postings pair into the
// final on-disk artifacts named by dictPath and postingsPath: the
// skip-annotated postings file, the byte-offset-rewritten dictionary
// with its universal-doc-ID header, and (if key is non-empty) a
// signature sidecar at dictPath+".sig".
//
// The final dictionary and postings files are plain, uncompressed
// text: their exact format is part of the query driver's on-disk
// contract, unlike the compressed, framed intermediate block files.
func Finalize(merged blockRef, docIDs []int, dictPath, postingsPath string, key []byte) (Signature, error) {
	mergedDict, err := readBlockFile(merged.dictPath)
	if err != nil {
		return Signature{}, err
	}
	mergedPost, err := readBlockFile(merged.postsPath)
	if err != nil {
		return Signature{}, err
	}

	finalPost, err := writeSkipPostings(mergedPost)
	if err != nil {
		return Signature{}, err
	}
	finalDict, err := writeByteOffsetDict(mergedDict, finalPost, docIDs)
	if err != nil {
		return Signature{}, err
	}

	if err := os.WriteFile(dictPath, finalDict, 0o644); err != nil {
		return Signature{}, fmt.Errorf("writing final dictionary %s: %w", dictPath, err)
	}
	if err := os.WriteFile(postingsPath, finalPost, 0o644); err != nil {
		return Signature{}, fmt.Errorf("writing final postings %s: %w", postingsPath, err)
	}

	sig, err := sign(key, finalDict, finalPost)
	if err != nil {
		return Signature{}, err
	}
	if len(key) > 0 {
		sigPath := dictPath + ".sig"
		if err := os.WriteFile(sigPath, []byte(sig.String()+"\n"), 0o644); err != nil {
			return Signature{}, fmt.Errorf("writing signature %s: %w", sigPath, err)
		}
	}
	return sig, nil
}

// writeSkipPostings implements the skip-pointer postings writer
// (spec §4.4a): for a postings line of length L, the skip interval is
// floor(sqrt(L)) once L>=16, else 0 (effectively no skip), and each
// position i's token becomes "(doc_id,min(i+interval,L-1))".
func writeSkipPostings(mergedPost []byte) ([]byte, error) {
	var out bytes.Buffer
	sc := bufio.NewScanner(bytes.NewReader(mergedPost))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<28)
	for sc.Scan() {
		ids := parseCSVInts(sc.Text())
		writeSkipLine(&out, ids)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading merged postings: %w", err)
	}
	return out.Bytes(), nil
}

// skipInterval returns the square-root skip interval for a postings
// list of length l, per spec §2's skip-annotated posting rule.
func skipInterval(l int) int {
	if l < 16 {
		return 0
	}
	return int(math.Sqrt(float64(l)))
}

func writeSkipLine(out *bytes.Buffer, ids []int) {
	l := len(ids)
	s := skipInterval(l)
	for i, id := range ids {
		target := ints.Clamp(i+s, 0, l-1)
		fmt.Fprintf(out, "(%d,%d) ", id, target)
	}
	out.WriteByte('\n')
}

// writeByteOffsetDict implements the dictionary byte-offset rewriter
// (spec §4.4b) and prepends the universal doc-ID header (spec §4.4c):
// line 1 is the sorted, space-separated list of all corpus doc IDs;
// subsequent lines replace each block-relative line number with the
// byte offset and length of the term's line within the final postings
// file.
func writeByteOffsetDict(mergedDict, finalPost []byte, docIDs []int) ([]byte, error) {
	var out bytes.Buffer
	for i, id := range docIDs {
		if i > 0 {
			out.WriteByte(' ')
		}
		out.WriteString(strconv.Itoa(id))
	}
	out.WriteByte('\n')

	dsc := bufio.NewScanner(bytes.NewReader(mergedDict))
	dsc.Buffer(make([]byte, 0, 64*1024), 1<<28)
	psc := bufio.NewScanner(bytes.NewReader(finalPost))
	psc.Buffer(make([]byte, 0, 64*1024), 1<<28)
	var offset int64
	for dsc.Scan() {
		term, freq, err := parseBlockDictLine(dsc.Text())
		if err != nil {
			return nil, err
		}
		if !psc.Scan() {
			return nil, fmt.Errorf("postings file has fewer lines than dictionary file")
		}
		length := int64(len(psc.Text())) + 1 // +1 for the stripped newline
		fmt.Fprintf(&out, "%s %d %d %d\n", term, freq, offset, length)
		offset += length
	}
	if err := dsc.Err(); err != nil {
		return nil, err
	}
	if err := psc.Err(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// sign computes the Signature over dict and postings concatenated, in
// that order. A nil or empty key disables keying (plain, unkeyed
// BLAKE2b-256), which still yields a deterministic integrity check even when the
// caller has not configured a signing key.
func sign(key, dict, postings []byte) (Signature, error) {
	h, err := blake2b.New256(normalizeKey(key))
	if err != nil {
		return Signature{}, fmt.Errorf("initializing signer: %w", err)
	}
	if _, err := h.Write(dict); err != nil {
		return Signature{}, err
	}
	if _, err := h.Write(postings); err != nil {
		return Signature{}, err
	}
	var sig Signature
	copy(sig[:], h.Sum(nil))
	return sig, nil
}

func normalizeKey(key []byte) []byte {
	if len(key) == 0 {
		return nil
	}
	return key
}

// VerifySignature recomputes the signature of the dictionary and
// postings files at the given paths and compares it against the
// contents of the dictionary's ".sig" sidecar (dictPath+".sig").
func VerifySignature(dictPath, postingsPath string, key []byte) (bool, error) {
	dict, err := os.ReadFile(dictPath)
	if err != nil {
		return false, err
	}
	post, err := os.ReadFile(postingsPath)
	if err != nil {
		return false, err
	}
	sigPath := dictPath + ".sig"
	raw, err := os.ReadFile(sigPath)
	if err != nil {
		return false, err
	}
	want := strings.TrimSpace(string(raw))
	got, err := sign(key, dict, post)
	if err != nil {
		return false, err
	}
	return got.String() == want, nil
}
