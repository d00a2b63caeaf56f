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
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/boolidx/boolidx/compr"
)

// dictBlockName and postingsBlockName return the on-disk names of the
// dictionary and postings files for block number k.
func dictBlockName(k int) string     { return "dict_block_" + strconv.Itoa(k) }
func postingsBlockName(k int) string { return "postings_block_" + strconv.Itoa(k) }

// blockRef names the on-disk location of one block's dictionary and
// postings files within the FIFO maintained by the merger, along with
// a fingerprint of the dictionary contents taken at write time.
type blockRef struct {
	num       int
	dictPath  string
	postsPath string
	fpLo      uint64
	fpHi      uint64
}

// writeBlock sorts blk by term ascending and spills its dictionary and
// postings to two parallel files in dir, per spec §4.2. codec selects
// the transient on-disk compression (see compr.Compression); "none"
// disables compression.
func writeBlock(dir string, k int, blk *Block, codec string) (blockRef, error) {
	terms := blk.terms()

	var dictBuf, postBuf bytes.Buffer
	for i, term := range terms {
		e := blk.dict[term]
		line := 1 + i // 1-based postings_line_number
		fmt.Fprintf(&dictBuf, "%s %d %d\n", term, e.docFreq, line)
		writePostingsCSV(&postBuf, e.postings)
	}
	return writeBlockPair(dir, k, dictBuf.Bytes(), postBuf.Bytes(), codec)
}

// writeBlockPair writes already-formatted dictionary and postings
// bytes as a numbered block pair, returning a blockRef carrying a
// fingerprint of the dictionary bytes.
func writeBlockPair(dir string, k int, dictBytes, postBytes []byte, codec string) (blockRef, error) {
	dictPath := filepath.Join(dir, dictBlockName(k))
	postPath := filepath.Join(dir, postingsBlockName(k))
	if err := writeBlockFile(dictPath, dictBytes, codec); err != nil {
		return blockRef{}, err
	}
	if err := writeBlockFile(postPath, postBytes, codec); err != nil {
		return blockRef{}, err
	}
	lo, hi := fingerprint(dictBytes)
	return blockRef{num: k, dictPath: dictPath, postsPath: postPath, fpLo: lo, fpHi: hi}, nil
}

// writePostingsCSV appends the comma-separated ascending doc IDs in
// postings to buf, followed by a newline.
func writePostingsCSV(buf *bytes.Buffer, postings []int) {
	for i, id := range postings {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Itoa(id))
	}
	buf.WriteByte('\n')
}

// blockFileMagic distinguishes our framed block files from plain text;
// intermediate block files are implementation detail only (unlike the
// final dictionary/postings files, whose exact text format is part of
// the on-disk contract), so framing them is free to choose.
const blockFileMagic = 0xB10C

// writeBlockFile compresses data with codec and writes a small framed
// file: magic, codec name, uncompressed length, compressed payload.
func writeBlockFile(path string, data []byte, codec string) error {
	c := compr.Compression(codec)
	if c == nil {
		return fmt.Errorf("write block file %s: unknown codec %q", path, codec)
	}
	compressed := c.Compress(data, nil)

	var hdr bytes.Buffer
	binary.Write(&hdr, binary.BigEndian, uint32(blockFileMagic))
	hdr.WriteByte(byte(len(codec)))
	hdr.WriteString(codec)
	binary.Write(&hdr, binary.BigEndian, uint64(len(data)))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating block file %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Write(hdr.Bytes()); err != nil {
		return fmt.Errorf("writing block file %s: %w", path, err)
	}
	if _, err := f.Write(compressed); err != nil {
		return fmt.Errorf("writing block file %s: %w", path, err)
	}
	return nil
}

// readBlockFile reverses writeBlockFile, returning the original
// uncompressed bytes.
func readBlockFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading block file %s: %w", path, err)
	}
	r := bytes.NewReader(raw)
	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil || magic != blockFileMagic {
		return nil, fmt.Errorf("reading block file %s: bad magic", path)
	}
	nameLen, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("reading block file %s: %w", path, err)
	}
	nameBuf := make([]byte, nameLen)
	if _, err := r.Read(nameBuf); err != nil {
		return nil, fmt.Errorf("reading block file %s: %w", path, err)
	}
	var uncompLen uint64
	if err := binary.Read(r, binary.BigEndian, &uncompLen); err != nil {
		return nil, fmt.Errorf("reading block file %s: %w", path, err)
	}
	payload := raw[len(raw)-r.Len():]
	dec := compr.Decompression(string(nameBuf))
	if dec == nil {
		return nil, fmt.Errorf("reading block file %s: unknown codec %q", path, nameBuf)
	}
	out := make([]byte, uncompLen)
	if err := dec.Decompress(payload, out); err != nil {
		return nil, fmt.Errorf("decompressing block file %s: %w", path, err)
	}
	return out, nil
}
