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

// Package compr provides a unified interface wrapping third-party
// compression libraries. It is used only for the *intermediate* block
// files produced during external-memory index construction; the final
// dictionary and postings files are always plain text and are never
// routed through this package.
package compr

import (
	"fmt"
	"unsafe"

	"github.com/klauspost/compress/s2"
)

// Compressor describes the interface a compression algorithm must
// implement to compress a whole block file in memory.
type Compressor interface {
	// Name is the name of the compression algorithm.
	Name() string
	// Compress should append the compressed contents
	// of src to dst and return the result.
	Compress(src, dst []byte) []byte
}

// Decompressor is the interface used to decompress a block file that
// was previously compressed by the matching Compressor.
type Decompressor interface {
	// Name is the name of the compression algorithm.
	// See also Compressor.Name.
	Name() string
	// Decompress decompresses source data into dst. dst must be
	// sized to exactly the decompressed length.
	Decompress(src, dst []byte) error
}

type noneCodec struct{}

func (noneCodec) Name() string { return "none" }

func (noneCodec) Compress(src, dst []byte) []byte { return append(dst, src...) }

func (noneCodec) Decompress(src, dst []byte) error {
	if len(src) != len(dst) {
		return fmt.Errorf("none codec: expected %d bytes, got %d", len(dst), len(src))
	}
	copy(dst, src)
	return nil
}

type s2Codec struct{}

func (s2Codec) Compress(src, dst []byte) []byte {
	tail := dst[len(dst):cap(dst)]
	// s2 requires non-overlapping src and dst
	if overlaps(src, tail) {
		tail = nil
	}
	got := s2.Encode(tail, src)
	if len(dst) == 0 {
		return got
	}
	if len(tail) > 0 && len(got) > 0 && &tail[0] == &got[0] {
		return dst[:len(dst)+len(got)]
	}
	return append(dst, got...)
}

func (s2Codec) Decompress(src, dst []byte) error {
	into := dst[:0:len(dst)]
	ret, err := s2.Decode(into, src)
	if err != nil {
		return err
	}
	if len(ret) != len(dst) {
		return fmt.Errorf("expected %d bytes decompressed; got %d", len(dst), len(ret))
	}
	return nil
}

func (s2Codec) Name() string { return "s2" }

// Compression selects a compression algorithm by name. "s2" is the fast
// codec used for transient block files; "none" is a passthrough used
// when block compression is disabled, and is also selected by "". The
// returned Compressor's Name is "s2" or "none" accordingly, or
// Compression returns nil for an unrecognized name.
func Compression(name string) Compressor {
	switch name {
	case "s2":
		return s2Codec{}
	case "none", "":
		return noneCodec{}
	default:
		return nil
	}
}

// Decompression selects a decompression algorithm by name. See Compression.
func Decompression(name string) Decompressor {
	switch name {
	case "s2":
		return s2Codec{}
	case "none", "":
		return noneCodec{}
	default:
		return nil
	}
}

func overlaps(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	a0 := uintptr(unsafe.Pointer(&a[0]))
	a1 := a0 + uintptr(len(a))
	b0 := uintptr(unsafe.Pointer(&b[0]))
	b1 := b0 + uintptr(len(b))
	return a0 < b1 && b0 < a1
}
