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

// Command boolidx-index builds a disk-backed Boolean inverted index
// from a directory of plain-text documents via bounded-memory SPIMI
// block construction and pairwise external merge.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/boolidx/boolidx/index"
	"github.com/boolidx/boolidx/internal/boolconf"
)

var (
	dashi string
	dashd string
	dashp string
	dasht bool
	dashv bool
	dashc string
	dashz bool
	dashk string
)

func init() {
	flag.StringVar(&dashi, "i", "", "input corpus directory")
	flag.StringVar(&dashd, "d", "", "output dictionary file")
	flag.StringVar(&dashp, "p", "", "output postings file")
	flag.BoolVar(&dasht, "t", false, "test mode: small block size and a sample cap")
	flag.BoolVar(&dashv, "v", false, "verbose progress logging")
	flag.StringVar(&dashc, "c", "", "optional YAML config overriding block/chunk sizing")
	flag.BoolVar(&dashz, "z", false, "compress intermediate block files")
	flag.StringVar(&dashk, "k", "", "key file for signing the final index sidecar")
}

func exitUsage(f string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	flag.Usage()
	os.Exit(2)
}

func exitf(f string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	os.Exit(1)
}

func main() {
	flag.Parse()
	if dashi == "" || dashd == "" || dashp == "" {
		exitUsage("boolidx-index: -i, -d, and -p are required")
	}

	cfg, err := boolconf.Load(dashc)
	if err != nil {
		exitf("loading config: %s", err)
	}
	maxBlock, chunk, sampleCap := cfg.ApplyDefaults(0, 0, 0)

	b := &index.Builder{
		MaxBlockSize:   maxBlock,
		ChunkSize:      chunk,
		TestMode:       dasht,
		SampleCap:      sampleCap,
		CompressBlocks: dashz,
		Verbose:        dashv,
	}
	if dashv {
		b.Logf = func(f string, args ...interface{}) { log.Printf(f, args...) }
	}
	if dashk != "" {
		key, err := os.ReadFile(dashk)
		if err != nil {
			exitf("reading key file: %s", err)
		}
		b.SigningKey = key
	}

	workDir, err := os.MkdirTemp("", "boolidx-build-*")
	if err != nil {
		exitf("creating work directory: %s", err)
	}
	defer os.RemoveAll(workDir)

	stats, err := b.Build(dashi, workDir, dashd, dashp)
	if err != nil {
		exitf("building index: %s", err)
	}
	if dashv {
		log.Printf("build %s complete: %d documents, %d terms, %d blocks, %d merge passes, %d bytes written",
			stats.BuildID, stats.Documents, stats.Terms, stats.BlocksWritten, stats.MergePasses, stats.BytesWritten)
	}
}
