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

// Command boolidx-search evaluates parenthesized Boolean queries
// against a finalized boolidx index, writing one result line per
// input query.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/boolidx/boolidx/query"
)

var (
	dashd string
	dashp string
	dashq string
	dasho string
	dashv bool
)

func init() {
	flag.StringVar(&dashd, "d", "", "dictionary file")
	flag.StringVar(&dashp, "p", "", "postings file")
	flag.StringVar(&dashq, "q", "", "input queries file")
	flag.StringVar(&dasho, "o", "", "output results file")
	flag.BoolVar(&dashv, "v", false, "verbose per-query logging")
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
	if dashd == "" || dashp == "" || dashq == "" || dasho == "" {
		exitUsage("boolidx-search: -d, -p, -q, and -o are required")
	}

	d, err := query.Open(dashd, dashp)
	if err != nil {
		exitf("opening index: %s", err)
	}
	defer d.Close()

	d.Verbose = dashv
	if dashv {
		d.Logf = func(f string, args ...interface{}) { log.Printf(f, args...) }
	}

	if err := d.Run(dashq, dasho); err != nil {
		exitf("running queries: %s", err)
	}
}
