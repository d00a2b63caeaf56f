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
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/boolidx/boolidx/tokenize"
)

// MaxQueryLen is the longest query line the driver will evaluate;
// longer lines yield a blank result line per spec §4.7 step 1.
const MaxQueryLen = 1024

// invalidQuery is the literal driver output for a query that fails to
// parse or whose postfix form does not evaluate to a single result.
const invalidQuery = "INVALID QUERY"

// Driver evaluates Boolean queries against one finalized index.
type Driver struct {
	dict     *Dictionary
	postings *os.File
	universal List
	// Stemmer tokenizes query word tokens; nil defaults to
	// tokenize.Simple{}, matching the same default used by Builder.
	Stemmer tokenize.Stemmer
	Verbose bool
	Logf    func(string, ...interface{})
}

// Open loads the dictionary at dictPath and opens the postings file
// at postPath for random-access reads.
func Open(dictPath, postPath string) (*Driver, error) {
	dict, err := LoadDictionary(dictPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(postPath)
	if err != nil {
		return nil, fmt.Errorf("opening postings %s: %w", postPath, err)
	}
	return &Driver{dict: dict, postings: f, universal: dict.Universal()}, nil
}

// Close releases the driver's open postings file.
func (d *Driver) Close() error {
	return d.postings.Close()
}

func (d *Driver) logf(format string, args ...interface{}) {
	if d.Logf != nil {
		d.Logf(format, args...)
	}
}

func (d *Driver) stemmer() tokenize.Stemmer {
	if d.Stemmer != nil {
		return d.Stemmer
	}
	return tokenize.Simple{}
}

// Eval evaluates one query line per spec §4.7 and returns its result
// line: blank for an oversize/empty query, "INVALID QUERY" for a
// parse or evaluation-shape failure, or the space-separated ascending
// doc IDs of the match.
func (d *Driver) Eval(q string) string {
	if len(q) == 0 || len(q) > MaxQueryLen {
		return ""
	}
	postfix, err := Parse(q, d.stemmer())
	if err != nil {
		d.logf("query %q: parse error: %v", q, err)
		return invalidQuery
	}

	var stack []List
	for _, item := range postfix {
		if !item.IsOp {
			stack = append(stack, d.literal(item.Term))
			continue
		}
		if item.Op == Not {
			if len(stack) < 1 {
				d.logf("query %q: stack underflow on NOT", q)
				return invalidQuery
			}
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			stack = append(stack, Not(p, d.universal))
			continue
		}
		if len(stack) < 2 {
			d.logf("query %q: stack underflow on %s", q, item.Op)
			return invalidQuery
		}
		b := stack[len(stack)-1]
		a := stack[len(stack)-2]
		stack = stack[:len(stack)-2]
		switch item.Op {
		case And:
			stack = append(stack, And(a, b))
		case Or:
			stack = append(stack, Or(a, b))
		}
	}
	if len(stack) != 1 {
		d.logf("query %q: residual stack size %d at end of evaluation", q, len(stack))
		return invalidQuery
	}
	return formatIDs(stack[0].IDs())
}

// literal loads a word's postings list for evaluation: an unknown
// term yields an empty list rather than an error (spec §4.7 step 4).
func (d *Driver) literal(term string) List {
	offset, length, found := d.dict.Lookup(term)
	if !found {
		return nil
	}
	buf := make([]byte, length)
	if _, err := d.postings.ReadAt(buf, offset); err != nil {
		d.logf("reading postings for %q: %v", term, err)
		return nil
	}
	line := strings.TrimSuffix(string(buf), "\n")
	list, err := ParseLine(line)
	if err != nil {
		d.logf("parsing postings for %q: %v", term, err)
		return nil
	}
	return list
}

func formatIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " ")
}

// Run reads one query per line from queriesPath and writes one result
// line per query to outputPath, truncating it on open (spec §6.2).
func (d *Driver) Run(queriesPath, outputPath string) error {
	in, err := os.Open(queriesPath)
	if err != nil {
		return fmt.Errorf("opening queries %s: %w", queriesPath, err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output %s: %w", outputPath, err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	defer w.Flush()

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	n := 0
	for sc.Scan() {
		n++
		result := d.Eval(sc.Text())
		if d.Verbose {
			d.logf("query %d: %q -> %q", n, sc.Text(), result)
		}
		if _, err := fmt.Fprintln(w, result); err != nil {
			return fmt.Errorf("writing result for query %d: %w", n, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading queries %s: %w", queriesPath, err)
	}
	return w.Flush()
}
