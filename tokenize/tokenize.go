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

// Package tokenize defines the text-analysis collaborator contract used
// by both index construction and query parsing: a pure, deterministic
// function from document (or query word) text to an ordered sequence of
// terms. Word splitting and stemming are treated as an external concern
// by design (see spec §1); this package only fixes the contract and
// supplies a minimal default so the rest of the pipeline is runnable
// standalone.
package tokenize

import (
	"strings"
	"unicode"
)

// Stemmer turns free text into an ordered sequence of terms. Stem must
// be a pure function: the same input text always yields the same
// output sequence.
type Stemmer interface {
	Stem(text string) []string
}

// Simple is a default Stemmer that splits on runes that are neither
// letters nor digits and case-folds each resulting word. It performs
// no linguistic stemming (no suffix stripping) and exists only to
// satisfy the Stemmer contract out of the box. Real deployments should
// supply a Stemmer backed by an actual stemming algorithm.
type Simple struct{}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Stem implements Stemmer.
func (Simple) Stem(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool { return !isWordRune(r) })
	if len(fields) == 0 {
		return nil
	}
	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}
	return fields
}
