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
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/boolidx/boolidx/ints"
)

// Posting is one skip-annotated entry of a postings list: a document
// ID and the index (within the same list) to jump to when an
// intersection can skip ahead.
type Posting struct {
	ID   int
	Skip int
}

// List is a skip-annotated postings list, ordered ascending by ID.
type List []Posting

// Annotate computes skip targets for an ascending, deduplicated list
// of document IDs using the same square-root interval as the final
// index's postings writer (spec §2): interval = floor(sqrt(L)) once
// L>=16, else 0 (no skip).
func Annotate(ids []int) List {
	l := len(ids)
	interval := 0
	if l >= 16 {
		interval = int(math.Sqrt(float64(l)))
	}
	out := make(List, l)
	for i, id := range ids {
		out[i] = Posting{ID: id, Skip: ints.Clamp(i+interval, 0, l-1)}
	}
	return out
}

// ParseLine parses one final-postings-file line of the form
// "(id,skip) (id,skip) ... " (trailing space before the newline,
// already stripped by the caller) into a List.
func ParseLine(line string) (List, error) {
	line = strings.TrimSuffix(line, " ")
	if line == "" {
		return nil, nil
	}
	fields := strings.Split(line, " ")
	out := make(List, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimPrefix(f, "(")
		f = strings.TrimSuffix(f, ")")
		comma := strings.IndexByte(f, ',')
		if comma < 0 {
			return nil, fmt.Errorf("malformed posting token %q", f)
		}
		id, err := strconv.Atoi(f[:comma])
		if err != nil {
			return nil, fmt.Errorf("malformed posting token %q: %w", f, err)
		}
		skip, err := strconv.Atoi(f[comma+1:])
		if err != nil {
			return nil, fmt.Errorf("malformed posting token %q: %w", f, err)
		}
		out = append(out, Posting{ID: id, Skip: skip})
	}
	return out, nil
}

// IDs returns the plain document IDs of a List, in order, with skip
// annotations stripped — the form used for the driver's final result
// line (spec §4.7 step 5).
func (l List) IDs() []int {
	out := make([]int, len(l))
	for i, p := range l {
		out[i] = p.ID
	}
	return out
}

// And computes the skip-accelerated intersection of p and q (spec
// §4.6). The result carries no meaningful skip targets of its own
// (stale indices into the operands are never followed downstream);
// Annotate should be called again if the result is itself used as an
// AND/NOT operand that needs skips.
func And(p, q List) List {
	var out List
	i, j := 0, 0
	for i < len(p) && j < len(q) {
		switch {
		case p[i].ID == q[j].ID:
			out = append(out, Posting{ID: p[i].ID})
			i++
			j++
		case p[i].ID < q[j].ID:
			i = advance(p, i, q[j].ID)
		default:
			j = advance(q, j, p[i].ID)
		}
	}
	return out
}

// advance moves index i forward in list, following its skip pointer
// when doing so does not overshoot target, else incrementing by one
// (spec §4.6's "advance via skip if beneficial, else by one" rule).
// Only forward skips are followed, so the zero skips carried by
// intermediate results are never taken.
func advance(list List, i, target int) int {
	if len(list) >= 16 {
		skip := list[i].Skip
		if skip > i && skip < len(list) && list[skip].ID <= target {
			return skip
		}
	}
	return i + 1
}

// Or computes the linear, deduplicating union of p and q (spec §4.6).
func Or(p, q List) List {
	var out List
	i, j := 0, 0
	for i < len(p) && j < len(q) {
		switch {
		case p[i].ID == q[j].ID:
			out = append(out, Posting{ID: p[i].ID})
			i++
			j++
		case p[i].ID < q[j].ID:
			out = append(out, Posting{ID: p[i].ID})
			i++
		default:
			out = append(out, Posting{ID: q[j].ID})
			j++
		}
	}
	for ; i < len(p); i++ {
		out = append(out, Posting{ID: p[i].ID})
	}
	for ; j < len(q); j++ {
		out = append(out, Posting{ID: q[j].ID})
	}
	return out
}

// Not computes the complement of p within the universal doc list u
// (spec §4.6): walk u in order, emitting every entry whose doc ID does
// not equal the current head of p, advancing p's head on a match. An
// empty p returns u verbatim.
func Not(p, u List) List {
	if len(p) == 0 {
		out := make(List, len(u))
		copy(out, u)
		return out
	}
	var out List
	pi := 0
	for _, entry := range u {
		if pi < len(p) && p[pi].ID == entry.ID {
			pi++
			continue
		}
		out = append(out, Posting{ID: entry.ID})
	}
	return out
}
