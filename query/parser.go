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

	"github.com/boolidx/boolidx/tokenize"
)

// Op identifies a Boolean operator in a postfix expression.
type Op int

const (
	And Op = iota
	Or
	Not
)

func (o Op) String() string {
	switch o {
	case And:
		return "AND"
	case Or:
		return "OR"
	case Not:
		return "NOT"
	default:
		return "?"
	}
}

// Item is one element of a parsed postfix expression: either a term
// (a stemmed word to look up in the dictionary) or an operator.
type Item struct {
	IsOp bool
	Op   Op
	Term string
}

// Error reports a query parse failure, distinguished from an
// evaluation-time failure so verbose logging can tell them apart; both
// still surface as the literal "INVALID QUERY" output line per the
// driver contract.
type Error struct {
	Query string
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("query %q: %s", e.Query, e.Msg)
}

// precedence gives each operator's shunting-yard precedence: NOT=3,
// AND=2, OR=1, per spec §4.5. Parentheses are handled structurally,
// not through this table.
func precedence(o Op) int {
	switch o {
	case Not:
		return 3
	case And:
		return 2
	case Or:
		return 1
	default:
		return 0
	}
}

// stackOp is an operator-stack entry: either a real operator or the
// "(" sentinel, which has priority 0 and is never popped by the
// precedence rule (only explicitly, by a matching ")").
type stackOp struct {
	isParen bool
	op      Op
}

// Parse converts an infix Boolean query into postfix form using the
// shunting-yard algorithm of spec §4.5: only strictly-greater precedence
// pops, so a chain of equal-precedence operators groups to the right
// ("a AND b AND c" becomes "a b c AND AND"); word tokens are stemmed
// via stemmer.
func Parse(q string, stemmer tokenize.Stemmer) ([]Item, error) {
	if stemmer == nil {
		stemmer = tokenize.Simple{}
	}
	toks := lex(q)

	var output []Item
	var ops []stackOp

	popToOutput := func() {
		top := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		output = append(output, Item{IsOp: true, Op: top.op})
	}

	pushOp := func(o Op) {
		for len(ops) > 0 && !ops[len(ops)-1].isParen && precedence(ops[len(ops)-1].op) > precedence(o) {
			popToOutput()
		}
		ops = append(ops, stackOp{op: o})
	}

	for _, t := range toks {
		switch t.kind {
		case tokWord:
			output = append(output, Item{Term: stemWord(stemmer, t.text)})
		case tokAnd:
			pushOp(And)
		case tokOr:
			pushOp(Or)
		case tokNot:
			pushOp(Not)
		case tokLParen:
			ops = append(ops, stackOp{isParen: true})
		case tokRParen:
			found := false
			for len(ops) > 0 {
				if ops[len(ops)-1].isParen {
					ops = ops[:len(ops)-1]
					found = true
					break
				}
				popToOutput()
			}
			if !found {
				return nil, &Error{Query: q, Msg: "unbalanced parentheses"}
			}
		}
	}
	for len(ops) > 0 {
		if ops[len(ops)-1].isParen {
			return nil, &Error{Query: q, Msg: "unbalanced parentheses"}
		}
		popToOutput()
	}
	return output, nil
}

// stemWord reduces a single lexical word token to the one term used
// for dictionary lookup. The tokenizer contract returns a sequence of
// terms per spec §6.3; a query word token is already a single
// contiguous run with no internal separators, so in practice it stems
// to exactly one term. If a stemmer instead returns zero or several,
// the first is used (or "" for zero, which simply misses the
// dictionary rather than erroring).
func stemWord(stemmer tokenize.Stemmer, word string) string {
	terms := stemmer.Stem(word)
	if len(terms) == 0 {
		return ""
	}
	return terms[0]
}
