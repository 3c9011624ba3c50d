package css

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Specificity computes selector specificity as
// ids*100 + (classes+attributes+pseudo-classes)*10 + (elements+pseudo-elements).
// For selector lists the most specific selector wins. Arguments of :not(),
// :is() and :has() contribute their most specific argument, :where() never
// contributes.
func Specificity(selector string) uint32 {
	toks := lexSelector(selector)
	s := listSpecificity(toks)
	return s[0]*100 + s[1]*10 + s[2]
}

type selToken struct {
	tt   css.TokenType
	data string
}

type score [3]uint32

func (s score) less(o score) bool {
	for i := range s {
		if s[i] != o[i] {
			return s[i] < o[i]
		}
	}
	return false
}

func (s *score) add(o score) {
	for i := range s {
		s[i] += o[i]
	}
}

// legacy single colon pseudo-elements
var legacyPseudoElements = map[string]bool{
	"before":       true,
	"after":        true,
	"first-line":   true,
	"first-letter": true,
}

func lexSelector(selector string) []selToken {
	l := css.NewLexer(parse.NewInputString(selector))
	toks := make([]selToken, 0, 16)
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return toks
		case css.WhitespaceToken, css.CommentToken:
			continue
		}
		toks = append(toks, selToken{tt: tt, data: string(data)})
	}
}

// listSpecificity handles comma separated selector list and returns maximum.
func listSpecificity(toks []selToken) score {
	var (
		best  score
		depth int
		start int
	)
	for i, t := range toks {
		switch t.tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
		case css.CommaToken:
			if depth == 0 {
				if s := complexSpecificity(toks[start:i]); best.less(s) {
					best = s
				}
				start = i + 1
			}
		}
	}
	if s := complexSpecificity(toks[start:]); best.less(s) {
		best = s
	}
	return best
}

// closing returns index of the token closing group opened at toks[open].
func closing(toks []selToken, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch toks[i].tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(toks) - 1
}

func complexSpecificity(toks []selToken) score {
	var s score
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch t.tt {
		case css.HashToken:
			s[0]++
		case css.DelimToken:
			if t.data == "." && i+1 < len(toks) && toks[i+1].tt == css.IdentToken {
				s[1]++
				i++
			}
		case css.LeftBracketToken:
			s[1]++
			i = closing(toks, i)
		case css.IdentToken:
			s[2]++
		case css.ColonToken:
			if i+1 >= len(toks) {
				continue
			}
			if toks[i+1].tt == css.ColonToken {
				// pseudo-element
				s[2]++
				i++
				if i+1 < len(toks) {
					i++
					if toks[i].tt == css.FunctionToken {
						i = closing(toks, i)
					}
				}
				continue
			}
			i++
			next := toks[i]
			switch next.tt {
			case css.IdentToken:
				if legacyPseudoElements[strings.ToLower(next.data)] {
					s[2]++
				} else {
					s[1]++
				}
			case css.FunctionToken:
				end := closing(toks, i)
				switch strings.ToLower(strings.TrimSuffix(next.data, "(")) {
				case "where":
				case "not", "is", "has", "matches":
					s.add(listSpecificity(toks[i+1 : end]))
				default:
					s[1]++
				}
				i = end
			}
		}
	}
	return s
}
