package css

import (
	"fmt"
	"io"
	"strings"
)

// Property is a single CSS declaration produced by a utility matcher.
type Property struct {
	Name      string `msgpack:"n"`
	Value     string `msgpack:"v"`
	Important bool   `msgpack:"i,omitempty"`
}

// String returns declaration text without trailing semicolon.
func (p Property) String() string {
	if p.Important {
		return p.Name + ": " + p.Value + " !important"
	}
	return p.Name + ": " + p.Value
}

// Rule is a fully composed CSS rule for a single utility class.
type Rule struct {
	Class        string     `msgpack:"c"`           // Canonical class token (unescaped)
	Selector     string     `msgpack:"s"`           // Final selector text
	Declarations []Property `msgpack:"d"`           // Declarations in matcher order
	Media        string     `msgpack:"m,omitempty"` // Media query condition, without "@media"
	Supports     string     `msgpack:"u,omitempty"` // Supports condition, without "@supports"
	Breakpoint   string     `msgpack:"b,omitempty"` // Responsive breakpoint the rule belongs to
	Specificity  uint32     `msgpack:"p"`           // Computed from Selector when rule is built
}

// Conditional returns true if rule is wrapped into any at-rule.
func (r Rule) Conditional() bool {
	return r.Media != "" || r.Supports != ""
}

// Wrapper returns canonical at-rule prelude(s) text for the rule, empty for
// plain rules. Rules with equal wrappers may share a single block.
func (r Rule) Wrapper() string {
	switch {
	case r.Media != "" && r.Supports != "":
		return "@media " + r.Media + " @supports " + r.Supports
	case r.Media != "":
		return "@media " + r.Media
	case r.Supports != "":
		return "@supports " + r.Supports
	default:
		return ""
	}
}

// Stylesheet is an ordered list of blocks ready to be serialized.
type Stylesheet struct {
	Header string  // Optional comment text put at the top
	Blocks []Block // Blocks in emission order
}

// Block is a group of rules sharing the same at-rule wrapping.
type Block struct {
	Media    string
	Supports string
	Rules    []Rule
}

// Len returns total number of rules in the stylesheet.
func (s *Stylesheet) Len() int {
	n := 0
	for _, b := range s.Blocks {
		n += len(b.Rules)
	}
	return n
}

// Add appends rule to the stylesheet, extending the last block when wrapping
// matches.
func (s *Stylesheet) Add(rule Rule) {
	if l := len(s.Blocks); l > 0 {
		last := &s.Blocks[l-1]
		if last.Media == rule.Media && last.Supports == rule.Supports {
			last.Rules = append(last.Rules, rule)
			return
		}
	}
	s.Blocks = append(s.Blocks, Block{Media: rule.Media, Supports: rule.Supports, Rules: []Rule{rule}})
}

// WriteTo writes the stylesheet to w in block order, implementing io.WriterTo.
// Declaration order within a rule is kept as produced by the matcher.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64

	if s.Header != "" {
		n, err := fmt.Fprintf(w, "/* %s */\n", strings.ReplaceAll(s.Header, "*/", "* /"))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	for i, b := range s.Blocks {
		n, err := writeBlock(w, &b)
		total += int64(n)
		if err != nil {
			return total, err
		}

		// Add blank line between blocks (except after last)
		if i < len(s.Blocks)-1 {
			n, err := fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

func writeBlock(w io.Writer, b *Block) (int, error) {
	var (
		total  int
		indent string
		closes int
	)

	open := func(format, cond string) error {
		n, err := fmt.Fprintf(w, "%s"+format+" {\n", indent, cond)
		total += n
		indent += "  "
		closes++
		return err
	}

	if b.Media != "" {
		if err := open("@media %s", b.Media); err != nil {
			return total, err
		}
	}
	if b.Supports != "" {
		if err := open("@supports %s", b.Supports); err != nil {
			return total, err
		}
	}

	for i := range b.Rules {
		n, err := writeRule(w, &b.Rules[i], indent)
		total += n
		if err != nil {
			return total, err
		}
	}

	for ; closes > 0; closes-- {
		indent = indent[:len(indent)-2]
		n, err := fmt.Fprintf(w, "%s}\n", indent)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// writeRule writes a single CSS rule to w.
func writeRule(w io.Writer, rule *Rule, indent string) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s%s {\n", indent, rule.Selector)
	total += n
	if err != nil {
		return total, err
	}
	for _, p := range rule.Declarations {
		n, err = fmt.Fprintf(w, "%s  %s;\n", indent, p)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprintf(w, "%s}\n", indent)
	total += n
	return total, err
}
