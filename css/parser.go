package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// VariantDefinition is a custom variant declared in CSS with
// `@custom-variant name (template);`.
type VariantDefinition struct {
	Name     string
	Template string
}

// BreakpointDefinition is a responsive breakpoint declared in CSS with
// `@theme { --breakpoint-name: width; }`.
type BreakpointDefinition struct {
	Name     string
	MinWidth string
}

// Definitions holds everything recognized in a definitions stylesheet, in
// document order.
type Definitions struct {
	Variants    []VariantDefinition
	Breakpoints []BreakpointDefinition
	// ResetBreakpoints is set when `--breakpoint-*: initial` was seen, defaults
	// must be dropped before Breakpoints are applied.
	ResetBreakpoints bool
	Warnings         []string
}

const breakpointPrefix = "--breakpoint-"

// DefinitionsParser extracts variant and breakpoint definitions from CSS.
type DefinitionsParser struct {
	log *zap.Logger
}

// NewDefinitionsParser creates a new definitions parser.
func NewDefinitionsParser(log *zap.Logger) *DefinitionsParser {
	if log == nil {
		log = zap.NewNop()
	}
	return &DefinitionsParser{log: log.Named("css-definitions")}
}

// Parse parses CSS text. The optional source parameter identifies what's
// being parsed (for debug logging).
func (p *DefinitionsParser) Parse(data []byte, source ...string) (*Definitions, error) {
	defs := &Definitions{}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing definitions", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				return defs, fmt.Errorf("unable to parse definitions: %w", err)
			}
			return defs, nil

		case css.AtRuleGrammar:
			atRule := string(data)
			if atRule != "@custom-variant" {
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
				continue
			}
			def, err := parseVariantDefinition(parser.Values())
			if err != nil {
				defs.Warnings = append(defs.Warnings, err.Error())
				p.log.Debug("Ignoring malformed @custom-variant", zap.Error(err))
				continue
			}
			defs.Variants = append(defs.Variants, def)
			p.log.Debug("Parsed @custom-variant", zap.String("name", def.Name), zap.String("template", def.Template))

		case css.BeginAtRuleGrammar:
			switch atRule := string(data); atRule {
			case "@theme":
				p.parseTheme(parser, defs)
			case "@custom-variant":
				defs.Warnings = append(defs.Warnings, "block form of @custom-variant is not supported, use (template) form")
				skipBlock(parser)
			default:
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
				skipBlock(parser)
			}

		case css.BeginRulesetGrammar:
			skipBlock(parser)
		}
	}
}

// parseTheme collects breakpoint custom properties until the end of @theme.
// Body of an unknown at-rule comes as a plain token stream, declarations are
// split on semicolons at the top level of the block. Nested blocks are
// ignored.
func (p *DefinitionsParser) parseTheme(parser *css.Parser, defs *Definitions) {
	var (
		decl  strings.Builder
		depth int
	)
	for {
		gt, tt, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			return
		case css.EndAtRuleGrammar:
			p.themeProperty(decl.String(), defs)
			return
		case css.TokenGrammar:
		default:
			continue
		}

		switch tt {
		case css.LeftBraceToken:
			depth++
			decl.Reset()
		case css.RightBraceToken:
			if depth > 0 {
				depth--
			}
		case css.SemicolonToken:
			if depth == 0 {
				p.themeProperty(decl.String(), defs)
				decl.Reset()
			}
		case css.CommentToken:
		case css.WhitespaceToken:
			if depth == 0 && decl.Len() > 0 {
				decl.WriteByte(' ')
			}
		default:
			if depth == 0 {
				decl.Write(data)
			}
		}
	}
}

// themeProperty records single `name: value` declaration from @theme body.
func (p *DefinitionsParser) themeProperty(decl string, defs *Definitions) {
	name, value, ok := strings.Cut(decl, ":")
	name = strings.TrimSpace(name)
	if !strings.HasPrefix(name, breakpointPrefix) {
		return
	}
	value = strings.TrimSpace(value)

	bp := strings.TrimPrefix(name, breakpointPrefix)
	if bp == "*" {
		if value == "initial" {
			defs.ResetBreakpoints = true
			defs.Breakpoints = nil
		}
		return
	}
	if !ok || bp == "" || value == "" {
		defs.Warnings = append(defs.Warnings, fmt.Sprintf("malformed breakpoint definition %q", name))
		return
	}
	defs.Breakpoints = append(defs.Breakpoints, BreakpointDefinition{Name: bp, MinWidth: value})
	p.log.Debug("Parsed breakpoint", zap.String("name", bp), zap.String("width", value))
}

// parseVariantDefinition handles `name (template)` and `name template` forms.
func parseVariantDefinition(values []css.Token) (VariantDefinition, error) {
	text := strings.TrimSpace(preludeString(values))
	if text == "" {
		return VariantDefinition{}, errors.New("@custom-variant without name")
	}

	end := strings.IndexAny(text, " \t\n\r(")
	if end <= 0 {
		return VariantDefinition{}, fmt.Errorf("@custom-variant %q has no template", text)
	}
	def := VariantDefinition{Name: text[:end]}

	tmpl := strings.TrimSpace(text[end:])
	if strings.HasPrefix(tmpl, "(") && strings.HasSuffix(tmpl, ")") {
		tmpl = strings.TrimSpace(tmpl[1 : len(tmpl)-1])
	}
	if tmpl == "" {
		return VariantDefinition{}, fmt.Errorf("@custom-variant %q has empty template", def.Name)
	}
	if !strings.Contains(tmpl, "&") && !strings.HasPrefix(tmpl, "@") {
		return VariantDefinition{}, fmt.Errorf("@custom-variant %q template %q must reference & or be an at-rule", def.Name, tmpl)
	}
	def.Template = tmpl
	return def, nil
}

// preludeString joins at-rule prelude tokens back into text. Prelude comes
// with whitespace after colons dropped, for nested at-rule conditions it is
// restored so `(hover: hover)` keeps its canonical form. Colons of selectors
// are left alone.
func preludeString(tokens []css.Token) string {
	var (
		sb     strings.Builder
		atRule bool
		parens []css.TokenType // innermost last
	)
	for i, t := range tokens {
		sb.Write(t.Data)
		switch t.TokenType {
		case css.AtKeywordToken:
			atRule = true
		case css.LeftParenthesisToken, css.FunctionToken:
			parens = append(parens, t.TokenType)
		case css.RightParenthesisToken:
			if len(parens) > 0 {
				parens = parens[:len(parens)-1]
			}
		case css.ColonToken:
			if !atRule || len(parens) == 0 || parens[len(parens)-1] != css.LeftParenthesisToken {
				continue
			}
			if i+1 < len(tokens) && tokens[i+1].TokenType != css.WhitespaceToken {
				sb.WriteByte(' ')
			}
		}
	}
	return sb.String()
}

// skipBlock skips tokens until the matching end of a block.
func skipBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}
