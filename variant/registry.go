package variant

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"twc/css"
)

// MaxSuggestions limits number of suggestions returned for a prefix.
const MaxSuggestions = 5

// CustomKind is the kind of a custom variant.
type CustomKind uint8

const (
	Aria CustomKind = iota + 1
	Data
	Supports
	CustomName
)

var kindPrefixes = [...]string{
	Aria:     "aria-",
	Data:     "data-",
	Supports: "supports-",
}

// KindPrefixes returns textual prefixes of built-in custom variant kinds.
func KindPrefixes() []string {
	return []string{kindPrefixes[Aria], kindPrefixes[Data], kindPrefixes[Supports]}
}

func (k CustomKind) String() string {
	switch k {
	case Aria:
		return "aria"
	case Data:
		return "data"
	case Supports:
		return "supports"
	case CustomName:
		return "custom"
	default:
		return "unknown"
	}
}

// CustomVariant describes attribute, feature or fully custom condition.
// Values are only created by Registry so names are always valid.
type CustomVariant struct {
	Kind  CustomKind
	Key   string
	Value string // empty if variant has no value
	// Template is set for custom variants defined with a selector or at-rule
	// template, "&" stands for the selector being built.
	Template string
}

// String returns canonical variant text.
func (cv CustomVariant) String() string {
	var sb strings.Builder
	if cv.Kind != CustomName {
		sb.WriteString(kindPrefixes[cv.Kind])
	}
	sb.WriteString(cv.Key)
	if cv.Value != "" {
		sb.WriteByte('=')
		sb.WriteString(cv.Value)
	}
	return sb.String()
}

// Selector returns attribute selector for aria, data and template-less custom
// variants: [aria-checked], [data-theme=dark], [dir="rtl x"].
func (cv CustomVariant) Selector() string {
	var name string
	switch cv.Kind {
	case Aria:
		name = "aria-" + cv.Key
	case Data:
		name = "data-" + cv.Key
	case CustomName:
		name = cv.Key
	default:
		return ""
	}
	if cv.Value == "" {
		return "[" + name + "]"
	}
	value := unquoteValue(cv.Value)
	if css.IsIdent(value) {
		return "[" + name + "=" + value + "]"
	}
	return "[" + name + "=" + css.Quote(value) + "]"
}

// Condition returns @supports condition for supports variants.
func (cv CustomVariant) Condition() string {
	if cv.Kind != Supports {
		return ""
	}
	if cv.Value == "" {
		return "(" + cv.Key + ": var(--tw))"
	}
	return "(" + cv.Key + ": " + cv.Value + ")"
}

// IsAtRule returns true when template describes a wrapping at-rule instead of
// a selector.
func (cv CustomVariant) IsAtRule() bool {
	return strings.HasPrefix(cv.Template, "@")
}

// ValidationErrorKind classifies validation failures.
type ValidationErrorKind uint8

const (
	InvalidVariantName ValidationErrorKind = iota + 1
	UnknownVariantKind
)

var (
	ErrInvalidVariantName = errors.New("invalid variant name")
	ErrUnknownVariantKind = errors.New("unknown variant")
)

// ValidationError reports variant text which could not be accepted.
type ValidationError struct {
	Kind        ValidationErrorKind
	Text        string
	Char        rune // offending character, InvalidVariantName only
	Pos         int  // byte offset of Char in Text
	Reason      string
	Suggestions []string
}

func (e *ValidationError) Error() string {
	var msg string
	switch e.Kind {
	case InvalidVariantName:
		msg = fmt.Sprintf("invalid variant name %q: %s", e.Text, e.Reason)
	default:
		msg = fmt.Sprintf("unknown variant %q", e.Text)
		if e.Reason != "" {
			msg += ": " + e.Reason
		}
	}
	if len(e.Suggestions) > 0 {
		msg += " (did you mean: " + strings.Join(e.Suggestions, ", ") + "?)"
	}
	return msg
}

func (e *ValidationError) Is(target error) bool {
	switch e.Kind {
	case InvalidVariantName:
		return target == ErrInvalidVariantName
	case UnknownVariantKind:
		return target == ErrUnknownVariantKind
	}
	return false
}

// RegistryOption configures Registry.
type RegistryOption func(*Registry)

// WithCustomVariants controls if variants beyond aria, data and supports
// kinds may be registered.
func WithCustomVariants(allow bool) RegistryOption {
	return func(r *Registry) {
		r.allowCustom = allow
	}
}

// Registry keeps registered custom variants and validates variant text.
// All registrations must happen before the registry is shared; after that it
// is safe for concurrent use.
type Registry struct {
	allowCustom bool
	registered  map[string]CustomVariant // canonical -> variant
	names       map[string]CustomVariant // custom name (no value) -> template holder
	sorted      []string
	validated   sync.Map // text -> CustomVariant
}

// NewRegistry creates empty registry. Fully custom variants are allowed
// unless disabled by option.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		allowCustom: true,
		registered:  make(map[string]CustomVariant),
		names:       make(map[string]CustomVariant),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Register validates variant and stores it under its canonical string.
// Registering the same canonical string again replaces template.
func (r *Registry) Register(cv CustomVariant) error {
	if cv.Kind == CustomName && !r.allowCustom {
		return &ValidationError{Kind: UnknownVariantKind, Text: cv.Key, Reason: "custom variants are disabled"}
	}
	if cv.Kind < Aria || cv.Kind > CustomName {
		return &ValidationError{Kind: UnknownVariantKind, Text: cv.Key}
	}

	text := cv.String()
	if err := checkName(text, text, 0); err != nil {
		return err
	}
	if err := checkName(text, cv.Key, keyOffset(cv)); err != nil {
		return err
	}
	if cv.Value != "" && isBareIdent(cv.Value) {
		if err := checkName(text, cv.Value, len(text)-len(cv.Value)); err != nil {
			return err
		}
	}
	if cv.Kind == CustomName && strings.ContainsAny(cv.Key, "=[]:") {
		return &ValidationError{Kind: InvalidVariantName, Text: text, Reason: "custom variant name must be a plain identifier"}
	}
	if cv.Template != "" {
		if cv.Kind != CustomName {
			return &ValidationError{Kind: InvalidVariantName, Text: text, Reason: "only custom variants may carry a template"}
		}
		if err := checkTemplate(text, cv.Template, 0); err != nil {
			return err
		}
	}

	if _, exists := r.registered[text]; !exists {
		i, _ := slices.BinarySearch(r.sorted, text)
		r.sorted = slices.Insert(r.sorted, i, text)
	}
	r.registered[text] = cv
	if cv.Kind == CustomName {
		if _, exists := r.names[cv.Key]; !exists || cv.Value == "" {
			r.names[cv.Key] = CustomVariant{Kind: CustomName, Key: cv.Key, Template: cv.Template}
		}
	}
	// drop stale memo in case template changed
	r.validated.Delete(text)
	return nil
}

// Lookup returns registered variant by its canonical string.
func (r *Registry) Lookup(canonical string) (CustomVariant, bool) {
	cv, ok := r.registered[canonical]
	return cv, ok
}

// Len returns number of registered variants.
func (r *Registry) Len() int {
	return len(r.sorted)
}

// Validate parses variant text into custom variant. Aria, data and supports
// variants are always accepted if well formed, other names must be
// registered. Successful results are cached.
func (r *Registry) Validate(text string) (CustomVariant, error) {
	if v, ok := r.validated.Load(text); ok {
		return v.(CustomVariant), nil
	}
	cv, err := r.validate(text)
	if err != nil {
		return CustomVariant{}, err
	}
	r.validated.Store(text, cv)
	return cv, nil
}

func (r *Registry) validate(text string) (CustomVariant, error) {
	if err := checkName(text, text, 0); err != nil {
		return CustomVariant{}, err
	}

	for _, kind := range []CustomKind{Aria, Data, Supports} {
		prefix := kindPrefixes[kind]
		if !strings.HasPrefix(text, prefix) {
			continue
		}
		return parseKeyValue(text, kind, len(prefix))
	}

	// registered custom variant, possibly with value
	name, value, hasValue := strings.Cut(text, "=")
	holder, ok := r.names[name]
	if !ok {
		return CustomVariant{}, &ValidationError{Kind: UnknownVariantKind, Text: text}
	}
	cv := CustomVariant{Kind: CustomName, Key: name, Template: holder.Template}
	if hasValue {
		if value == "" {
			return CustomVariant{}, &ValidationError{Kind: InvalidVariantName, Text: text, Char: '=', Pos: len(name), Reason: "empty value"}
		}
		if isBareIdent(value) {
			if err := checkName(text, value, len(name)+1); err != nil {
				return CustomVariant{}, err
			}
		}
		cv.Value = value
		if reg, ok := r.registered[cv.String()]; ok {
			cv.Template = reg.Template
		}
	}
	return cv, nil
}

// parseKeyValue handles "key", "key=value" and "[key=value]" forms after kind
// prefix.
func parseKeyValue(text string, kind CustomKind, off int) (CustomVariant, error) {
	rest := text[off:]
	sep := byte('=')
	if strings.HasPrefix(rest, "[") && strings.HasSuffix(rest, "]") {
		rest = rest[1 : len(rest)-1]
		off++
		if kind == Supports && !strings.Contains(rest, "=") {
			sep = ':'
		}
	}

	key, value, hasValue := rest, "", false
	if i := strings.IndexByte(rest, sep); i >= 0 {
		key, value, hasValue = rest[:i], rest[i+1:], true
	}
	if err := checkName(text, key, off); err != nil {
		return CustomVariant{}, err
	}
	if hasValue {
		vpos := off + len(key) + 1
		if value == "" {
			return CustomVariant{}, &ValidationError{Kind: InvalidVariantName, Text: text, Char: rune(sep), Pos: vpos - 1, Reason: "empty value"}
		}
		if isBareIdent(value) {
			if err := checkName(text, value, vpos); err != nil {
				return CustomVariant{}, err
			}
		}
	}
	return CustomVariant{Kind: kind, Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)}, nil
}

// checkTemplate accepts selector templates referencing "&" and @media or
// @supports at-rules. Position pos is reported on failure.
func checkTemplate(text, tmpl string, pos int) error {
	switch {
	case strings.HasPrefix(tmpl, "@media"), strings.HasPrefix(tmpl, "@supports"):
		return nil
	case strings.HasPrefix(tmpl, "@"):
		return &ValidationError{Kind: InvalidVariantName, Text: text, Char: '@', Pos: pos,
			Reason: "only @media and @supports at-rule variants are supported"}
	case !strings.Contains(tmpl, "&"):
		return &ValidationError{Kind: InvalidVariantName, Text: text, Char: rune(tmpl[0]), Pos: pos,
			Reason: "variant template must reference & selector"}
	}
	return nil
}

// checkName enforces naming restriction on part located at off in text.
func checkName(text, part string, off int) error {
	if part == "" {
		return &ValidationError{Kind: InvalidVariantName, Text: text, Pos: off, Reason: "name is empty"}
	}
	if c := part[0]; c == '-' || c == '_' {
		return &ValidationError{Kind: InvalidVariantName, Text: text, Char: rune(c), Pos: off,
			Reason: fmt.Sprintf("must not start with %q", c)}
	}
	if c := part[len(part)-1]; c == '-' || c == '_' {
		return &ValidationError{Kind: InvalidVariantName, Text: text, Char: rune(c), Pos: off + len(part) - 1,
			Reason: fmt.Sprintf("must not end with %q", c)}
	}
	return nil
}

func keyOffset(cv CustomVariant) int {
	if cv.Kind == CustomName {
		return 0
	}
	return len(kindPrefixes[cv.Kind])
}

// isBareIdent returns true for unquoted values consisting of identifier
// characters only.
func isBareIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '-' || c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			return false
		}
	}
	return true
}

func unquoteValue(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// Suggest returns registered canonical variant strings starting with prefix,
// lexicographically ordered and capped at MaxSuggestions.
func (r *Registry) Suggest(prefix string) []string {
	return withPrefix(r.sorted, prefix, MaxSuggestions)
}

// Names returns all registered canonical variant strings starting with
// prefix, lexicographically ordered.
func (r *Registry) Names(prefix string) []string {
	return withPrefix(r.sorted, prefix, 0)
}

// withPrefix returns up to limit entries of sorted starting with prefix, zero
// limit means all.
func withPrefix(sorted []string, prefix string, limit int) []string {
	var out []string
	for i := sort.SearchStrings(sorted, prefix); i < len(sorted) && (limit <= 0 || len(out) < limit); i++ {
		if !strings.HasPrefix(sorted[i], prefix) {
			break
		}
		out = append(out, sorted[i])
	}
	return out
}
