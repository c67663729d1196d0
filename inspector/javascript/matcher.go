package javascript

import (
	"iter"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"
)

const (
	// DefaultLoadCallee is the dynamic-load primitive.
	DefaultLoadCallee = "import"
	// DefaultSettleMethod is the continuation method on the load result.
	DefaultSettleMethod = "then"
	// DefaultExtension is the binary module file extension.
	DefaultExtension = ".wasm"
)

// Matcher finds dynamic loads of binary modules and the members read off them.
type Matcher struct {
	loadCallee    string
	settleMethod  string
	extension     string
	staticImports bool
	logger        *zap.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLoadCallee sets the dynamic-load primitive, e.g. "import".
func WithLoadCallee(name string) Option {
	return func(m *Matcher) {
		if name != "" {
			m.loadCallee = name
		}
	}
}

// WithSettleMethod sets the continuation method name, e.g. "then".
func WithSettleMethod(name string) Option {
	return func(m *Matcher) {
		if name != "" {
			m.settleMethod = name
		}
	}
}

// WithExtension sets the binary module file extension.
func WithExtension(ext string) Option {
	return func(m *Matcher) {
		if ext != "" {
			m.extension = ext
		}
	}
}

// WithStaticImports enables matching of `import {a} from "./m.wasm"` declarations.
func WithStaticImports(enabled bool) Option {
	return func(m *Matcher) {
		m.staticImports = enabled
	}
}

// WithLogger sets the matcher logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Matcher) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMatcher creates a Matcher.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{
		loadCallee:    DefaultLoadCallee,
		settleMethod:  DefaultSettleMethod,
		extension:     DefaultExtension,
		staticImports: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = Logger()
	}
	m.logger = m.logger.With(zap.String("component", "matcher"))
	return m
}

// Match returns the matches of src in source order. The sequence performs a
// single traversal of the tree: it can be ranged over once, later ranges
// yield nothing.
func (m *Matcher) Match(src *Source) iter.Seq[*Match] {
	consumed := false
	return func(yield func(*Match) bool) {
		if consumed {
			return
		}
		consumed = true
		m.walk(src.Root(), src, yield)
	}
}

// walk visits n in pre-order and reports false once yield asked to stop.
func (m *Matcher) walk(n *sitter.Node, src *Source, yield func(*Match) bool) bool {
	switch n.Type() {
	case "call_expression":
		if match := m.matchLoad(n, src); match != nil {
			if !yield(match) {
				return false
			}
		}
	case "import_statement":
		if match := m.matchStaticImport(n, src); match != nil {
			if !yield(match) {
				return false
			}
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if !m.walk(n.NamedChild(i), src, yield) {
			return false
		}
	}
	return true
}

// matchLoad recognises load("<ref>.wasm") and its optional continuation.
func (m *Matcher) matchLoad(call *sitter.Node, src *Source) *Match {
	fn := call.ChildByFieldName("function")
	if fn == nil || !m.isLoadCallee(fn, src.Code) {
		return nil
	}
	args := arguments(call.ChildByFieldName("arguments"))
	if len(args) != 1 {
		m.logger.Debug("skipping load with unexpected arity",
			zap.String("file", src.Path), zap.Stringer("at", locationOf(call)), zap.Int("args", len(args)))
		return nil
	}
	path, ok := literal(args[0], src.Code)
	if !ok {
		m.logger.Debug("skipping unresolvable module reference",
			zap.String("file", src.Path), zap.Stringer("at", locationOf(args[0])))
		return nil
	}
	if !strings.HasSuffix(path, m.extension) {
		return nil
	}
	match := &Match{Reference: ModuleReference{Path: path, Location: locationOf(args[0])}}
	callback := m.continuation(call, src.Code)
	if callback == nil {
		return match
	}
	match.Handle, match.Candidates = traceCallback(callback, src.Code)
	if match.Handle.Kind == Escaped {
		m.logger.Debug("module handle escaped, dropping candidates",
			zap.String("file", src.Path), zap.String("module", path),
			zap.String("alias", match.Handle.Alias), zap.String("reason", match.Handle.Reason))
	}
	return match
}

func (m *Matcher) isLoadCallee(fn *sitter.Node, code []byte) bool {
	switch fn.Type() {
	case "import":
		return m.loadCallee == DefaultLoadCallee
	case "identifier":
		return fn.Content(code) == m.loadCallee
	}
	return false
}

// continuation returns the callback of `<call>.then(callback)`.
func (m *Matcher) continuation(call *sitter.Node, code []byte) *sitter.Node {
	receiver := call
	parent := receiver.Parent()
	for parent != nil && parent.Type() == "parenthesized_expression" {
		receiver = parent
		parent = parent.Parent()
	}
	if parent == nil || parent.Type() != "member_expression" || !sameNode(parent.ChildByFieldName("object"), receiver) {
		return nil
	}
	property := parent.ChildByFieldName("property")
	if property == nil || property.Content(code) != m.settleMethod {
		return nil
	}
	settle := parent.Parent()
	if settle == nil || settle.Type() != "call_expression" || !sameNode(settle.ChildByFieldName("function"), parent) {
		return nil
	}
	args := arguments(settle.ChildByFieldName("arguments"))
	if len(args) == 0 || !isFunction(args[0]) {
		return nil
	}
	return args[0]
}

// matchStaticImport recognises `import {a, b as c} from "./m.wasm"`.
func (m *Matcher) matchStaticImport(n *sitter.Node, src *Source) *Match {
	if !m.staticImports {
		return nil
	}
	source := n.ChildByFieldName("source")
	if source == nil {
		return nil
	}
	path, ok := literal(source, src.Code)
	if !ok || !strings.HasSuffix(path, m.extension) {
		return nil
	}
	match := &Match{Reference: ModuleReference{Path: path, Location: locationOf(source)}, Static: true}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause.Type() != "import_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			named := clause.NamedChild(j)
			if named.Type() != "named_imports" {
				continue
			}
			for k := 0; k < int(named.NamedChildCount()); k++ {
				specifier := named.NamedChild(k)
				if specifier.Type() != "import_specifier" {
					continue
				}
				name := specifier.ChildByFieldName("name")
				if name == nil {
					continue
				}
				member := name.Content(src.Code)
				if value, ok := literal(name, src.Code); ok {
					member = value
				}
				alias := member
				if aliasNode := specifier.ChildByFieldName("alias"); aliasNode != nil {
					alias = aliasNode.Content(src.Code)
				}
				match.Candidates = append(match.Candidates, AccessCandidate{
					Alias:    alias,
					Member:   member,
					Location: locationOf(name),
				})
			}
		}
	}
	if len(match.Candidates) > 0 {
		match.Handle = Trace{Kind: Traced}
	}
	return match
}

// arguments returns the argument expressions of an arguments node, skipping comments.
func arguments(args *sitter.Node) []*sitter.Node {
	if args == nil {
		return nil
	}
	var result []*sitter.Node
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		if arg.Type() == "comment" {
			continue
		}
		result = append(result, arg)
	}
	return result
}

// literal returns the value of a string literal or a template without substitutions.
func literal(n *sitter.Node, code []byte) (string, bool) {
	switch n.Type() {
	case "string":
		content := n.Content(code)
		if len(content) < 2 {
			return "", false
		}
		if raw := content[1 : len(content)-1]; !strings.Contains(raw, "\\") {
			return raw, true
		}
		var b strings.Builder
		for i := 0; i < int(n.NamedChildCount()); i++ {
			part := n.NamedChild(i)
			switch part.Type() {
			case "string_fragment":
				b.WriteString(part.Content(code))
			case "escape_sequence":
				b.WriteString(unescape(part.Content(code)))
			}
		}
		return b.String(), true
	case "template_string":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if n.NamedChild(i).Type() == "template_substitution" {
				return "", false
			}
		}
		content := n.Content(code)
		if len(content) < 2 {
			return "", false
		}
		return content[1 : len(content)-1], true
	}
	return "", false
}

func unescape(seq string) string {
	if len(seq) != 2 {
		return seq
	}
	switch seq[1] {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '0':
		return "\x00"
	}
	return seq[1:]
}

func isFunction(n *sitter.Node) bool {
	switch n.Type() {
	case "arrow_function", "function", "function_expression":
		return true
	}
	return false
}

func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}
