package javascript

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// traceCallback binds the first parameter of callback as the module handle
// alias and collects member reads performed on it in the callback body.
// Any use other than a member read makes the handle Escaped and drops all
// candidates.
func traceCallback(callback *sitter.Node, code []byte) (Trace, []AccessCandidate) {
	alias, reason := firstParameter(callback, code)
	if alias == "" {
		if reason == "" {
			return Trace{Kind: Unbound}, nil
		}
		return Trace{Kind: Escaped, Reason: reason}, nil
	}
	body := callback.ChildByFieldName("body")
	if body == nil {
		return Trace{Kind: Traced, Alias: alias}, nil
	}
	t := &tracer{alias: alias, code: code}
	if !t.visit(body) {
		return Trace{Kind: Escaped, Alias: alias, Reason: t.reason}, nil
	}
	return Trace{Kind: Traced, Alias: alias}, t.candidates
}

// firstParameter returns the identifier of the first parameter, or the reason
// it cannot be used as an alias. Both are empty when there is no parameter.
func firstParameter(callback *sitter.Node, code []byte) (string, string) {
	if param := callback.ChildByFieldName("parameter"); param != nil {
		if param.Type() == "identifier" {
			return param.Content(code), ""
		}
		return "", fmt.Sprintf("%s parameter", param.Type())
	}
	params := arguments(callback.ChildByFieldName("parameters"))
	if len(params) == 0 {
		return "", ""
	}
	if params[0].Type() == "identifier" {
		return params[0].Content(code), ""
	}
	return "", fmt.Sprintf("%s parameter", params[0].Type())
}

type tracer struct {
	alias      string
	code       []byte
	candidates []AccessCandidate
	reason     string
}

func (t *tracer) escape(format string, args ...interface{}) bool {
	t.reason = fmt.Sprintf(format, args...)
	return false
}

// visit walks n and returns false once the alias escaped.
func (t *tracer) visit(n *sitter.Node) bool {
	switch n.Type() {
	case "identifier":
		if n.Content(t.code) == t.alias {
			return t.classify(n)
		}
		return true
	case "shorthand_property_identifier":
		if n.Content(t.code) == t.alias {
			return t.escape("used as shorthand property")
		}
		return true
	case "arrow_function", "function", "function_expression", "generator_function", "method_definition":
		if declaresParameter(n, t.alias, t.code) {
			return true
		}
	case "function_declaration", "generator_function_declaration", "class_declaration":
		if name := n.ChildByFieldName("name"); name != nil && name.Content(t.code) == t.alias {
			return t.escape("redeclared by %s", n.Type())
		}
		if declaresParameter(n, t.alias, t.code) {
			return true
		}
	case "variable_declarator":
		if name := n.ChildByFieldName("name"); name != nil && binds(name, t.alias, t.code) {
			return t.escape("redeclared at %s", locationOf(n))
		}
	case "catch_clause":
		if param := n.ChildByFieldName("parameter"); param != nil && binds(param, t.alias, t.code) {
			return true
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if !t.visit(n.NamedChild(i)) {
			return false
		}
	}
	return true
}

// classify handles one occurrence of the alias identifier.
func (t *tracer) classify(ident *sitter.Node) bool {
	parent := ident.Parent()
	if parent == nil {
		return t.escape("detached identifier")
	}
	switch parent.Type() {
	case "member_expression":
		if !sameNode(parent.ChildByFieldName("object"), ident) {
			return t.escape("used as property")
		}
		if isWriteTarget(parent, t.code) {
			return t.escape("member written at %s", locationOf(parent))
		}
		property := parent.ChildByFieldName("property")
		if property == nil || property.Type() != "property_identifier" {
			return true
		}
		t.add(parent, property, property.Content(t.code))
		return true
	case "subscript_expression":
		if !sameNode(parent.ChildByFieldName("object"), ident) {
			return t.escape("used as subscript index")
		}
		if isWriteTarget(parent, t.code) {
			return t.escape("member written at %s", locationOf(parent))
		}
		index := parent.ChildByFieldName("index")
		if index == nil {
			return true
		}
		if name, ok := literal(index, t.code); ok {
			t.add(parent, index, name)
		}
		// computed keys cannot be confirmed
		return true
	}
	return t.escape("used in %s at %s", parent.Type(), locationOf(ident))
}

func (t *tracer) add(member, property *sitter.Node, name string) {
	candidate := AccessCandidate{
		Alias:    t.alias,
		Member:   name,
		Location: locationOf(property),
	}
	if call := member.Parent(); call != nil && call.Type() == "call_expression" && sameNode(call.ChildByFieldName("function"), member) {
		candidate.Invoked = true
		if next := call.Parent(); next != nil && (next.Type() == "member_expression" || next.Type() == "subscript_expression") &&
			sameNode(next.ChildByFieldName("object"), call) {
			candidate.ResultShapeUnverified = true
		}
	}
	t.candidates = append(t.candidates, candidate)
}

// isWriteTarget reports whether expr is assigned, updated or deleted.
func isWriteTarget(expr *sitter.Node, code []byte) bool {
	parent := expr.Parent()
	if parent == nil {
		return false
	}
	switch parent.Type() {
	case "assignment_expression", "augmented_assignment_expression":
		return sameNode(parent.ChildByFieldName("left"), expr)
	case "update_expression":
		return true
	case "unary_expression":
		operator := parent.ChildByFieldName("operator")
		return operator != nil && operator.Content(code) == "delete"
	}
	return false
}

// declaresParameter reports whether fn binds alias as one of its parameters.
func declaresParameter(fn *sitter.Node, alias string, code []byte) bool {
	if param := fn.ChildByFieldName("parameter"); param != nil {
		return binds(param, alias, code)
	}
	if params := fn.ChildByFieldName("parameters"); params != nil {
		return binds(params, alias, code)
	}
	return false
}

// binds reports whether the binding pattern introduces alias.
func binds(pattern *sitter.Node, alias string, code []byte) bool {
	switch pattern.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		return pattern.Content(code) == alias
	case "assignment_pattern", "object_assignment_pattern":
		left := pattern.ChildByFieldName("left")
		return left != nil && binds(left, alias, code)
	case "pair_pattern":
		value := pattern.ChildByFieldName("value")
		return value != nil && binds(value, alias, code)
	}
	for i := 0; i < int(pattern.NamedChildCount()); i++ {
		if binds(pattern.NamedChild(i), alias, code) {
			return true
		}
	}
	return false
}
