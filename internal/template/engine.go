// Package template implements the sandboxed redaction template engine.
//
// A template is plain text with {{ ... }} interpolations and
// {% if x %} ... {% else %} ... {% endif %} blocks. Interpolations may
// reference context variables, string/int literals, or one of the
// whitelisted functions in funcs.go. Nothing outside the supplied context
// map is reachable from a template.
package template

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Context variable names made available by the secret value core.
const (
	VarSecretType   = "secret_type"
	VarSecretLength = "secret_length"
	VarSecretString = "secret_string"
)

// Compiled is a parsed template ready for rendering.
type Compiled struct {
	src   string
	nodes []node
}

// Source returns the original template string.
func (c *Compiled) Source() string { return c.src }

// References reports whether the template mentions the named variable
// anywhere, including inside call arguments and conditional branches.
// Callers use it to decide whether the raw secret has to enter the
// render context at all.
func (c *Compiled) References(name string) bool {
	return nodesReference(c.nodes, name)
}

func nodesReference(nodes []node, name string) bool {
	for _, n := range nodes {
		switch t := n.(type) {
		case exprNode:
			if exprReferences(t.e, name) {
				return true
			}
		case ifNode:
			if t.cond == name || nodesReference(t.then, name) || nodesReference(t.els, name) {
				return true
			}
		}
	}
	return false
}

func exprReferences(e expression, name string) bool {
	switch t := e.(type) {
	case varExpr:
		return t.name == name
	case callExpr:
		if t.name == name {
			return true
		}
		for _, a := range t.args {
			if exprReferences(a.val, name) {
				return true
			}
		}
	}
	return false
}

type node interface{ render(b *strings.Builder, ctx map[string]any) error }

type textNode string

type exprNode struct{ e expression }

type ifNode struct {
	cond string
	then []node
	els  []node
}

type expression interface{ eval(ctx map[string]any) (any, error) }

type varExpr struct{ name string }

type strLit struct{ val string }

type intLit struct{ val int }

type callExpr struct {
	name string
	args []callArg
}

type callArg struct {
	name string // empty for positional
	val  expression
}

// Compile parses src against the fixed grammar. Referencing a variable that
// may be absent at render time is not a compile error; calling a function
// outside the registry is.
func Compile(src string) (*Compiled, error) {
	nodes, rest, err := parseNodes(src, false)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, fmt.Errorf("compile template: unexpected %q", firstTag(rest))
	}
	return &Compiled{src: src, nodes: nodes}, nil
}

// Render evaluates the template against ctx. Missing variables and bad
// function arguments are render errors.
func (c *Compiled) Render(ctx map[string]any) (string, error) {
	var b strings.Builder
	for _, n := range c.nodes {
		if err := n.render(&b, ctx); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// SampleContext is the representative context used to validate global
// templates at configuration time.
func SampleContext() map[string]any {
	return map[string]any{
		VarSecretType:   "string",
		VarSecretLength: 10,
		VarSecretString: "test_secret",
	}
}

// Validate compiles src and renders it against SampleContext. Used for
// global/default templates only; instance templates degrade to the
// fallback at render time instead.
func Validate(src string) error {
	c, err := Compile(src)
	if err != nil {
		return err
	}
	if _, err := c.Render(SampleContext()); err != nil {
		return fmt.Errorf("validate template: %w", err)
	}
	return nil
}

// parseNodes consumes src until EOF or, when inBlock is set, until an
// {% else %} or {% endif %} tag, which is left in rest.
func parseNodes(src string, inBlock bool) (nodes []node, rest string, err error) {
	for src != "" {
		openExpr := strings.Index(src, "{{")
		openTag := strings.Index(src, "{%")
		next := openExpr
		if next < 0 || (openTag >= 0 && openTag < next) {
			next = openTag
		}
		if next < 0 {
			nodes = append(nodes, textNode(src))
			src = ""
			break
		}
		if next > 0 {
			nodes = append(nodes, textNode(src[:next]))
			src = src[next:]
		}
		if strings.HasPrefix(src, "{{") {
			end := strings.Index(src, "}}")
			if end < 0 {
				return nil, "", fmt.Errorf("compile template: unclosed {{")
			}
			e, perr := parseExpression(strings.TrimSpace(src[2:end]))
			if perr != nil {
				return nil, "", perr
			}
			nodes = append(nodes, exprNode{e: e})
			src = src[end+2:]
			continue
		}
		// {% ... %} tag
		end := strings.Index(src, "%}")
		if end < 0 {
			return nil, "", fmt.Errorf("compile template: unclosed {%%")
		}
		tag := strings.TrimSpace(src[2:end])
		src = src[end+2:]
		switch {
		case strings.HasPrefix(tag, "if "):
			cond := strings.TrimSpace(strings.TrimPrefix(tag, "if "))
			if !isIdent(cond) {
				return nil, "", fmt.Errorf("compile template: bad if condition %q", cond)
			}
			blk := ifNode{cond: cond}
			var tail string
			blk.then, tail, err = parseNodes(src, true)
			if err != nil {
				return nil, "", err
			}
			if strings.HasPrefix(tail, "else") {
				blk.els, tail, err = parseNodes(strings.TrimPrefix(tail, "else"), true)
				if err != nil {
					return nil, "", err
				}
			}
			if !strings.HasPrefix(tail, "endif") {
				return nil, "", fmt.Errorf("compile template: missing {%% endif %%}")
			}
			src = strings.TrimPrefix(tail, "endif")
			nodes = append(nodes, blk)
		case tag == "else", tag == "endif":
			if !inBlock {
				return nil, "", fmt.Errorf("compile template: %q outside if block", tag)
			}
			return nodes, tag + src, nil
		default:
			return nil, "", fmt.Errorf("compile template: unknown tag %q", tag)
		}
	}
	if inBlock {
		return nil, "", fmt.Errorf("compile template: missing {%% endif %%}")
	}
	return nodes, src, nil
}

func firstTag(s string) string {
	if len(s) > 16 {
		return s[:16]
	}
	return s
}

func (t textNode) render(b *strings.Builder, _ map[string]any) error {
	b.WriteString(string(t))
	return nil
}

func (n exprNode) render(b *strings.Builder, ctx map[string]any) error {
	v, err := n.e.eval(ctx)
	if err != nil {
		return err
	}
	b.WriteString(stringify(v))
	return nil
}

func (n ifNode) render(b *strings.Builder, ctx map[string]any) error {
	branch := n.els
	// An undefined condition variable is simply falsy, so templates can
	// test for the presence of optional context entries.
	if v, ok := ctx[n.cond]; ok && truthy(v) {
		branch = n.then
	}
	for _, c := range branch {
		if err := c.render(b, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (v varExpr) eval(ctx map[string]any) (any, error) {
	val, ok := ctx[v.name]
	if !ok {
		return nil, fmt.Errorf("render template: undefined variable %q", v.name)
	}
	return val, nil
}

func (s strLit) eval(map[string]any) (any, error) { return s.val, nil }

func (i intLit) eval(map[string]any) (any, error) { return i.val, nil }

func (c callExpr) eval(ctx map[string]any) (any, error) {
	// secret_string() is sugar for the secret_string context variable; it
	// resolves only when the caller put the raw value into the context.
	if c.name == VarSecretString && len(c.args) == 0 {
		return varExpr{name: VarSecretString}.eval(ctx)
	}
	spec, ok := registry[c.name]
	if !ok {
		return nil, fmt.Errorf("render template: unknown function %q", c.name)
	}
	bound, err := spec.bind(c.args, ctx)
	if err != nil {
		return nil, err
	}
	return spec.impl(bound)
}

// parseExpression parses a single interpolation body: a variable reference,
// a literal, or a function call.
func parseExpression(s string) (expression, error) {
	if s == "" {
		return nil, fmt.Errorf("compile template: empty expression")
	}
	if s[0] == '"' || s[0] == '\'' || s[0] == '-' || unicode.IsDigit(rune(s[0])) {
		return parsePrimary(s)
	}
	if open := strings.IndexByte(s, '('); open >= 0 {
		name := strings.TrimSpace(s[:open])
		if !isIdent(name) {
			return nil, fmt.Errorf("compile template: bad function name %q", name)
		}
		if !strings.HasSuffix(s, ")") {
			return nil, fmt.Errorf("compile template: unclosed call %q", s)
		}
		if _, ok := registry[name]; !ok && name != VarSecretString {
			return nil, fmt.Errorf("compile template: unknown function %q", name)
		}
		args, err := parseArgs(s[open+1 : len(s)-1])
		if err != nil {
			return nil, err
		}
		return callExpr{name: name, args: args}, nil
	}
	return parsePrimary(s)
}

func parsePrimary(s string) (expression, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("compile template: empty expression")
	}
	if s[0] == '"' || s[0] == '\'' {
		if len(s) < 2 || s[len(s)-1] != s[0] {
			return nil, fmt.Errorf("compile template: unterminated string %q", s)
		}
		return strLit{val: s[1 : len(s)-1]}, nil
	}
	if s[0] == '-' || unicode.IsDigit(rune(s[0])) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("compile template: bad number %q", s)
		}
		return intLit{val: n}, nil
	}
	if !isIdent(s) {
		return nil, fmt.Errorf("compile template: bad expression %q", s)
	}
	return varExpr{name: s}, nil
}

// parseArgs splits a call argument list on commas outside quotes and parses
// each piece as positional (expr) or named (ident=expr).
func parseArgs(s string) ([]callArg, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var args []callArg
	for _, part := range splitArgs(s) {
		part = strings.TrimSpace(part)
		name := ""
		if eq := indexUnquoted(part, '='); eq >= 0 {
			candidate := strings.TrimSpace(part[:eq])
			if isIdent(candidate) {
				name = candidate
				part = strings.TrimSpace(part[eq+1:])
			}
		}
		e, err := parseExpression(part)
		if err != nil {
			return nil, err
		}
		args = append(args, callArg{name: name, val: e})
	}
	return args, nil
}

func splitArgs(s string) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func indexUnquoted(s string, target byte) int {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == target:
			return i
		}
	}
	return -1
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case string:
		return t != ""
	case int:
		return t != 0
	case bool:
		return t
	default:
		return v != nil
	}
}
