package template

import (
	"fmt"
	"strings"
)

// param describes one function parameter. A nil def marks it required.
type param struct {
	name string
	def  any
}

type funcSpec struct {
	name   string
	params []param
	impl   func(args map[string]any) (any, error)
}

// registry is the fixed, whitelisted function set. Templates cannot reach
// anything outside it and the render context.
var registry = map[string]*funcSpec{
	"replicate": {
		name:   "replicate",
		params: []param{{name: "s"}, {name: "n"}},
		impl: func(args map[string]any) (any, error) {
			s, err := argString(args, "s")
			if err != nil {
				return nil, err
			}
			n, err := argInt(args, "n")
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return "", nil
			}
			return strings.Repeat(s, n), nil
		},
	},
	"reverse": {
		name:   "reverse",
		params: []param{{name: "s"}},
		impl: func(args map[string]any) (any, error) {
			s, err := argString(args, "s")
			if err != nil {
				return nil, err
			}
			runes := []rune(s)
			for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
				runes[i], runes[j] = runes[j], runes[i]
			}
			return string(runes), nil
		},
	},
	"take": {
		name:   "take",
		params: []param{{name: "n"}, {name: "s"}},
		impl: func(args map[string]any) (any, error) {
			n, err := argInt(args, "n")
			if err != nil {
				return nil, err
			}
			s, err := argString(args, "s")
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return "", nil
			}
			runes := []rune(s)
			if n > len(runes) {
				n = len(runes)
			}
			return string(runes[:n]), nil
		},
	},
	"strlen": {
		name:   "strlen",
		params: []param{{name: "s"}},
		impl: func(args map[string]any) (any, error) {
			s, err := argString(args, "s")
			if err != nil {
				return nil, err
			}
			return len([]rune(s)), nil
		},
	},
	"mask_partial": {
		name: "mask_partial",
		params: []param{
			{name: "s"},
			{name: "l", def: 0},
			{name: "r", def: 0},
			{name: "c", def: "*"},
		},
		impl: func(args map[string]any) (any, error) {
			s, err := argString(args, "s")
			if err != nil {
				return nil, err
			}
			l, err := argInt(args, "l")
			if err != nil {
				return nil, err
			}
			r, err := argInt(args, "r")
			if err != nil {
				return nil, err
			}
			c, err := argString(args, "c")
			if err != nil {
				return nil, err
			}
			if l < 0 || r < 0 {
				return nil, fmt.Errorf("render template: mask_partial: negative keep count")
			}
			runes := []rune(s)
			if l+r >= len(runes) {
				return s, nil
			}
			masked := strings.Repeat(c, len(runes)-l-r)
			return string(runes[:l]) + masked + string(runes[len(runes)-r:]), nil
		},
	},
}

// bind resolves positional and named call arguments against the parameter
// list, applying defaults for omitted optional parameters.
func (f *funcSpec) bind(args []callArg, ctx map[string]any) (map[string]any, error) {
	bound := make(map[string]any, len(f.params))
	positional := 0
	for _, a := range args {
		name := a.name
		if name == "" {
			if positional >= len(f.params) {
				return nil, fmt.Errorf("render template: %s: too many arguments", f.name)
			}
			name = f.params[positional].name
			positional++
		} else if !f.hasParam(name) {
			return nil, fmt.Errorf("render template: %s: unknown argument %q", f.name, name)
		}
		if _, dup := bound[name]; dup {
			return nil, fmt.Errorf("render template: %s: duplicate argument %q", f.name, name)
		}
		v, err := a.val.eval(ctx)
		if err != nil {
			return nil, err
		}
		bound[name] = v
	}
	for _, p := range f.params {
		if _, ok := bound[p.name]; ok {
			continue
		}
		if p.def == nil {
			return nil, fmt.Errorf("render template: %s: missing argument %q", f.name, p.name)
		}
		bound[p.name] = p.def
	}
	return bound, nil
}

func (f *funcSpec) hasParam(name string) bool {
	for _, p := range f.params {
		if p.name == name {
			return true
		}
	}
	return false
}

func argString(args map[string]any, name string) (string, error) {
	v, ok := args[name].(string)
	if !ok {
		return "", fmt.Errorf("render template: argument %q must be a string", name)
	}
	return v, nil
}

func argInt(args map[string]any, name string) (int, error) {
	v, ok := args[name].(int)
	if !ok {
		return 0, fmt.Errorf("render template: argument %q must be an integer", name)
	}
	return v, nil
}
