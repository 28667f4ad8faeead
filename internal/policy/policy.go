// Package policy evaluates wrap-time policy rules over secret metadata.
// Rules are boolean expressions compiled once against a fixed environment
// of secret_type and secret_length; they never see the payload itself.
package policy

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/arjun-29/veil/internal/config"
	"github.com/arjun-29/veil/internal/secret"
	"github.com/arjun-29/veil/internal/types"
)

// Env defines the variables available during rule evaluation.
type Env struct {
	SecretType   string `expr:"secret_type"`
	SecretLength int    `expr:"secret_length"`
}

type rule struct {
	name    string
	program *vm.Program
}

// Engine holds the compiled rule set.
type Engine struct {
	rules []rule
}

// Compile builds an engine from configured rules. A rule that does not
// compile, or does not evaluate to a boolean, is a configuration error.
func Compile(rules []config.PolicyRule) (*Engine, error) {
	e := &Engine{}
	for _, r := range rules {
		program, err := expr.Compile(r.Expr, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile policy rule %q: %w", r.Name, err)
		}
		e.rules = append(e.rules, rule{name: r.Name, program: program})
	}
	return e, nil
}

// Violations returns the names of rules the value's metadata fails.
func (e *Engine) Violations(v secret.Value) ([]string, error) {
	env := Env{SecretType: string(v.Kind())}
	if n, ok := secret.Length(v); ok {
		env.SecretLength = n
	}
	var failed []string
	for _, r := range e.rules {
		out, err := expr.Run(r.program, env)
		if err != nil {
			return nil, fmt.Errorf("evaluate policy rule %q: %w", r.name, err)
		}
		if ok, _ := out.(bool); !ok {
			failed = append(failed, r.name)
		}
	}
	return failed, nil
}

// Enforce applies the security level to the rule results: paranoid blocks,
// standard warns, minimal ignores. The returned warnings are rule names.
func (e *Engine) Enforce(level types.SecurityLevel, v secret.Value) ([]string, error) {
	if level == types.SecurityMinimal {
		return nil, nil
	}
	failed, err := e.Violations(v)
	if err != nil {
		return nil, err
	}
	if len(failed) == 0 {
		return nil, nil
	}
	if level == types.SecurityParanoid {
		return nil, fmt.Errorf("policy violation: %v", failed)
	}
	return failed, nil
}
