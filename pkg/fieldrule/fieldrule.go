// Package fieldrule evaluates required-field rules for record dialogs.
// Rules are CEL expressions over a `fields` map of the dialog's scalar
// fields, e.g.:
//
//	fields["name"] != "" && fields["execution_date"] != ""
//
// Expressions come from the record-kind registry, so the required set
// per kind is configuration, not code.
package fieldrule

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
)

// RequiredExpr builds the rule requiring each named field to be
// present and non-empty. Registry entries without a hand-written rule
// use this form.
func RequiredExpr(names ...string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("(%q in fields && fields[%q] != \"\")", n, n)
	}
	return strings.Join(parts, " && ")
}

var newEnv = func() (*cel.Env, error) {
	return cel.NewEnv(cel.Variable("fields", cel.MapType(cel.StringType, cel.StringType)))
}

var programCache sync.Map

func compiledProgram(expr string) (cel.Program, error) {
	if cached, ok := programCache.Load(expr); ok {
		return cached.(cel.Program), nil
	}

	env, err := newEnv()
	if err != nil {
		return nil, err
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, iss.Err()
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	programCache.Store(expr, prg)
	return prg, nil
}

// Evaluate compiles (or reuses) the rule and evaluates it against the
// fields. A rule must produce a boolean.
func Evaluate(expr string, fields map[string]string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	prg, err := compiledProgram(expr)
	if err != nil {
		return false, err
	}

	if fields == nil {
		fields = map[string]string{}
	}
	out, _, err := prg.Eval(map[string]any{"fields": fields})
	if err != nil {
		return false, err
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, errors.New("fieldrule: rule did not evaluate to a boolean")
	}
	return ok, nil
}
