package routing

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

const (
	maxExpressionLength = 1024
	maxCostBudget       = 10_000
)

var celEnv = sync.OnceValues(func() (*cel.Env, error) {
	return cel.NewEnv(cel.Variable("value", cel.DynType))
})

// Expr compiles a CEL expression into a predicate. The attribute value is available as
// the variable `value`: a string for path segments and enums, a list of strings for
// everything else. For example:
//
//	value.startsWith("v2")
//	"admin" in value
//
// Evaluation errors and non-boolean results are treated as a mismatch.
func Expr(expression string) (Predicate, error) {
	if len(expression) == 0 {
		return nil, fmt.Errorf("%w: empty expression", ErrBadExpression)
	}

	if len(expression) > maxExpressionLength {
		return nil, fmt.Errorf("%w: expression too long: %d characters (max %d)",
			ErrBadExpression, len(expression), maxExpressionLength)
	}

	env, err := celEnv()
	if err != nil {
		return nil, err
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadExpression, issues.Err())
	}

	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("%w: %q returns %s, not bool", ErrBadExpression, expression, out)
	}

	prg, err := env.Program(ast,
		cel.EvalOptions(cel.OptOptimize),
		cel.CostLimit(maxCostBudget),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadExpression, err)
	}

	return func(value any) bool {
		if _, ok := value.(fmt.Stringer); ok {
			value = texts(value)[0]
		}

		out, _, err := prg.Eval(map[string]any{"value": value})
		if err != nil {
			return false
		}

		result, ok := out.Value().(bool)
		return ok && result
	}, nil
}
