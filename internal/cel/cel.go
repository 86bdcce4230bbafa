package cel

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"
)

var ErrNotString = errors.New("expression does not evaluate to a string")

// Env is the environment key expressions are compiled in.
// The key being formatted is bound to the string variable "key".
var Env *cel.Env

func init() {
	initDefaultEnv()
}

func initDefaultEnv() {
	var err error
	Env, err = cel.NewEnv(cel.Variable("key", cel.StringType), ext.Strings())
	if err != nil {
		panic(fmt.Sprintf("failed to create default CEL environment: %v", err))
	}
}

// Parse compiles a key expression. Expressions must be statically typed as strings.
func Parse(expr string) (cel.Program, error) {
	ast, iss := Env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, iss.Err()
	}
	if out := ast.OutputType(); out.String() != cel.StringType.String() {
		return nil, fmt.Errorf("%w: got %s", ErrNotString, out)
	}
	return Env.Program(ast, cel.InterruptCheckFrequency(10))
}

func Eval(prgm cel.Program, key string) (string, error) {
	val, _, err := prgm.Eval(map[string]any{"key": key})
	if err != nil {
		return "", err
	}
	str, ok := val.Value().(string)
	if !ok {
		return "", ErrNotString
	}
	return str, nil
}
