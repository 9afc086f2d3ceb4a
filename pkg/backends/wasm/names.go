package wasm

import "ion-lang/ionc/pkg/ion/ast"

// watType maps an Ion type annotation to its value type. Strings have no
// representation in the numeric subset and collapse to a placeholder i32.
func watType(t *ast.TypeRef) string {
	if t == nil {
		return "i32"
	}
	switch t.Name {
	case "float":
		return "f64"
	default:
		return "i32"
	}
}

// watResult renders a function's (result ...) arity: Result types lower to
// a multivalue (tag, payload) pair.
func watResult(t *ast.TypeRef) string {
	if t.IsResult() && len(t.Args) == 2 {
		return "i32 " + watType(t.Args[0])
	}
	return watType(t)
}

func isComparison(op string) bool {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
		return true
	}
	return false
}

var i32Ops = map[string]string{
	"+":  "i32.add",
	"-":  "i32.sub",
	"*":  "i32.mul",
	"/":  "i32.div_s",
	"%":  "i32.rem_s",
	"==": "i32.eq",
	"!=": "i32.ne",
	"<":  "i32.lt_s",
	"<=": "i32.le_s",
	">":  "i32.gt_s",
	">=": "i32.ge_s",
	"&&": "i32.and",
	"||": "i32.or",
}

var f64Ops = map[string]string{
	"+":  "f64.add",
	"-":  "f64.sub",
	"*":  "f64.mul",
	"/":  "f64.div",
	"==": "f64.eq",
	"!=": "f64.ne",
	"<":  "f64.lt",
	"<=": "f64.le",
	">":  "f64.gt",
	">=": "f64.ge",
}

func watOp(valType, op string) (string, bool) {
	if valType == "f64" {
		got, ok := f64Ops[op]
		return got, ok
	}
	got, ok := i32Ops[op]
	return got, ok
}
