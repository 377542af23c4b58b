package parser

import (
	"testing"

	"github.com/lyralang/lyra/internal/ast"
	"github.com/lyralang/lyra/internal/lexer"
)

func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(lexer.New(src), "test.lyra")
	program := p.ParseProgram()
	if len(p.Diagnostics()) > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Diagnostics())
	}
	return program
}

func TestParseFunctionDeclaration(t *testing.T) {
	program := parseSource(t, `private fun <T : Base> Int.tag(x: T, vararg rest: Int = 0): T = x`)
	if len(program.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(program.Statements))
	}
	fd, ok := program.Statements[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("statement is %T, want *ast.FunctionDeclaration", program.Statements[0])
	}
	if !fd.Private {
		t.Error("expected private function")
	}
	if fd.Name.Value != "tag" {
		t.Errorf("name = %q, want tag", fd.Name.Value)
	}
	if fd.Receiver == nil {
		t.Fatal("expected extension receiver")
	}
	if len(fd.TypeParams) != 1 || fd.TypeParams[0].Name.Value != "T" {
		t.Fatalf("type params = %v", fd.TypeParams)
	}
	if len(fd.TypeParams[0].UpperBounds) != 1 {
		t.Fatal("expected one upper bound on T")
	}
	if len(fd.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(fd.Params))
	}
	if !fd.Params[1].Vararg || fd.Params[1].Default == nil {
		t.Error("second parameter should be a vararg with a default")
	}
}

func TestParseClassWithSuperConstructor(t *testing.T) {
	program := parseSource(t, `abstract class Shape(val id: Int) : Entity(id) { fun area(): Int = 0 }`)
	cd, ok := program.Statements[0].(*ast.ClassDeclaration)
	if !ok {
		t.Fatalf("statement is %T", program.Statements[0])
	}
	if !cd.Abstract {
		t.Error("expected abstract class")
	}
	if len(cd.CtorParams) != 1 || !cd.CtorParams[0].IsVal {
		t.Fatal("expected one val constructor parameter")
	}
	if len(cd.Supertypes) != 1 || cd.Supertypes[0].Call == nil {
		t.Fatal("expected supertype with constructor call")
	}
	if _, ok := cd.Supertypes[0].Call.Callee.(*ast.ConstructorCallee); !ok {
		t.Errorf("super call callee is %T, want *ast.ConstructorCallee", cd.Supertypes[0].Call.Callee)
	}
	if len(cd.Members) != 1 || cd.Members[0].Name.Value != "area" {
		t.Fatal("expected member function area")
	}
}

func TestParseCallArguments(t *testing.T) {
	program := parseSource(t, `f<Int>(1, name = 2, *rest)`)
	es := program.Statements[0].(*ast.ExpressionStatement)
	call, ok := es.Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expression is %T", es.Expression)
	}
	if len(call.TypeArgs) != 1 {
		t.Fatalf("got %d type args, want 1", len(call.TypeArgs))
	}
	if len(call.Args) != 3 {
		t.Fatalf("got %d args, want 3", len(call.Args))
	}
	if call.Args[1].Name == nil || call.Args[1].Name.Value != "name" {
		t.Error("second argument should be named 'name'")
	}
	if !call.Args[2].Spread {
		t.Error("third argument should be a spread")
	}
}

func TestParseSafeCall(t *testing.T) {
	program := parseSource(t, `box?.unwrap()`)
	es := program.Statements[0].(*ast.ExpressionStatement)
	call := es.Expression.(*ast.CallExpression)
	if !call.Safe {
		t.Error("call through ?. should be marked safe")
	}
	member := call.Callee.(*ast.MemberExpression)
	if !member.Safe || member.Member.Value != "unwrap" {
		t.Errorf("callee = %v", member)
	}
}

func TestParseTrailingLambdaSameLineOnly(t *testing.T) {
	program := parseSource(t, "run(1) { x -> x }")
	es := program.Statements[0].(*ast.ExpressionStatement)
	call := es.Expression.(*ast.CallExpression)
	if len(call.FunctionLiterals) != 1 {
		t.Fatalf("got %d trailing literals, want 1", len(call.FunctionLiterals))
	}
	if len(call.FunctionLiterals[0].Params) != 1 {
		t.Error("trailing literal should have one parameter")
	}

	// On a new line the block is not an argument.
	program = parseSource(t, "run(1)\n{ x -> x }")
	es = program.Statements[0].(*ast.ExpressionStatement)
	call = es.Expression.(*ast.CallExpression)
	if len(call.FunctionLiterals) != 0 {
		t.Error("block on its own line must not bind as a trailing literal")
	}
	if len(program.Statements) != 2 {
		t.Errorf("got %d statements, want 2", len(program.Statements))
	}
}

func TestParseCallSuffixSameLineOnly(t *testing.T) {
	program := parseSource(t, "val h: (Int) -> Int = { x -> x }\n(h)(1)")
	if len(program.Statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(program.Statements))
	}
	es := program.Statements[1].(*ast.ExpressionStatement)
	call, ok := es.Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("second statement is %T, want a call", es.Expression)
	}
	if _, ok := call.Callee.(*ast.ParenExpression); !ok {
		t.Errorf("callee is %T, want *ast.ParenExpression", call.Callee)
	}

	// A '(' on a new line opens a fresh statement, not an invocation.
	program = parseSource(t, "run(1)\n(2)")
	if len(program.Statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(program.Statements))
	}
}

func TestParseInvokeOnExpression(t *testing.T) {
	program := parseSource(t, `(getF())(1)`)
	es := program.Statements[0].(*ast.ExpressionStatement)
	call := es.Expression.(*ast.CallExpression)
	if _, ok := call.Callee.(*ast.ParenExpression); !ok {
		t.Errorf("callee is %T, want *ast.ParenExpression", call.Callee)
	}
}

func TestParseNullableTypes(t *testing.T) {
	program := parseSource(t, `fun f(x: List<Int?>?, g: ((Int) -> Int)?): Unit = unit`)
	fd := program.Statements[0].(*ast.FunctionDeclaration)
	outer := fd.Params[0].Type.(*ast.NamedType)
	if !outer.Nullable {
		t.Error("outer type should be nullable")
	}
	inner := outer.Args[0].(*ast.NamedType)
	if !inner.Nullable || inner.Name.Value != "Int" {
		t.Errorf("inner type = %v", inner)
	}
	fn := fd.Params[1].Type.(*ast.FunctionType)
	if !fn.Nullable {
		t.Error("function type should be nullable")
	}
}
