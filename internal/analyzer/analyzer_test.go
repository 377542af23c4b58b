package analyzer

import (
	"context"
	"testing"

	"github.com/lyralang/lyra/internal/ast"
	"github.com/lyralang/lyra/internal/config"
	"github.com/lyralang/lyra/internal/diagnostics"
	"github.com/lyralang/lyra/internal/lexer"
	"github.com/lyralang/lyra/internal/parser"
	"github.com/lyralang/lyra/internal/symbols"
	"github.com/lyralang/lyra/internal/typesystem"
)

func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.New(lexer.New(src), "test.lyra")
	program := p.ParseProgram()
	if diags := p.Diagnostics(); len(diags) > 0 {
		t.Fatalf("parse errors: %v", diags)
	}
	return program
}

func analyzeSource(t *testing.T, src string) (*Engine, *BindingTrace, *ast.Program) {
	t.Helper()
	program := parseSource(t, src)
	eng := NewEngine(&config.Config{}, "test.lyra")
	trace := NewBindingTrace()
	if err := eng.Analyze(context.Background(), program, trace); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	return eng, trace, program
}

func callExprAt(t *testing.T, program *ast.Program, index int) *ast.CallExpression {
	t.Helper()
	stmt, ok := program.Statements[index].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("statement %d is %T, want expression statement", index, program.Statements[index])
	}
	call, ok := stmt.Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("statement %d is %T, want call", index, stmt.Expression)
	}
	return call
}

func hasDiagnostic(trace *BindingTrace, code diagnostics.Code) bool {
	for _, d := range trace.Diagnostics() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func errorCount(trace *BindingTrace) int {
	n := 0
	for _, d := range trace.Diagnostics() {
		if d.Severity == diagnostics.SeverityError {
			n++
		}
	}
	return n
}

func typeOf(t *testing.T, trace *BindingTrace, expr ast.Expression) typesystem.Type {
	t.Helper()
	typ, ok := trace.TypeOf(expr)
	if !ok {
		t.Fatalf("no type recorded for %T", expr)
	}
	return typ
}

func TestResolvesSimpleCall(t *testing.T) {
	_, trace, program := analyzeSource(t, `
fun f(x: Int): Int = x
f(1)
`)
	call := callExprAt(t, program, 1)
	rc, ok := trace.CallFor(call)
	if !ok {
		t.Fatal("no resolved call recorded")
	}
	if rc.Candidate.Name != "f" || !rc.Status.IsSuccess() {
		t.Fatalf("got candidate %v with status %v", rc.Candidate, rc.Status)
	}
	if got := typeOf(t, trace, call); !typesystem.Equal(got, typesystem.IntType()) {
		t.Fatalf("call type = %v, want Int", got)
	}
	if n := errorCount(trace); n != 0 {
		t.Fatalf("expected no errors, got %d: %v", n, trace.Diagnostics())
	}
}

func TestSpecificityPrefersSubtypeParameter(t *testing.T) {
	_, trace, program := analyzeSource(t, `
fun f(x: Any): String = "a"
fun f(x: Int): Int = x
f(1)
`)
	call := callExprAt(t, program, 2)
	rc, ok := trace.CallFor(call)
	if !ok {
		t.Fatal("no resolved call recorded")
	}
	if !typesystem.Equal(rc.Candidate.Params[0].Type, typesystem.IntType()) {
		t.Fatalf("resolved to f(%v), want f(Int)", rc.Candidate.Params[0].Type)
	}
	if hasDiagnostic(trace, diagnostics.CodeOverloadAmbiguity) {
		t.Fatal("specific overload pair must not be ambiguous")
	}
}

func TestNonGenericBeatsGenericOnTie(t *testing.T) {
	_, trace, program := analyzeSource(t, `
fun g(x: Int): Int = x
fun <T> g(x: T): T = x
g(1)
`)
	call := callExprAt(t, program, 2)
	rc, ok := trace.CallFor(call)
	if !ok {
		t.Fatal("no resolved call recorded")
	}
	if rc.Candidate.IsGeneric() {
		t.Fatal("resolved to the generic overload, want the non-generic one")
	}
}

func TestTrueAmbiguityReported(t *testing.T) {
	_, trace, program := analyzeSource(t, `
fun h(a: Int, b: Any): Int = a
fun h(a: Any, b: Int): Int = b
h(1, 2)
`)
	if !hasDiagnostic(trace, diagnostics.CodeOverloadAmbiguity) {
		t.Fatalf("expected ambiguity, diagnostics: %v", trace.Diagnostics())
	}
	call := callExprAt(t, program, 2)
	if _, ok := trace.CallFor(call); ok {
		t.Fatal("ambiguous call must not commit a resolved candidate")
	}
}

func TestInferenceRoundTrip(t *testing.T) {
	_, trace, program := analyzeSource(t, `
fun <T> id(x: T): T = x
id(5)
`)
	call := callExprAt(t, program, 1)
	rc, ok := trace.CallFor(call)
	if !ok {
		t.Fatal("no resolved call recorded")
	}
	arg, solved := rc.TypeArguments["T"]
	if !solved || !typesystem.Equal(arg, typesystem.IntType()) {
		t.Fatalf("T = %v, want Int", arg)
	}
	if got := typeOf(t, trace, call); !typesystem.Equal(got, typesystem.IntType()) {
		t.Fatalf("call type = %v, want Int", got)
	}
}

func TestExpectedTypeFallbackMarksInferenceError(t *testing.T) {
	_, trace, program := analyzeSource(t, `
fun <T> pick(a: T, b: T): T = a
val s: String = pick(1, 2)
`)
	if !hasDiagnostic(trace, diagnostics.CodeTypeInferenceFailed) {
		t.Fatalf("expected inference failure, diagnostics: %v", trace.Diagnostics())
	}
	vd := program.Statements[1].(*ast.ValDeclaration)
	// The phase-one solution survives the failed expected-type pass.
	if got := typeOf(t, trace, vd.Value); !typesystem.Equal(got, typesystem.IntType()) {
		t.Fatalf("fallback type = %v, want Int", got)
	}
}

func TestLambdaArgumentDrivesInference(t *testing.T) {
	_, trace, program := analyzeSource(t, `
fun <T, R> apply(x: T, f: (T) -> R): R = f(x)
apply(5) { x -> x }
`)
	call := callExprAt(t, program, 1)
	if got := typeOf(t, trace, call); !typesystem.Equal(got, typesystem.IntType()) {
		t.Fatalf("call type = %v, want Int", got)
	}
	if n := errorCount(trace); n != 0 {
		t.Fatalf("expected clean inference, got: %v", trace.Diagnostics())
	}
}

func TestExplicitTypeArguments(t *testing.T) {
	_, trace, program := analyzeSource(t, `
fun <T> id(x: T): T = x
id<String>("a")
`)
	call := callExprAt(t, program, 1)
	if got := typeOf(t, trace, call); !typesystem.Equal(got, typesystem.StringType()) {
		t.Fatalf("call type = %v, want String", got)
	}

	_, trace2, _ := analyzeSource(t, `
fun <T> id(x: T): T = x
id<String>(5)
`)
	if !hasDiagnostic(trace2, diagnostics.CodeTypeMismatch) {
		t.Fatalf("expected type mismatch, diagnostics: %v", trace2.Diagnostics())
	}

	_, trace3, _ := analyzeSource(t, `
fun <T> id(x: T): T = x
id<String, Int>("a")
`)
	if !hasDiagnostic(trace3, diagnostics.CodeWrongTypeArgumentCount) {
		t.Fatalf("expected arity error, diagnostics: %v", trace3.Diagnostics())
	}
}

func TestUpperBoundViolated(t *testing.T) {
	_, trace, _ := analyzeSource(t, `
fun <T : Number> half(x: T): T = x
half("nope")
`)
	if !hasDiagnostic(trace, diagnostics.CodeUpperBoundViolated) {
		t.Fatalf("expected bound violation, diagnostics: %v", trace.Diagnostics())
	}
}

func TestDefaultAndVarargMapping(t *testing.T) {
	_, trace, program := analyzeSource(t, `
fun g(x: Int, y: Int = 1, vararg rest: Int): Int = x
g(7)
g(1, 2, 3, 4)
`)
	call := callExprAt(t, program, 1)
	rc, ok := trace.CallFor(call)
	if !ok {
		t.Fatal("no resolved call for g(7)")
	}
	if len(rc.Defaulted) != 1 || rc.Defaulted[0].Name != "y" {
		t.Fatalf("defaulted = %v, want [y]", rc.Defaulted)
	}
	if n := errorCount(trace); n != 0 {
		t.Fatalf("expected both calls to map, got: %v", trace.Diagnostics())
	}
}

func TestMissingArgumentReported(t *testing.T) {
	_, trace, _ := analyzeSource(t, `
fun g(x: Int, y: String): Int = x
g(1)
`)
	if !hasDiagnostic(trace, diagnostics.CodeNoValueForParameter) {
		t.Fatalf("expected missing-argument error, diagnostics: %v", trace.Diagnostics())
	}
}

func TestNamedArguments(t *testing.T) {
	_, trace, program := analyzeSource(t, `
fun n(a: Int, b: String): Int = a
n(b = "x", a = 1)
`)
	call := callExprAt(t, program, 1)
	if _, ok := trace.CallFor(call); !ok {
		t.Fatalf("named call did not resolve: %v", trace.Diagnostics())
	}
	if n := errorCount(trace); n != 0 {
		t.Fatalf("unexpected errors: %v", trace.Diagnostics())
	}

	_, trace2, _ := analyzeSource(t, `
fun n(a: Int, b: String): Int = a
n(1, a = 2)
`)
	if !hasDiagnostic(trace2, diagnostics.CodeArgumentPassedTwice) {
		t.Fatalf("expected argument-passed-twice, diagnostics: %v", trace2.Diagnostics())
	}

	_, trace3, _ := analyzeSource(t, `
fun n(a: Int): Int = a
n(c = 1)
`)
	if !hasDiagnostic(trace3, diagnostics.CodeNamedParameterNotFound) {
		t.Fatalf("expected unknown named parameter, diagnostics: %v", trace3.Diagnostics())
	}
}

func TestSpreadToNonVararg(t *testing.T) {
	_, trace, _ := analyzeSource(t, `
fun s(x: Int): Int = x
fun caller(xs: Int): Int = s(*xs)
`)
	if !hasDiagnostic(trace, diagnostics.CodeSpreadToNonVararg) {
		t.Fatalf("expected spread error, diagnostics: %v", trace.Diagnostics())
	}
}

func TestMemberBeatsExtension(t *testing.T) {
	_, trace, program := analyzeSource(t, `
class A() {
	fun m(): Int = 1
}
fun A.m(): String = "s"
val a = A()
a.m()
`)
	call := callExprAt(t, program, 3)
	if got := typeOf(t, trace, call); !typesystem.Equal(got, typesystem.IntType()) {
		t.Fatalf("call type = %v, want Int from the member", got)
	}
}

func TestExtensionResolution(t *testing.T) {
	_, trace, program := analyzeSource(t, `
class A() {
}
fun A.twice(x: Int): Int = x
val a = A()
a.twice(3)
`)
	call := callExprAt(t, program, 3)
	rc, ok := trace.CallFor(call)
	if !ok {
		t.Fatalf("extension call did not resolve: %v", trace.Diagnostics())
	}
	if rc.Candidate.Receiver == nil {
		t.Fatal("resolved candidate is not an extension")
	}
}

func TestWrongReceiverReported(t *testing.T) {
	_, trace, _ := analyzeSource(t, `
class A() {
}
fun String.shout(): String = "s"
val a = A()
a.shout()
`)
	if !hasDiagnostic(trace, diagnostics.CodeWrongReceiverType) {
		t.Fatalf("expected receiver error, diagnostics: %v", trace.Diagnostics())
	}
}

func TestUnsafeCallOnNullableReceiver(t *testing.T) {
	_, trace, _ := analyzeSource(t, `
class A() {
	fun m(): Int = 1
}
fun f(a: A?): Int = a.m()
`)
	if !hasDiagnostic(trace, diagnostics.CodeUnsafeCall) {
		t.Fatalf("expected unsafe-call error, diagnostics: %v", trace.Diagnostics())
	}
}

func TestSafeCallSuppressesUnsafeError(t *testing.T) {
	_, trace, program := analyzeSource(t, `
class A() {
	fun m(): Int = 1
}
fun f(a: A?): Int? = a?.m()
`)
	if hasDiagnostic(trace, diagnostics.CodeUnsafeCall) {
		t.Fatalf("safe call must suppress the unsafe-call error: %v", trace.Diagnostics())
	}
	fn := program.Statements[1].(*ast.FunctionDeclaration)
	body := fn.Body.(*ast.CallExpression)
	got := typeOf(t, trace, body)
	if !got.IsNullable() {
		t.Fatalf("safe call on nullable receiver must be nullable, got %v", got)
	}
}

func TestUnnecessarySafeCallWarned(t *testing.T) {
	_, trace, _ := analyzeSource(t, `
class A() {
	fun m(): Int = 1
}
fun f(a: A): Int? = a?.m()
`)
	if !hasDiagnostic(trace, diagnostics.CodeUnnecessarySafeCall) {
		t.Fatalf("expected unnecessary-safe-call warning, diagnostics: %v", trace.Diagnostics())
	}
}

func TestUnnecessarySafeCallGateable(t *testing.T) {
	program := parseSource(t, `
class A() {
	fun m(): Int = 1
}
fun f(a: A): Int? = a?.m()
`)
	off := false
	cfg := &config.Config{}
	cfg.Warnings.UnnecessarySafeCall = &off
	eng := NewEngine(cfg, "test.lyra")
	trace := NewBindingTrace()
	if err := eng.Analyze(context.Background(), program, trace); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if hasDiagnostic(trace, diagnostics.CodeUnnecessarySafeCall) {
		t.Fatal("warning must be suppressed by configuration")
	}
}

func TestConstructorCall(t *testing.T) {
	_, trace, program := analyzeSource(t, `
class Point(val x: Int, val y: Int) {
}
Point(1, 2)
`)
	call := callExprAt(t, program, 1)
	got := typeOf(t, trace, call)
	con, ok := got.(typesystem.TCon)
	if !ok || con.Name != "Point" {
		t.Fatalf("constructor call type = %v, want Point", got)
	}
}

func TestGenericConstructorInference(t *testing.T) {
	_, trace, program := analyzeSource(t, `
class Box<T>(val v: T) {
	fun get(): T = v
}
val b = Box(1)
b.get()
`)
	call := callExprAt(t, program, 2)
	if got := typeOf(t, trace, call); !typesystem.Equal(got, typesystem.IntType()) {
		t.Fatalf("Box<Int>.get() = %v, want Int", got)
	}
}

func TestAbstractClassInstantiated(t *testing.T) {
	_, trace, _ := analyzeSource(t, `
abstract class B() {
}
B()
`)
	if !hasDiagnostic(trace, diagnostics.CodeAbstractClassInstantiated) {
		t.Fatalf("expected abstract instantiation error, diagnostics: %v", trace.Diagnostics())
	}
}

func TestSuperInitMayTargetAbstractClass(t *testing.T) {
	_, trace, _ := analyzeSource(t, `
abstract class B(x: Int) {
}
class D() : B(1) {
}
`)
	if hasDiagnostic(trace, diagnostics.CodeAbstractClassInstantiated) {
		t.Fatalf("super-init must be allowed on an abstract class: %v", trace.Diagnostics())
	}
	if n := errorCount(trace); n != 0 {
		t.Fatalf("unexpected errors: %v", trace.Diagnostics())
	}
}

func TestThisDelegationResolvesConstructor(t *testing.T) {
	_, trace, program := analyzeSource(t, `
class S(x: Int) {
	fun copy(): S = this(1)
}
`)
	cd := program.Statements[0].(*ast.ClassDeclaration)
	body := cd.Members[0].Body.(*ast.CallExpression)
	rc, ok := trace.CallFor(body)
	if !ok {
		t.Fatalf("this(...) did not resolve: %v", trace.Diagnostics())
	}
	if rc.Candidate.Kind != symbols.KindConstructor {
		t.Fatalf("this(...) resolved to %v, want a constructor", rc.Candidate)
	}
}

func TestInvokeOnExpression(t *testing.T) {
	_, trace, program := analyzeSource(t, `
val h: (Int) -> Int = { x -> x }
(h)(1)
`)
	call := callExprAt(t, program, 1)
	if got := typeOf(t, trace, call); !typesystem.Equal(got, typesystem.IntType()) {
		t.Fatalf("(h)(1) = %v, want Int", got)
	}

	_, trace2, _ := analyzeSource(t, `
(5)(1)
`)
	if !hasDiagnostic(trace2, diagnostics.CodeCalleeNotAFunction) {
		t.Fatalf("expected callee-not-a-function, diagnostics: %v", trace2.Diagnostics())
	}
}

func TestPrivateMemberInvisibleOutside(t *testing.T) {
	_, trace, _ := analyzeSource(t, `
class C() {
	private fun secret(): Int = 1
	fun ask(): Int = secret()
}
val c = C()
c.secret()
`)
	if !hasDiagnostic(trace, diagnostics.CodeInvisibleMember) {
		t.Fatalf("expected visibility error, diagnostics: %v", trace.Diagnostics())
	}
	// Exactly one: the in-class call through ask() is allowed.
	n := 0
	for _, d := range trace.Diagnostics() {
		if d.Code == diagnostics.CodeInvisibleMember {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("visibility error count = %d, want 1", n)
	}
}

func TestUnresolvedReference(t *testing.T) {
	_, trace, program := analyzeSource(t, `
nothingHere(1)
`)
	if !hasDiagnostic(trace, diagnostics.CodeUnresolvedReference) {
		t.Fatalf("expected unresolved reference, diagnostics: %v", trace.Diagnostics())
	}
	// Arguments are still typed after a failed resolution.
	call := callExprAt(t, program, 0)
	if got := typeOf(t, trace, call.Args[0].Value); !typesystem.Equal(got, typesystem.IntType()) {
		t.Fatalf("argument type = %v, want Int", got)
	}
}

func TestDanglingLiteralRecovery(t *testing.T) {
	_, trace, program := analyzeSource(t, `
fun r(x: Int): Int = x
r(1) { x -> x }
`)
	if !hasDiagnostic(trace, diagnostics.CodeDanglingFunctionLiteral) {
		t.Fatalf("expected dangling-literal diagnostic, diagnostics: %v", trace.Diagnostics())
	}
	call := callExprAt(t, program, 1)
	rc, ok := trace.CallFor(call)
	if !ok || rc.Candidate.Name != "r" {
		t.Fatalf("recovery must still resolve r, got %v", rc)
	}
}

func TestDanglingRecoveryDiscardsFailedRetry(t *testing.T) {
	_, trace, _ := analyzeSource(t, `
fun r(a: Int, b: Any): Int = a
fun r(a: Any, b: Int): Int = b
r(1, 2) { x -> x }
`)
	// Stripping the literal makes the call ambiguous; that retry must stay
	// on its own overlay and only the real call's failure is reported.
	if hasDiagnostic(trace, diagnostics.CodeOverloadAmbiguity) {
		t.Fatalf("failed retry leaked its diagnostics: %v", trace.Diagnostics())
	}
	if !hasDiagnostic(trace, diagnostics.CodeNoneApplicable) {
		t.Fatalf("expected the plain failure report, diagnostics: %v", trace.Diagnostics())
	}
}

func TestDanglingRecoveryGateable(t *testing.T) {
	program := parseSource(t, `
fun r(x: Int): Int = x
r(1) { x -> x }
`)
	off := false
	cfg := &config.Config{TrailingLiteralRecovery: &off}
	eng := NewEngine(cfg, "test.lyra")
	trace := NewBindingTrace()
	if err := eng.Analyze(context.Background(), program, trace); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if hasDiagnostic(trace, diagnostics.CodeDanglingFunctionLiteral) {
		t.Fatal("recovery must be off when disabled")
	}
	if !hasDiagnostic(trace, diagnostics.CodeTooManyArguments) {
		t.Fatalf("expected the plain mapping failure, diagnostics: %v", trace.Diagnostics())
	}
}

func TestCommitIsolation(t *testing.T) {
	_, trace, _ := analyzeSource(t, `
fun f(x: Int): Int = x
fun f(x: String): String = x
f(1)
`)
	// The String overload fails with a type mismatch during checking, but
	// that mismatch lives on a discarded overlay.
	if hasDiagnostic(trace, diagnostics.CodeTypeMismatch) {
		t.Fatalf("losing candidate leaked diagnostics: %v", trace.Diagnostics())
	}
	if n := errorCount(trace); n != 0 {
		t.Fatalf("expected clean trace, got: %v", trace.Diagnostics())
	}
}

func TestMemoizedResolutionSkipsSubtypeQueries(t *testing.T) {
	eng, trace, program := analyzeSource(t, `
fun f(x: Int): Int = x
f(1)
`)
	call := callExprAt(t, program, 1)
	scope := symbols.NewUnitScope(eng.Table())

	before := eng.Checker().SubtypeQueries
	result, err := eng.ResolveCall(context.Background(), trace, scope, call, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !result.Succeeded() {
		t.Fatalf("memoized result = %v", result.Code)
	}
	if after := eng.Checker().SubtypeQueries; after != before {
		t.Fatalf("memoized resolution ran %d extra subtype queries", after-before)
	}
}

func TestCancellationLeavesTraceUntouched(t *testing.T) {
	program := parseSource(t, `
fun f(x: Int): Int = x
f(1)
`)
	eng := NewEngine(&config.Config{}, "test.lyra")
	trace := NewBindingTrace()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := eng.Analyze(ctx, program, trace); err == nil {
		t.Fatal("cancelled analysis must return an error")
	}
	if len(trace.Diagnostics()) != 0 {
		t.Fatalf("cancelled run committed diagnostics: %v", trace.Diagnostics())
	}
	call := callExprAt(t, program, 1)
	if _, ok := trace.TypeOf(call); ok {
		t.Fatal("cancelled run committed expression types")
	}
}

func TestOverrideDoesNotCauseAmbiguity(t *testing.T) {
	_, trace, program := analyzeSource(t, `
open class Base() {
	fun m(x: Int): Int = x
}
class Derived() : Base() {
	override fun m(x: Int): Int = x
}
val d = Derived()
d.m(1)
`)
	if hasDiagnostic(trace, diagnostics.CodeOverloadAmbiguity) {
		t.Fatalf("override pair reported ambiguous: %v", trace.Diagnostics())
	}
	call := callExprAt(t, program, 3)
	rc, ok := trace.CallFor(call)
	if !ok {
		t.Fatal("call did not resolve")
	}
	if rc.Candidate.OwnerClass != "Derived" {
		t.Fatalf("resolved to %s.m, want Derived.m", rc.Candidate.OwnerClass)
	}
}

func TestFinalSupertypeRejected(t *testing.T) {
	_, trace, _ := analyzeSource(t, `
class Sealed() {
	fun m(): Int = 1
}
class Sub() : Sealed() {
}
val s = Sub()
s.m()
`)
	if !hasDiagnostic(trace, diagnostics.CodeSupertypeNotOpen) {
		t.Fatalf("expected final supertype error, diagnostics: %v", trace.Diagnostics())
	}
	// The inheritance relation is still usable for member lookup.
	if hasDiagnostic(trace, diagnostics.CodeUnresolvedReference) {
		t.Fatalf("inherited member lookup broke: %v", trace.Diagnostics())
	}
}

func TestOpenSupertypeAccepted(t *testing.T) {
	_, trace, _ := analyzeSource(t, `
open class Base() {
}
class Sub() : Base() {
}
`)
	if hasDiagnostic(trace, diagnostics.CodeSupertypeNotOpen) {
		t.Fatalf("open class rejected as supertype: %v", trace.Diagnostics())
	}
}

func TestCyclicSiblingBoundsRejected(t *testing.T) {
	_, trace, _ := analyzeSource(t, `
fun <A : B, B : A> bad(x: A): A = x
`)
	if !hasDiagnostic(trace, diagnostics.CodeCyclicUpperBound) {
		t.Fatalf("expected cyclic bound error, diagnostics: %v", trace.Diagnostics())
	}
}

func TestLocalBeatsTopLevel(t *testing.T) {
	_, trace, program := analyzeSource(t, `
fun shadowed(): String = "top"
fun caller(shadowed: () -> Int): Int = shadowed()
`)
	fn := program.Statements[1].(*ast.FunctionDeclaration)
	body := fn.Body.(*ast.CallExpression)
	if got := typeOf(t, trace, body); !typesystem.Equal(got, typesystem.IntType()) {
		t.Fatalf("local function-typed parameter must win, got %v", got)
	}
}
