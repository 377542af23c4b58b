package diagnostics

import "fmt"

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Lexer/parser errors
	CodeIllegalToken Code = "ILLEGAL_TOKEN"
	CodeParseError   Code = "PARSE_ERROR"

	// Declaration errors
	CodeDuplicateDeclaration Code = "DUPLICATE_DECLARATION"
	CodeUnknownType          Code = "UNKNOWN_TYPE"
	CodeCyclicUpperBound     Code = "CYCLIC_UPPER_BOUND"

	// Call resolution errors
	CodeUnresolvedReference       Code = "UNRESOLVED_REFERENCE"
	CodeNoneApplicable            Code = "NONE_APPLICABLE"
	CodeOverloadAmbiguity         Code = "OVERLOAD_AMBIGUITY"
	CodeTooManyArguments          Code = "TOO_MANY_ARGUMENTS"
	CodeNoValueForParameter       Code = "NO_VALUE_FOR_PARAMETER"
	CodeNamedParameterNotFound    Code = "NAMED_PARAMETER_NOT_FOUND"
	CodeArgumentPassedTwice       Code = "ARGUMENT_PASSED_TWICE"
	CodeSpreadToNonVararg         Code = "NON_VARARG_SPREAD"
	CodeMixingNamedAndPositional  Code = "MIXED_NAMED_AND_POSITIONAL"
	CodeTypeMismatch              Code = "TYPE_MISMATCH"
	CodeWrongReceiverType         Code = "WRONG_RECEIVER_TYPE"
	CodeUnsafeCall                Code = "UNSAFE_CALL"
	CodeUnnecessarySafeCall       Code = "UNNECESSARY_SAFE_CALL"
	CodeInvisibleMember           Code = "INVISIBLE_MEMBER"
	CodeWrongTypeArgumentCount    Code = "WRONG_NUMBER_OF_TYPE_ARGUMENTS"
	CodeUpperBoundViolated        Code = "UPPER_BOUND_VIOLATED"
	CodeTypeInferenceFailed       Code = "TYPE_INFERENCE_FAILED"
	CodeCalleeNotAFunction        Code = "CALLEE_NOT_A_FUNCTION"
	CodeNoConstructor             Code = "NO_CONSTRUCTOR"
	CodeNotAClass                 Code = "NOT_A_CLASS"
	CodeAbstractClassInstantiated Code = "ABSTRACT_CLASS_INSTANTIATED"
	CodeDanglingFunctionLiteral   Code = "DANGLING_FUNCTION_LITERAL"
	CodeSupertypeNotOpen          Code = "SUPERTYPE_NOT_OPEN"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int
	Column   int
}

func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// Diagnostic is a single reportable finding.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Span     Span
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s [%s]", d.Span, d.Severity, d.Message, d.Code)
}

// Errorf builds an error diagnostic.
func Errorf(code Code, span Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Severity: SeverityError, Code: code, Span: span, Message: fmt.Sprintf(format, args...)}
}

// Warningf builds a warning diagnostic.
func Warningf(code Code, span Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Code: code, Span: span, Message: fmt.Sprintf(format, args...)}
}
