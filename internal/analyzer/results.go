package analyzer

import (
	"github.com/lyralang/lyra/internal/ast"
	"github.com/lyralang/lyra/internal/symbols"
	"github.com/lyralang/lyra/internal/typesystem"
)

// ResolvedCall is everything resolution decided about one candidate applied
// to one call site: the descriptor, the inferred or explicit type arguments,
// the argument-to-parameter mapping and the candidate's final status.
type ResolvedCall struct {
	Candidate *symbols.Callable
	// Resulting is the candidate with type arguments substituted in. Equal to
	// Candidate for non-generic callables.
	Resulting *symbols.Callable

	TypeArguments typesystem.Subst

	// ArgumentToParam maps each syntactic argument to the parameter it was
	// matched with. Unmapped arguments are absent.
	ArgumentToParam map[*ast.Argument]*symbols.ValueParam
	// Defaulted lists parameters filled from their default values.
	Defaulted []*symbols.ValueParam

	// ReceiverArgument is the type the receiver was resolved against, nil
	// when the candidate takes no receiver.
	ReceiverArgument typesystem.Type
	SafeCall         bool

	Status Status
}

// ReturnType is the candidate's return type after substitution, or the error
// type when resolution never got that far.
func (rc *ResolvedCall) ReturnType() typesystem.Type {
	if rc.Resulting == nil || rc.Resulting.Return == nil {
		return typesystem.ErrorType()
	}
	return rc.Resulting.Return
}

// ResultCode summarizes an overload resolution attempt over all candidates.
type ResultCode int

const (
	ResolutionSuccess ResultCode = iota
	NameNotFound
	SingleCandidateArgumentMismatch
	Ambiguity
	ManyFailedCandidates
	CandidatesWithWrongReceiver
	IncompleteInference
)

func (c ResultCode) String() string {
	switch c {
	case ResolutionSuccess:
		return "SUCCESS"
	case NameNotFound:
		return "NAME_NOT_FOUND"
	case SingleCandidateArgumentMismatch:
		return "SINGLE_CANDIDATE_ARGUMENT_MISMATCH"
	case Ambiguity:
		return "AMBIGUITY"
	case ManyFailedCandidates:
		return "MANY_FAILED_CANDIDATES"
	case CandidatesWithWrongReceiver:
		return "CANDIDATES_WITH_WRONG_RECEIVER"
	case IncompleteInference:
		return "INCOMPLETE_TYPE_INFERENCE"
	}
	return "INVALID"
}

// Result is the outcome of resolving one call site.
type Result struct {
	Code ResultCode
	// Call is the winner on success, or the single failed candidate when the
	// failure is attributable to exactly one.
	Call *ResolvedCall
	// Candidates holds the surviving set on ambiguity and the failed set on
	// MANY_FAILED_CANDIDATES.
	Candidates []*ResolvedCall
}

// Succeeded reports a unique applicable candidate.
func (r *Result) Succeeded() bool { return r.Code == ResolutionSuccess && r.Call != nil }

// SingleCandidate reports whether failure or success narrows to one
// candidate whose diagnostics can be reported directly.
func (r *Result) SingleCandidate() bool { return r.Call != nil }

func successResult(rc *ResolvedCall) *Result {
	return &Result{Code: ResolutionSuccess, Call: rc}
}

func nameNotFoundResult() *Result { return &Result{Code: NameNotFound} }

func ambiguityResult(candidates []*ResolvedCall) *Result {
	return &Result{Code: Ambiguity, Candidates: candidates}
}
