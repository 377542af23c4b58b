package analyzer

// Status classifies the outcome of checking one candidate, or of one stage of
// checking it. Statuses combine by severity so that a candidate's final
// status is its worst stage.
type Status int

// Severity order, most severe last. Success is the only status on which a
// candidate survives to specificity filtering.
const (
	Success Status = iota
	IncompleteTypeInference
	Unknown
	ReceiverPresenceError
	ReceiverTypeError
	OtherError
	ArgumentTypeError
	TypeInferenceError
	StrongError
)

func (s Status) String() string {
	switch s {
	case Success:
		return "SUCCESS"
	case IncompleteTypeInference:
		return "INCOMPLETE_TYPE_INFERENCE"
	case Unknown:
		return "UNKNOWN"
	case ReceiverPresenceError:
		return "RECEIVER_PRESENCE_ERROR"
	case ReceiverTypeError:
		return "RECEIVER_TYPE_ERROR"
	case OtherError:
		return "OTHER_ERROR"
	case ArgumentTypeError:
		return "ARGUMENT_TYPE_ERROR"
	case TypeInferenceError:
		return "TYPE_INFERENCE_ERROR"
	case StrongError:
		return "STRONG_ERROR"
	}
	return "INVALID"
}

// IsSuccess reports a fully successful candidate.
func (s Status) IsSuccess() bool { return s == Success }

// PossibleTransformToSuccess reports whether later information could still
// turn the candidate into a success.
func (s Status) PossibleTransformToSuccess() bool {
	return s == Success || s == IncompleteTypeInference || s == Unknown
}

// Combine returns the more severe of the two statuses. A strong error always
// wins so that a definitely inapplicable candidate stays inapplicable.
func (s Status) Combine(other Status) Status {
	if s == StrongError || other == StrongError {
		return StrongError
	}
	if other > s {
		return other
	}
	return s
}
