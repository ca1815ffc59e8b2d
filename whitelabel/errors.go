package whitelabel

import "fmt"

// InvalidJSONError reports a structural or schema violation in the
// serialization layer, before any field-level validation runs.
type InvalidJSONError struct {
	Detail string
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("whitelabel: invalid json: %s", e.Detail)
}

// InvalidFieldError reports a per-field semantic rejection: charset,
// length, or enumerated-value violation.
type InvalidFieldError struct {
	Index  int
	Reason string
}

func (e *InvalidFieldError) Error() string {
	name := "field"
	if e.Index >= 0 && e.Index < NumFields {
		name = Fields[e.Index].Name
	}
	return fmt.Sprintf("whitelabel: invalid field %d (%s): %s", e.Index, name, e.Reason)
}

// StringTooLongError reports that a string's arena offset would exceed
// the 255-row reach of a STRDEF descriptor.
type StringTooLongError struct {
	Index int
}

func (e *StringTooLongError) Error() string {
	name := "field"
	if e.Index >= 0 && e.Index < NumFields {
		name = Fields[e.Index].Name
	}
	return fmt.Sprintf("whitelabel: string too long to place in arena: field %d (%s)", e.Index, name)
}

// TruncatedInputError reports that the decoder was given fewer rows than
// the header or a string descriptor requires.
type TruncatedInputError struct {
	Detail string
}

func (e *TruncatedInputError) Error() string {
	if e.Detail == "" {
		return "whitelabel: truncated input"
	}
	return fmt.Sprintf("whitelabel: truncated input: %s", e.Detail)
}

// InternalInconsistencyError reports a violated post-validation invariant.
// Its occurrence indicates a library bug or a corrupt OTP readback, never
// a plain user error.
type InternalInconsistencyError struct {
	Msg string
}

func (e *InternalInconsistencyError) Error() string {
	return fmt.Sprintf("whitelabel: internal inconsistency: %s", e.Msg)
}
