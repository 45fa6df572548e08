package infer

import "github.com/elmlsp/elmlsp/internal/typesys"

// Error is one inference-time diagnostic. Unlike the teacher's per-case
// Error interface hierarchy (internal/checker/error.go), the spec's Kind
// enum (spec §7) is reused for every package in this repo — Error here
// just carries enough context for that enum's ParseFailure/Internal
// cases to be produced with a good message.
type Error struct {
	Message string
	NodeID  int
}

func (e *Error) Error() string { return e.Message }

// CannotUnifyError reports two types that cannot be reconciled.
type CannotUnifyError struct {
	T1, T2 typesys.Type
	NodeID int
}

func (e *CannotUnifyError) Error() string {
	return "cannot unify " + e.T1.String() + " with " + e.T2.String()
}

// RecursiveUnificationError reports an occurs-check failure.
type RecursiveUnificationError struct {
	T1, T2 typesys.Type
}

func (e *RecursiveUnificationError) Error() string {
	return "recursive type: " + e.T1.String() + " occurs in " + e.T2.String()
}

// UnboundNameError reports a reference to a name with no binding in
// scope (should not normally occur since the binder runs first, but
// inference is defensive per spec §9).
type UnboundNameError struct {
	Name   string
	NodeID int
}

func (e *UnboundNameError) Error() string { return "unbound name: " + e.Name }

// MissingFieldError reports a record-field access with no matching field.
type MissingFieldError struct {
	Field  string
	Record typesys.Type
}

func (e *MissingFieldError) Error() string {
	return "record has no field " + e.Field
}
