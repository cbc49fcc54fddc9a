package models

// CallPlan captures everything the body synthesizer needs to emit the
// blocking call for one async method.
type CallPlan struct {
	// NewName is the wrapper's method name, the original name with the
	// "_blocking" suffix appended.
	NewName string

	// HasReceiver selects instance-call syntax (self.method(...)) over
	// type-qualified syntax (Type::method(...)).
	HasReceiver bool

	// ForwardedArgs are the original non-receiver binding patterns, in
	// declaration order, reused verbatim as call arguments.
	ForwardedArgs []string

	// OriginalName is the async method being wrapped.
	OriginalName string

	// Qualifier is "self" for instance calls, the owning type's name for
	// associated-function calls.
	Qualifier string
}
