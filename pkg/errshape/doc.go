// Package errshape normalizes arbitrary, unknown-shaped backend error payloads
// into a toast title, a toast description and a list of field-level issues.
//
// Connectors behind a unification gateway report failures in incompatible
// shapes: Elements with nested ValidationErrors, Errors arrays carrying
// AdditionalDetails, flat Message/ErrorNumber/Type objects, and the gateway's
// own SDKValidationError and RequestValidationError envelopes. The package
// picks text by structural shape, never by connector identity, so one call
// serves every connector:
//
//	v, err := errshape.Decode(body)
//	if err != nil {
//		v = errshape.NewString(string(body))
//	}
//	parsed := errshape.Parse(v, errshape.WithResourceName("invoice"))
//
// Parse never fails. The result always has a non-empty title and description
// and at least one FormIssue. Every function in this package is pure and safe
// for concurrent use; inputs are never mutated.
package errshape
