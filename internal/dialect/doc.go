// Package dialect maps the register model onto the element tree of one
// IP-XACT schema revision.
//
// Three revisions are supported. 1685-2009 uses the spirit namespace and
// carries reset values on the register. 1685-2014 moves resets onto each
// field. 1685-2022 additionally wraps the access policy in
// fieldAccessPolicies and is the only revision that accepts "no-access".
//
// The tree a mapper returns is already in schema order; CheckContent
// verifies that against a per-revision content model before anything is
// serialised.
package dialect
