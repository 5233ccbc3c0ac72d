// Package authorizationledger implements the authorization ledger inside the
// treasury-core context.
//
// The module owns the consumed-authorization truth: each (vault, recipient,
// amount, authorization id, domain) tuple maps to a one-way derived key whose
// consumed flag flips exactly once, atomically, and never resets. Every other
// treasury decision that spends funds is gated on this module's verdict. It
// keeps business rules in the application layer and isolates storage,
// credential verification, and signal emission behind ports and adapters.
package authorizationledger
