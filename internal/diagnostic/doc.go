// Package diagnostic provides the structured failure records produced while
// planning mappings, and a thread-safe collector implementing Reporter.
//
// Core kinds:
//   - UnresolvableMapping: no strategy converts a required type pair
//   - MemberNotFound: a directive names a member absent from a shape
//   - NullMismatchPolicyConflict: conflicting null fallback options
//
// Configuration validation uses the same records with a Code and no Kind.
package diagnostic
