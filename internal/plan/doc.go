// Package plan provides the planning pipeline that turns a mapping file and
// a type graph into the functions to generate.
//
// Planning pipeline:
//  1. Analyze packages → type graph
//  2. Load YAML → validate
//  3. Layer options (member > contract > mapper) and declare one contract
//     per mapping entry
//  4. Resolve contracts in parallel; every type pair is resolved once
//  5. Freeze the graph and assemble the method bodies
//  6. Collect diagnostics (unresolvable pairs, unknown members, policy
//     conflicts); strict mode turns errors into a failed plan
package plan
