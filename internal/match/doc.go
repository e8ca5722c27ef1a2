// Package match provides identifier normalization and edit-distance ranking
// used to pair source and target members by name and to suggest close names
// when a directive refers to a member that does not exist.
//
// Key functions:
//   - NormalizeIdent: case and separator insensitive identifier key
//   - Levenshtein / Similarity: edit distance over runes
//   - Names: exact-then-normalized member lookup
//   - Suggest: ranked near misses for diagnostics
package match
