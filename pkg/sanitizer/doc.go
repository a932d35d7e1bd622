// Package sanitizer normalizes user input before validation and storage.
//
// All functions are idempotent: applying them twice yields the same result
// as applying them once. Invalid input degrades to an empty value rather
// than an error; rejecting it is the validator's job.
//
// Normalization includes:
//   - Text: trim leading/trailing whitespace, collapse inner runs to one space
//   - Optional text: the same, applied through a pointer when present
//   - Slices: normalize each entry, drop empties and duplicates, keep order
//   - Amounts: round to cents
package sanitizer
