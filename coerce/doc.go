// Package coerce maps property values to and from the scalar forms a
// property-graph store accepts.
//
// The store holds strings, numbers and booleans only. ToWire therefore
// renders nulls and containers as JSON text and Dates as epoch
// milliseconds; FromWire reverses what it can.
//
// The mapping is lossy at a few well-defined points:
//   - Null, Undefined and nested objects come back through JSON text, so a
//     string that happens to be valid JSON ("123", "true", "null") comes
//     back as the JSON value rather than as text.
//   - Only top-level string leaves are checked for dates. Dates inside a
//     JSON blob stay strings.
//   - The date check is a heuristic. It accepts strict ISO-8601 only, but a
//     string that was meant as text and is shaped like "2024-01-31" still
//     comes back as a Date. Use WithoutDates to turn it off.
package coerce
