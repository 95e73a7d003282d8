// Package preflight provides readiness checks for the external tools,
// fonts, and filesystem paths that rote depends on.
//
// These checks run in two contexts:
//   - The generate and batch commands call RunAll and Gate before starting.
//     If any check fails, the run halts before synthesizing a single phrase.
//   - The CLI "rote deps" command renders the full result table so the
//     operator can see every check at once instead of fixing them one
//     failure at a time.
package preflight
