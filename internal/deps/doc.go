// Package deps computes the runtime shared-library closure of deployable
// build targets. Dependencies are enumerated by link-time inspection of
// the built artifacts, filtered by an ordered two-phase rule table
// (PreResolve rules match unresolved names, PostResolve rules match
// resolved absolute paths), and resolved against the target platform's
// dynamic-library search order. A dependency that survives filtering but
// cannot be located on disk is a warning, not a failure: filter false
// negatives across varied target systems are expected and not actionable
// at this layer.
package deps
