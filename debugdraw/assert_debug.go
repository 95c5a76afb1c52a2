//go:build debugassert

package debugdraw

// Built with -tags debugassert: tolerated renderer failures panic so that
// integration bugs surface immediately.
const debugAssertions = true
