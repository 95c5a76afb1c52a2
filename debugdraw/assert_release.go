//go:build !debugassert

package debugdraw

const debugAssertions = false
