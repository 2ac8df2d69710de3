//go:build !debug

package main

// Debug is false in production builds; see debug.go for the -debug
// build's console-backed counterpart.
const Debug = false

// wrapDebug is a no-op in production builds: Init's real or simulated
// Buttons source is used as-is.
func wrapDebug(p *Platform) {}
