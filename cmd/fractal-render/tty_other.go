//go:build !linux

package main

import "os"

// isTerminal is a stub that disables the spinner on non-Linux platforms.
func isTerminal(f *os.File) bool {
	return false
}
