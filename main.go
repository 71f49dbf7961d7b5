// Package main provides a banner entry point for armjit.
// armjit is a dynamic binary translator for ARMv6 32-bit guest code.
//
// For the full CLI, use: go run ./cmd/armjit
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("armjit - ARMv6 dynamic binary translator")
	fmt.Println("")
	fmt.Println("Usage: armjit [options] <program.elf>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -mem        Guest flat memory size in bytes")
	fmt.Println("  -budget     Cycle budget per Execute call")
	fmt.Println("  -max-calls  Maximum number of Execute calls before giving up")
	fmt.Println("  -v          Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/armjit' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/armjit' instead.")
	}
}
