// Command orderform serves the Bloom Pizza order pages and offers a terminal
// rendition of the same flow.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "orderform:", err)
		os.Exit(1)
	}
}
