// Package example holds placeholder work invoked by the task subcommands.
package example

import (
	"fmt"
	"io"
)

// Greet writes a fixed line to w.
func Greet(w io.Writer) error {
	_, err := fmt.Fprintln(w, ">>>>>>> You have reached the example function.")
	return err
}

// Echo returns its argument.
func Echo(n int) int {
	return n
}
