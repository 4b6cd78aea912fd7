// Command api2can is the command line interface for generating canonical
// utterances and utterance templates from API descriptions.
package main

import (
	"fmt"
	"os"

	"github.com/api2can/api2can/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
