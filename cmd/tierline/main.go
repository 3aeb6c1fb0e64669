// Command tierline runs one tier of the pipeline: the data-access
// service (tierline dataapi) or the presentation gateway (tierline gateway).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := RootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
