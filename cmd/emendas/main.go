package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(openStorage).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
