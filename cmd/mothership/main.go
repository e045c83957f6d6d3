/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command mothership runs the topic ownership directory and offers operator
// commands to register, resolve and audit topics.
package main

import (
	"fmt"
	"os"
)

// set via -ldflags
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	if err := Execute(version, commit, date); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
