// Hilink is a command-line client for Huawei HiLink modems.
//
// It reads device information and connection status, manages SMS, and
// changes network and DHCP settings through the device's web API.
//
// Usage:
//
//	hilink [command] [flags]
//
// Settings come from flags, HILINK_* environment variables and
// $HOME/.hilink.yaml, in that order of precedence.
package main

import (
	"fmt"
	"os"
)

// Set through -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}
