// SPDX-License-Identifier: MPL-2.0

package main

import (
	"os"

	cmd "github.com/modpm/modpm/cmd/modpm"
)

func main() {
	os.Exit(cmd.Main())
}
