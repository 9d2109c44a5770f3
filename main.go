// SPDX-License-Identifier: MPL-2.0

package main

import cmd "wdee-cli/cmd/wdee"

func main() {
	cmd.Execute()
}
