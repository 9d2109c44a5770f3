// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the wdee command line interface.
//
// The CLI takes exactly a command and a configuration file:
//
//	wdee build wdee-config.yaml
//	wdee run wdee-config.yaml
//	wdee help
package cmd
