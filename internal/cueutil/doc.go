// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates YAML documents against embedded CUE schemas.
//
// The flow is the same for every schema:
//
//  1. Compile the embedded schema and look up the root definition
//  2. Extract the YAML document into CUE and unify it with the definition
//  3. Validate that the result is concrete
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schema string
//
//	value, err := cueutil.ValidateYAML(schema, "#Config", data,
//	    cueutil.WithFilename("wdee-config.yaml"),
//	)
//	if err != nil {
//	    return err // Error carries JSON paths such as jar-run-config.docker-port
//	}
//
// Errors are flattened to "<file>: <json-path>: <message>" lines.
package cueutil
