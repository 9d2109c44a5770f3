// SPDX-License-Identifier: MPL-2.0

// Package config loads wdee-config.yaml and resolves it into a Context.
//
// The YAML document is first extracted into CUE and unified with the embedded
// #Config schema (config_schema.cue), which rejects unknown keys and wrong
// types. The validated value is then merged into Viper on top of the
// registered defaults and decoded with UnmarshalExact. Value constraints that
// the schema does not cover are checked with go-playground/validator.
//
// A Context is built once per invocation and only read afterwards. Every
// component receives it explicitly; there is no package-level state.
package config
