// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

// Package config holds the tunables shared by the dex2oat wrapper, the
// odex read filter, and the probe.
//
// Every value has a built-in default matching the deployed peer and ART
// layout, so running without a file is the normal case. A file is
// named by the LSPOSED_DEX2OAT_CONFIG environment variable, never by a
// flag: the wrapper must pass its command line to dex2oat unchanged.
//
// Files are YAML, or JSON with comments and trailing commas when the
// name ends in .json or .jsonc. Values in a file replace the defaults
// field by field. ${VAR} and ${VAR:-default} are expanded in the
// library path settings.
package config
