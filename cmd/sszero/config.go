package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCBOR = "cbor"
)

// maxOverrideBytes bounds override documents read from files or stdin.
const maxOverrideBytes = 8 << 20

// defaultOverrideDepth bounds object and array nesting in override documents.
const defaultOverrideDepth = 512

// Config holds the settings of the default command.
type Config struct {
	Schema        string // Schema file (YAML or JSONC); optional for inline expressions.
	Type          string // Type name or inline type expression.
	Override      string // Override file, "-" for stdin.
	Set           string // Inline JSON override.
	Strict        bool   // Reject override keys the type does not declare.
	MaxDepth      int    // Bound on type nesting during synthesis; 0 = unlimited.
	OverrideDepth int    // Bound on override document nesting; 0 = unlimited.
	Format        string
	Meta          bool // Report defaulted and ignored paths.
}

// applyEnvOverrides fills settings left empty on the command line from
// SSZERO_SCHEMA, SSZERO_FORMAT and SSZERO_STRICT.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SSZERO_SCHEMA"); v != "" && c.Schema == "" {
		c.Schema = v
	}
	if v := os.Getenv("SSZERO_FORMAT"); v != "" && c.Format == "" {
		c.Format = v
	}
	if v := os.Getenv("SSZERO_STRICT"); v != "" && !c.Strict {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Strict = b
		}
	}
}

func (c *Config) validate() error {
	if c.Format == "" {
		c.Format = FormatJSON
	}
	switch c.Format {
	case FormatJSON, FormatYAML, FormatCBOR:
	default:
		return fmt.Errorf("unknown format %q (want json, yaml or cbor)", c.Format)
	}
	if c.Type == "" {
		return errors.New("--type is required")
	}
	if c.Override != "" && c.Set != "" {
		return errors.New("--override and --set are mutually exclusive")
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("--max-depth must not be negative, got %d", c.MaxDepth)
	}
	if c.OverrideDepth < 0 {
		return fmt.Errorf("--override-depth must not be negative, got %d", c.OverrideDepth)
	}
	if c.Meta && c.Format == FormatCBOR {
		return errors.New("--meta is not supported with cbor output")
	}
	return nil
}
