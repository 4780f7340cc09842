package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/sszero"
	"github.com/reoring/sszero/codec"
	"github.com/reoring/sszero/resolve"
)

func newDefaultCmd() *cobra.Command {
	cfg := &Config{}
	cmd := &cobra.Command{
		Use:   "default",
		Short: "Print the default value of a type, with an optional override merged in",
		Example: `  sszero default --schema beacon.yaml --type Checkpoint
  sszero default --schema beacon.yaml --type Checkpoint --set '{"epoch": 3}'
  sszero default --type 'List[uint8, 4]' --override values.json --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.applyEnvOverrides()
			if err := cfg.validate(); err != nil {
				return err
			}
			return runDefault(cmd, cfg)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&cfg.Schema, "schema", "s", "", "Schema file, YAML or JSON with comments (or set SSZERO_SCHEMA)")
	f.StringVarP(&cfg.Type, "type", "t", "", "Type name or inline type expression (required)")
	f.StringVarP(&cfg.Override, "override", "o", "", "Override JSON file, - for stdin")
	f.StringVar(&cfg.Set, "set", "", "Inline override JSON document")
	f.BoolVar(&cfg.Strict, "strict", false, "Reject override keys the type does not declare (or set SSZERO_STRICT)")
	f.IntVar(&cfg.MaxDepth, "max-depth", 0, "Maximum type nesting during synthesis, 0 for unlimited")
	f.IntVar(&cfg.OverrideDepth, "override-depth", defaultOverrideDepth, "Maximum object and array nesting of the override document, 0 for unlimited")
	f.StringVarP(&cfg.Format, "format", "f", "", "Output format: json, yaml or cbor (or set SSZERO_FORMAT)")
	f.BoolVar(&cfg.Meta, "meta", false, "Also print defaulted and ignored paths")
	return cmd
}

func runDefault(cmd *cobra.Command, cfg *Config) error {
	reg := resolve.NewRegistry()
	if cfg.Schema != "" {
		r, err := resolve.LoadFile(cfg.Schema)
		if err != nil {
			return fmt.Errorf("loading schema: %w", err)
		}
		reg = r
	}
	typ, err := reg.Resolve(cfg.Type)
	if err != nil {
		return fmt.Errorf("resolving type %q: %w", cfg.Type, err)
	}

	raw, err := readOverride(cmd, cfg)
	if err != nil {
		return fmt.Errorf("reading override: %w", err)
	}
	ov, err := codec.FromJSON(typ, raw)
	if err != nil {
		return fmt.Errorf("mapping override: %w", err)
	}

	opt := sszero.Options{MaxDepth: cfg.MaxDepth, Logger: logger}
	if cfg.Strict {
		opt.Unknown = sszero.UnknownStrict
	}
	dec, err := sszero.SynthesizeWithMeta(typ, ov, opt)
	if err != nil {
		return err
	}
	logger.Info("synthesized default",
		zap.String("type", cfg.Type),
		zap.Stringer("kind", typ.Kind()),
		zap.Int("defaulted", len(dec.Presence.Defaulted())),
		zap.Int("ignored", len(dec.Presence.Ignored())))
	return writeValue(cmd.OutOrStdout(), cfg, typ, dec)
}

// readOverride returns the untyped override tree, or nil when none was
// given.
func readOverride(cmd *cobra.Command, cfg *Config) (any, error) {
	opt := sszero.LoadOpt{
		MaxDepth:       cfg.OverrideDepth,
		MaxBytes:       maxOverrideBytes,
		OnDuplicateKey: sszero.Error,
	}
	switch {
	case cfg.Set != "":
		return sszero.LoadOverride(sszero.JSONBytes([]byte(cfg.Set)), opt)
	case cfg.Override == "-":
		return sszero.LoadOverride(sszero.JSONReader(cmd.InOrStdin()), opt)
	case cfg.Override != "":
		f, err := os.Open(cfg.Override)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if strings.EqualFold(filepath.Ext(cfg.Override), ".jsonc") {
			b, err := io.ReadAll(io.LimitReader(f, maxOverrideBytes+1))
			if err != nil {
				return nil, err
			}
			return sszero.LoadOverride(sszero.JSONCBytes(b), opt)
		}
		return sszero.LoadOverride(sszero.JSONReader(f), opt)
	}
	return nil, nil
}
