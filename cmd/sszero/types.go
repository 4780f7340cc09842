package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/sszero/resolve"
)

func newTypesCmd() *cobra.Command {
	var schema string
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the types defined by a schema file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &Config{Schema: schema}
			cfg.applyEnvOverrides()
			if cfg.Schema == "" {
				return errors.New("--schema is required")
			}
			reg, err := resolve.LoadFile(cfg.Schema)
			if err != nil {
				return fmt.Errorf("loading schema: %w", err)
			}
			names := reg.Names()
			rows := make([][3]string, 0, len(names))
			for _, name := range names {
				typ, err := reg.Resolve(name)
				if err != nil {
					return fmt.Errorf("resolving %q: %w", name, err)
				}
				expr, _ := reg.Expr(name)
				rows = append(rows, [3]string{name, typ.Kind().String(), expr})
			}
			logger.Debug("listed types", zap.String("schema", cfg.Schema), zap.Int("count", len(rows)))
			return writeTypes(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().StringVarP(&schema, "schema", "s", "", "Schema file, YAML or JSON with comments (or set SSZERO_SCHEMA)")
	return cmd
}
