package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/sszero"
	"github.com/reoring/sszero/codec"
)

func writeValue(w io.Writer, cfg *Config, typ sszero.Type, dec sszero.Decoded) error {
	if cfg.Format == FormatCBOR {
		b, err := codec.MarshalCBOR(typ, dec.Value)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}

	out, err := codec.ToJSON(typ, dec.Value)
	if err != nil {
		return err
	}
	if cfg.Meta {
		out = sszero.Record{
			{Name: "value", Value: out},
			{Name: "defaulted", Value: nonNil(dec.Presence.Defaulted())},
			{Name: "ignored", Value: nonNil(dec.Presence.Ignored())},
		}
	}

	switch cfg.Format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	default:
		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// writeTypes prints one line per defined type: name, kind and the
// expression it was defined with.
func writeTypes(w io.Writer, rows [][3]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tEXPRESSION")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r[0], r[1], r[2])
	}
	return tw.Flush()
}
