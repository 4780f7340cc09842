package resolve

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reoring/sszero"
)

const beaconYAML = `
types:
  Root: Bytes32
  Checkpoint:
    epoch: uint64
    root: Root
  AttestationData:
    slot: uint64
    index: uint64
    beacon_block_root: Root
    source: Checkpoint
    target: Checkpoint
  Attestation:
    aggregation_bits: Bitlist[2048]
    data: AttestationData
    signature: Bytes96
`

func TestLoadYAML_PreservesFieldOrder(t *testing.T) {
	r := NewRegistry()
	if err := r.LoadYAML(strings.NewReader(beaconYAML)); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := strings.Join(r.Names(), ","); got != "Root,Checkpoint,AttestationData,Attestation" {
		t.Fatalf("unexpected names: %s", got)
	}
	typ, err := r.Resolve("AttestationData")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	c := typ.(*sszero.Container)
	var names []string
	for _, f := range c.Fields {
		names = append(names, f.Name)
	}
	if got := strings.Join(names, ","); got != "slot,index,beacon_block_root,source,target" {
		t.Fatalf("field order not preserved: %s", got)
	}
}

func TestLoadJSONC_Comments(t *testing.T) {
	src := []byte(`{
  // the usual pair
  "types": {
    "Root": "Bytes32",
    "Checkpoint": {"epoch": "uint64", "root": "Root",},
  },
}`)
	r := NewRegistry()
	if err := r.LoadJSONC(src); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	typ, err := r.Resolve("Checkpoint")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := sszero.TypeString(typ); got != "Container{epoch: uint64, root: ByteVector[32]}" {
		t.Fatalf("unexpected type: %s", got)
	}
}

func TestLoadYAML_DuplicateKey(t *testing.T) {
	y := []byte("types:\n  A: uint8\n  A: uint16\n")
	err := NewRegistry().LoadYAML(bytes.NewReader(y))
	var de *DuplicateKeyError
	if !errors.As(err, &de) {
		t.Fatalf("expected DuplicateKeyError, got %T %v", err, err)
	}
	if de.Key != "A" || de.FirstLine != 2 || de.Line != 3 {
		t.Fatalf("unexpected duplicate report: %+v", de)
	}
}

func TestLoadYAML_DuplicateField(t *testing.T) {
	y := []byte("types:\n  C:\n    a: uint8\n    a: bool\n")
	err := NewRegistry().LoadYAML(bytes.NewReader(y))
	var de *DuplicateKeyError
	if !errors.As(err, &de) || de.Key != "a" {
		t.Fatalf("expected DuplicateKeyError for a, got %T %v", err, err)
	}
}

func TestLoadYAML_ResolvesEagerly(t *testing.T) {
	y := []byte("types:\n  A: List[Missing, 2]\n")
	err := NewRegistry().LoadYAML(bytes.NewReader(y))
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestLoadYAML_Shape(t *testing.T) {
	for _, y := range []string{
		"",
		"- a\n- b\n",
		"kinds: {}\n",
		"types: [uint8]\n",
		"types:\n  A: [uint8]\n",
		"types:\n  C:\n    a: {b: uint8}\n",
	} {
		err := NewRegistry().LoadYAML(strings.NewReader(y))
		if !errors.Is(err, ErrSchemaShape) {
			t.Fatalf("%q: expected ErrSchemaShape, got %v", y, err)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "beacon.yaml")
	if err := os.WriteFile(yml, []byte(beaconYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	r, err := LoadFile(yml)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := r.Resolve("Attestation"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	js := filepath.Join(dir, "small.jsonc")
	if err := os.WriteFile(js, []byte(`{"types": {"Flag": "bool", /* alias */}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	r, err = LoadFile(js)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := r.Names(); len(got) != 1 || got[0] != "Flag" {
		t.Fatalf("unexpected names: %v", got)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
