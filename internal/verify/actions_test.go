package verify

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"
)

func TestGatherInputs_Deduplicates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jo-2024-01.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	// Same transcript reachable via --input-dir and as a positional arg.
	set := flag.NewFlagSet("verify", flag.ContinueOnError)
	set.String("input-dir", "", "")
	if err := set.Parse([]string{path}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if err := set.Set("input-dir", dir); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	c := cli.NewContext(nil, set, nil)

	inputs, err := gatherInputs(c)
	if err != nil {
		t.Fatalf("gatherInputs() error = %v", err)
	}
	if len(inputs) != 1 {
		t.Fatalf("got %d inputs, want 1: %v", len(inputs), inputs)
	}
	if inputs[0] != path {
		t.Errorf("inputs[0] = %q, want %q", inputs[0], path)
	}
}
