package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// Helper to execute a Cobra command and capture stdout/stderr
func execCmd(root *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestExecuteHelp(t *testing.T) {
	// Exercise command wiring by invoking help
	rootCmd.SetArgs([]string{"--help"})
	if err := execute(); err != nil {
		t.Fatalf("execute help: %v", err)
	}
}

func TestCleanThroughRoot(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	in := filepath.Join(dir, "in.bib")
	out := filepath.Join(dir, "out.bib")
	src := "@article{k,\n  journal = {journal of finance},\n  month = jan\n}\n"
	if err := os.WriteFile(in, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	root := &cobra.Command{Use: "bib"}
	root.AddCommand(newCleanCmd(), newTitlecaseCmd(), newFieldsCmd())
	got, err := execCmd(root, "clean", in, out)
	if err != nil {
		t.Fatalf("clean: %v\n%s", err, got)
	}
	b, _ := os.ReadFile(out)
	if string(b) != "@article{k,\n  journal = {{Journal of Finance}}\n}\n" {
		t.Fatalf("unexpected output %q", b)
	}
	if !strings.Contains(got, "Removed 1 field(s)") {
		t.Fatalf("unexpected report:\n%s", got)
	}

	got, err = execCmd(root, "titlecase", "economics", "of", "education")
	if err != nil || got != "Economics of Education\n" {
		t.Fatalf("titlecase: %q (%v)", got, err)
	}
}
