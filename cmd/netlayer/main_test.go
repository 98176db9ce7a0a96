package main

import (
	"bytes"
	"testing"

	"github.com/samvad-hq/netlayer/internal/app"
)

func TestPrintOutputAppendsNewline(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := printOutput(&stdout, &stderr, app.Output{Body: []byte("body"), StatusCode: 200}, false); err != nil {
		t.Fatalf("printOutput: %v", err)
	}
	if stdout.String() != "body\n" {
		t.Fatalf("unexpected stdout %q", stdout.String())
	}
	if stderr.String() != "status: 200\n" {
		t.Fatalf("unexpected stderr %q", stderr.String())
	}
}

func TestPrintOutputQuiet(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := printOutput(&stdout, &stderr, app.Output{Body: []byte("x\n"), StatusCode: 201}, true); err != nil {
		t.Fatalf("printOutput: %v", err)
	}
	if stdout.String() != "x\n" || stderr.Len() != 0 {
		t.Fatalf("unexpected output %q %q", stdout.String(), stderr.String())
	}
}

func TestRootCommandWiresSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"fetch", "list", "history"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("expected %s subcommand, got %v err=%v", name, cmd, err)
		}
	}
}
