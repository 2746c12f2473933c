package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintHelpers(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*bytes.Buffer)
		want string
	}{
		{"success", func(b *bytes.Buffer) { printSuccess(b, "done %d", 1) }, "done 1"},
		{"error", func(b *bytes.Buffer) { printError(b, "failed") }, "failed"},
		{"warning", func(b *bytes.Buffer) { printWarning(b, "careful") }, "careful"},
		{"info", func(b *bytes.Buffer) { printInfo(b, "note") }, "note"},
		{"detail", func(b *bytes.Buffer) { printDetail(b, "Directory: %s", "/tmp") }, "Directory: /tmp"},
		{"file", func(b *bytes.Buffer) { printFile(b, "out.svg") }, "out.svg"},
		{"key value", func(b *bytes.Buffer) { printKeyValue(b, "nodes", "3") }, "3"},
		{"next step", func(b *bytes.Buffer) { printNextStep(b, "Try", "depsort order x") }, "depsort order x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.fn(&buf)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, 3, 2, true)
	out := buf.String()
	for _, want := range []string{"3 nodes", "2 edges", "cached"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats %q missing %q", out, want)
		}
	}

	buf.Reset()
	printStats(&buf, 0, 0, false)
	if strings.Contains(buf.String(), "nodes") || !strings.Contains(buf.String(), "fresh") {
		t.Errorf("empty stats = %q", buf.String())
	}
}

func TestPrintCycles(t *testing.T) {
	var buf bytes.Buffer
	printCycles(&buf, [][]string{{"x"}, {"a", "b", "c"}})
	out := buf.String()

	for _, want := range []string{"2 circular dependencies", "x → x", "a → b → c → a", "SIZE"} {
		if !strings.Contains(out, want) {
			t.Errorf("cycle output missing %q:\n%s", want, out)
		}
	}
}

func TestPlural(t *testing.T) {
	if plural(1, "cycle", "cycles") != "cycle" || plural(2, "cycle", "cycles") != "cycles" {
		t.Error("plural picked the wrong form")
	}
}
