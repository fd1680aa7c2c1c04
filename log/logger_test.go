package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	type spec struct {
		in     string
		exp    Level
		expErr bool
	}
	specs := []spec{
		{"debug", Debug, false},
		{"INFO", Info, false},
		{" notice ", Notice, false},
		{"warn", Warning, false},
		{"error", Error, false},
		{"verbose", Notice, true},
	}

	for index, s := range specs {
		level, err := ParseLevel(s.in)
		if s.expErr {
			if err == nil {
				t.Fatalf("[spec %d] expected an error parsing %q", index, s.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if level != s.exp {
			t.Fatalf("[spec %d] expected level %d; got %d", index, s.exp, level)
		}
	}
}

func TestSinksAndLevels(t *testing.T) {
	defer func() {
		SetSink(os.Stdout)
		SetLevel(Notice)
	}()

	var term, file bytes.Buffer
	SetSink(&term, &file)
	SetLevel(Warning)

	logger := New("test")
	logger.Info("hidden message")
	logger.Warning("visible message")

	for name, buf := range map[string]*bytes.Buffer{"primary": &term, "extra": &file} {
		out := buf.String()
		if strings.Contains(out, "hidden message") {
			t.Fatalf("expected %s sink to filter info messages; got %q", name, out)
		}
		if !strings.Contains(out, "visible message") {
			t.Fatalf("expected %s sink to receive warning message; got %q", name, out)
		}
		if !strings.Contains(out, "[test]") {
			t.Fatalf("expected %s sink output to include the module name; got %q", name, out)
		}
	}

	if strings.Contains(file.String(), "\033[") {
		t.Fatalf("expected extra sink to receive uncolored output; got %q", file.String())
	}

	// Level survives a sink change
	SetSink(&term)
	if GetLevel() != Warning {
		t.Fatalf("expected level to be preserved across sink changes; got %d", GetLevel())
	}
}
