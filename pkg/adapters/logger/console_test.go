package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/user/thumbforge/pkg/ports"
)

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var out, errOut bytes.Buffer
	log := NewConsoleWriter(ports.LevelInfo, &out, &errOut)

	log.Debug("hidden %d", 1)
	log.Info("shown %d", 2)
	log.Warn("warned %d", 3)
	log.Error("failed %d", 4)

	if strings.Contains(out.String(), "hidden") {
		t.Error("debug message should be filtered at info level")
	}
	if !strings.Contains(out.String(), "shown 2") {
		t.Errorf("expected info on stdout, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "warned 3") || !strings.Contains(errOut.String(), "failed 4") {
		t.Errorf("expected warn and error on stderr, got %q", errOut.String())
	}
}

func TestConsoleLogger_WithComponent(t *testing.T) {
	var out bytes.Buffer
	log := NewConsoleWriter(ports.LevelDebug, &out, &out)

	log.WithComponent("textlayout").Debug("wrapped")

	if got := out.String(); got != "[textlayout] wrapped\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestConsoleLogger_NoColorForBuffers(t *testing.T) {
	var out bytes.Buffer
	log := NewConsoleWriter(ports.LevelDebug, &out, &out)
	log.Warn("plain")

	if strings.Contains(out.String(), "\033[") {
		t.Errorf("expected no ANSI codes, got %q", out.String())
	}
}

func TestNoopLogger(t *testing.T) {
	log := NewNoop()
	log.Info("nothing")
	if log.WithComponent("x") != log {
		t.Error("expected WithComponent to return the same no-op logger")
	}
}
