package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// CommandEngine invokes the tesseract command-line binary for each pass.
//
// Shelling out keeps the engine a true external collaborator: it is the only
// engine that natively emits both hOCR and TSV, and it needs no CGO. The
// binary must be on PATH (or set Binary explicitly).
type CommandEngine struct {
	// Binary is the tesseract executable; defaults to "tesseract".
	Binary string

	// available caches the LookPath probe from NewCommandEngine.
	available bool
}

// NewCommandEngine constructs a CLI-backed engine and probes for the binary.
// An empty binary means "tesseract" from PATH.
func NewCommandEngine(binary string) *CommandEngine {
	if binary == "" {
		binary = "tesseract"
	}
	e := &CommandEngine{Binary: binary}
	_, err := exec.LookPath(e.Binary)
	e.available = err == nil
	return e
}

// Available reports whether the tesseract binary was found on PATH.
func (e *CommandEngine) Available() bool { return e.available }

func (e *CommandEngine) Name() string { return "tesseract-cli" }

// Recognize runs one (image, psm, format) pass and returns the raw engine
// output. A non-zero exit is an engine-invocation failure and aborts the
// whole extraction for that image.
func (e *CommandEngine) Recognize(ctx context.Context, req Request) (string, error) {
	if !e.available {
		return "", fmt.Errorf("%w: %s not found on PATH", ErrEngineUnavailable, e.binary())
	}

	dpi := req.DPI
	if dpi <= 0 {
		dpi = 300
	}
	cmd := exec.CommandContext(ctx, e.binary(),
		req.ImagePath, "stdout",
		"-l", req.Languages,
		"--oem", "1",
		"--psm", strconv.Itoa(int(req.Mode)),
		"--dpi", strconv.Itoa(dpi),
		string(req.Format),
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract failed: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// AvailableLanguages enumerates the language packs the installed engine can
// load, via `tesseract --list-langs`.
func (e *CommandEngine) AvailableLanguages(ctx context.Context) ([]string, error) {
	if !e.available {
		return nil, fmt.Errorf("%w: %s not found on PATH", ErrEngineUnavailable, e.binary())
	}

	cmd := exec.CommandContext(ctx, e.binary(), "--list-langs")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("tesseract --list-langs failed: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}

	// First line is the "List of available languages" banner.
	var langs []string
	for i, line := range strings.Split(stdout.String(), "\n") {
		if i == 0 {
			continue
		}
		if v := strings.TrimSpace(line); v != "" {
			langs = append(langs, v)
		}
	}
	return langs, nil
}

func (e *CommandEngine) binary() string {
	if e.Binary == "" {
		return "tesseract"
	}
	return e.Binary
}
