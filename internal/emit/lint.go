package emit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/vk/irgen/internal/ctxlog"
	"github.com/vk/irgen/internal/dialect"
)

// LintBinder validates the bytes of an inner binder against the official
// XSD with an external xmllint process. Schemas are looked up as
// <Dir>/<revision>/index.xsd, e.g. xsd/1685-2014/index.xsd.
type LintBinder struct {
	Inner Binder
	Dir   string
	// Command is the validator executable; "xmllint" when empty.
	Command string

	path string
}

// NewLintBinder wraps inner with XSD validation from dir.
func NewLintBinder(inner Binder, dir string) *LintBinder {
	return &LintBinder{Inner: inner, Dir: dir}
}

func (b *LintBinder) Start(ctx context.Context) error {
	name := b.Command
	if name == "" {
		name = "xmllint"
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("schema validator not available: %w", err)
	}
	b.path = path
	return b.Inner.Start(ctx)
}

func (b *LintBinder) Close() error {
	return b.Inner.Close()
}

func (b *LintBinder) Bind(ctx context.Context, tree *dialect.Tree) ([]byte, error) {
	data, err := b.Inner.Bind(ctx, tree)
	if err != nil {
		return nil, err
	}

	xsd := filepath.Join(b.Dir, tree.Version.String(), "index.xsd")
	if _, err := os.Stat(xsd); err != nil {
		return nil, fmt.Errorf("schema for %s: %w", tree.Version, err)
	}

	cmd := exec.CommandContext(ctx, b.path, "--noout", "--schema", xsd, "-")
	cmd.Stdin = bytes.NewReader(data)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, errors.New(msg)
	}
	ctxlog.FromContext(ctx).Debug("Document validated against schema.", "xsd", xsd)
	return data, nil
}
