// Package emit serialises a dialect tree through a Binder and writes the
// resulting document.
package emit

import (
	"context"
	"fmt"
	"io"

	"github.com/vk/irgen/internal/ctxlog"
	"github.com/vk/irgen/internal/dialect"
	"github.com/vk/irgen/internal/model"
)

// Binder turns a tree into document bytes. Any error from Start or Bind is
// a schema complaint and is reported verbatim.
type Binder interface {
	Start(ctx context.Context) error
	Bind(ctx context.Context, tree *dialect.Tree) ([]byte, error)
	Close() error
}

// Emitter drives one Binder.
type Emitter struct {
	binder Binder
}

// NewEmitter returns an Emitter backed by b.
func NewEmitter(b Binder) *Emitter {
	return &Emitter{binder: b}
}

// Emit starts the binder, binds tree and writes the bytes to w. The binder
// is closed on every path once Start succeeded. Failures are not retried.
func (e *Emitter) Emit(ctx context.Context, tree *dialect.Tree, w io.Writer) (err error) {
	logger := ctxlog.FromContext(ctx)

	if err := e.binder.Start(ctx); err != nil {
		return rejected(tree, err)
	}
	defer func() {
		if cerr := e.binder.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing document binder: %w", cerr)
		}
	}()

	data, err := e.binder.Bind(ctx, tree)
	if err != nil {
		return rejected(tree, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	logger.Debug("Document emitted.", "version", tree.Version.String(), "bytes", len(data))
	return nil
}

func rejected(tree *dialect.Tree, err error) error {
	e := &model.Error{Kind: model.KindSchemaRejected, Err: err}
	if tree != nil {
		e = e.WithValue(tree.Version.String())
	}
	return e
}
