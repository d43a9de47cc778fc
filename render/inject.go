package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"stylo/css"
	"stylo/ledger"
	"stylo/registry"
	"stylo/sink"
	"stylo/state"
)

// BindAttribute references sheet styles from HTML elements.
const BindAttribute = "data-style"

// Inject is the action of inject command: elements of HTML document which
// reference sheet styles get class names and CSS not yet present in the
// document is appended to its style element.
func Inject(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("inject")

	src, doc := cmd.Args().Get(0), cmd.Args().Get(1)
	if len(src) == 0 || len(doc) == 0 {
		return errors.New("both style sheet and html document must be specified")
	}
	dst := cmd.Args().Get(2)
	if cmd.Args().Len() > 3 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[3:]))
	}
	env.Overwrite = cmd.Bool("overwrite")
	if path := cmd.String("ledger"); len(path) > 0 {
		env.LedgerPath = path
	}

	log.Info("Injecting starting", zap.String("sheet", src), zap.String("document", doc))
	defer func(start time.Time) {
		log.Info("Injecting completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	if len(dst) > 0 && !env.Overwrite {
		if _, err := os.Stat(dst); err == nil {
			return fmt.Errorf("output file already exists: %s", dst)
		}
	}

	// document is rendered completely before destination is touched, it may
	// be the source document itself
	var buf bytes.Buffer
	if err := inject(ctx, env, src, doc, &buf, log); err != nil {
		return err
	}
	if len(dst) == 0 {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(dst, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("unable to write destination file '%s': %w", dst, err)
	}
	env.Rpt.Store("result/"+filepath.Base(dst), dst)
	return nil
}

func inject(ctx context.Context, env *state.LocalEnv, src, doc string, out io.Writer, log *zap.Logger) (err error) {
	sheet, err := readSheet(src)
	if err != nil {
		return err
	}

	f, err := os.Open(doc)
	if err != nil {
		return fmt.Errorf("unable to open html document: %w", err)
	}
	document, err := sink.ParseDocument(f, env.Cfg.Sink.StyleAttribute, env.Log)
	f.Close()
	if err != nil {
		return err
	}

	r, err := env.NewRegistry(document)
	if err != nil {
		return err
	}
	if n := r.RehydrateFromCSS(document.Text()); n > 0 {
		log.Debug("Classes found in document", zap.Int("count", n))
	}

	l, err := env.OpenLedger()
	if err != nil {
		return err
	}
	if l != nil {
		defer func() {
			if er := l.Close(); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to close ledger: %w", er))
			}
		}()
		if err := rehydrateFromLedger(ctx, env, l, r, document, log); err != nil {
			return err
		}
	}

	bound := document.Bind(BindAttribute, func(name string) (string, bool) {
		d := sheet.Get(name)
		if d == nil {
			log.Warn("Document references unknown style", zap.String("name", name))
			return "", false
		}
		return r.Resolve(d), true
	})
	log.Debug("Styles bound", zap.Int("elements", bound))

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := document.Render(out); err != nil {
		return fmt.Errorf("unable to write html document: %w", err)
	}
	return nil
}

// rehydrateFromLedger marks recorded classes as emitted. Recorded CSS lives
// outside of the document, so it is appended to the style element first
// unless the document already carries every recorded class.
func rehydrateFromLedger(ctx context.Context, env *state.LocalEnv, l *ledger.Ledger, r *registry.Registry, document *sink.Document, log *zap.Logger) error {
	sessions, err := l.Sessions(ctx)
	if err != nil {
		return fmt.Errorf("unable to read ledger: %w", err)
	}
	if sessions == 0 {
		return nil
	}
	text, err := l.Stylesheet(ctx)
	if err != nil {
		return fmt.Errorf("unable to read ledger: %w", err)
	}
	ids, err := l.Identifiers(ctx)
	if err != nil {
		return fmt.Errorf("unable to read ledger: %w", err)
	}

	var missing int
	for _, id := range css.NewScanner(log).Classes([]byte(text), env.Cfg.Compiler.ClassPrefix) {
		if !r.Emitted(id) {
			missing++
		}
	}
	if missing > 0 {
		if err := document.Append(text); err != nil {
			return fmt.Errorf("unable to add recorded styles to document: %w", err)
		}
		log.Debug("Recorded styles added to document", zap.Int("sessions", sessions), zap.Int("missing", missing))
	}
	r.Rehydrate(ids...)
	log.Debug("Classes found in ledger", zap.Int("count", len(ids)))
	return nil
}
