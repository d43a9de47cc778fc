// Package render implements command line actions.
package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"stylo/registry"
	"stylo/sink"
	"stylo/state"
	"stylo/style"
)

// Compile is the action of compile command: every description of the sheet
// is resolved in capture mode, captured CSS and class map are written next
// to each other and capture is recorded in the ledger.
func Compile(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("compile")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no style sheet has been specified")
	}
	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		var err error
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	env.Overwrite = cmd.Bool("overwrite")
	if path := cmd.String("ledger"); len(path) > 0 {
		env.LedgerPath = path
	}

	log.Info("Compiling starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Compiling completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return compile(ctx, env, src, dst, log)
}

// Outputs names files produced from the sheet at src.
type Outputs struct {
	CSS     string
	Classes string
}

func outputsFor(src, dst string) Outputs {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return Outputs{
		CSS:     filepath.Join(dst, base+".css"),
		Classes: filepath.Join(dst, base+".classes.yaml"),
	}
}

func compile(ctx context.Context, env *state.LocalEnv, src, dst string, log *zap.Logger) (err error) {
	sheet, err := readSheet(src)
	if err != nil {
		return err
	}
	env.Rpt.Store("source/"+filepath.Base(src), src)
	if env.Rpt != nil {
		env.Rpt.StoreData("trees.txt", dumpTrees(sheet))
	}

	out := outputsFor(src, dst)
	if !env.Overwrite {
		for _, name := range []string{out.CSS, out.Classes} {
			if _, err := os.Stat(name); err == nil {
				return fmt.Errorf("output file already exists: %s", name)
			}
		}
	}

	r, err := env.NewRegistry(sink.Null{})
	if err != nil {
		return err
	}

	capture, classes, err := captureSheet(ctx, r, sheet)
	if err != nil {
		return err
	}
	log.Debug("Sheet captured", zap.String("session", capture.Session), zap.Int("styles", len(sheet)), zap.Int("bytes", len(capture.CSS)))

	if err := os.MkdirAll(dst, 0755); err != nil {
		return fmt.Errorf("unable to create destination directory: %w", err)
	}
	if err := os.WriteFile(out.CSS, []byte(capture.CSS), 0644); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}
	data, err := marshalClasses(classes)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out.Classes, data, 0644); err != nil {
		return fmt.Errorf("unable to write class map: %w", err)
	}
	env.Rpt.Store("result/"+filepath.Base(out.CSS), out.CSS)
	env.Rpt.Store("result/"+filepath.Base(out.Classes), out.Classes)

	l, err := env.OpenLedger()
	if err != nil {
		return err
	}
	if l == nil {
		return nil
	}
	defer func() {
		if er := l.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close ledger: %w", er))
		}
	}()
	if err := l.Record(ctx, capture); err != nil {
		return fmt.Errorf("unable to record capture: %w", err)
	}
	log.Info("Capture recorded", zap.String("session", capture.Session))
	return nil
}

func dumpTrees(sheet style.Sheet) []byte {
	var buf strings.Builder
	for _, n := range sheet {
		buf.WriteString(n.Name + ":\n")
		buf.WriteString(style.Split(n.Description).String())
	}
	return []byte(buf.String())
}

func readSheet(path string) (style.Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open style sheet: %w", err)
	}
	defer f.Close()

	sheet, err := style.LoadSheet(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sheet, nil
}

// captureSheet resolves every description of the sheet in capture mode and
// returns capture with class names in sheet order.
func captureSheet(ctx context.Context, r *registry.Registry, sheet style.Sheet) (registry.Capture, classMap, error) {
	if err := r.StartCapture(); err != nil {
		return registry.Capture{}, nil, err
	}
	classes := make(classMap, 0, len(sheet))
	for _, n := range sheet {
		if err := ctx.Err(); err != nil {
			_, _ = r.StopCapture()
			return registry.Capture{}, nil, err
		}
		classes = append(classes, class{name: n.Name, id: r.Resolve(n.Description)})
	}
	capture, err := r.StopCapture()
	return capture, classes, err
}

type class struct {
	name, id string
}

// classMap is written as YAML mapping of style names to class names in sheet
// order.
type classMap []class

func (m classMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, c := range m {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.id},
		)
	}
	return node, nil
}

func marshalClasses(m classMap) ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal class map: %w", err)
	}
	return data, nil
}
