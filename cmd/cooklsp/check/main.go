package check

import (
	"context"
	"fmt"
	"io/fs"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/cooklsp/pkg/position"
	"github.com/walteh/cooklsp/pkg/recipe"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

type Handler struct {
	jobs int
}

func NewCheckCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "parse recipe files and report diagnostics",
	}

	cmd.Flags().IntVar(&me.jobs, "jobs", runtime.NumCPU(), "number of files checked in parallel")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}
		return me.Run(cmd.Context(), afero.NewOsFs(), args)
	}

	return cmd
}

type fileReport struct {
	path        string
	diagnostics []recipe.Diagnostic
	lines       *position.LineIndex
}

func (me *Handler) Run(ctx context.Context, fsys afero.Fs, paths []string) error {
	files, err := collectRecipeFiles(fsys, paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no .cook files found")
	}

	reports := make([]fileReport, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(me.jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := afero.ReadFile(fsys, path)
			if err != nil {
				return errors.Errorf("reading %s: %w", path, err)
			}
			_, diags := recipe.Parse(string(content))
			reports[i] = fileReport{
				path:        path,
				diagnostics: diags,
				lines:       position.NewLineIndex(string(content)),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var failures error
	for _, report := range reports {
		printReport(report)
		for _, d := range report.diagnostics {
			if d.Severity == recipe.SeverityError {
				failures = multierr.Append(failures,
					errors.Errorf("%s: %s", report.path, d.Message))
			}
		}
	}

	if failures != nil {
		return errors.Errorf("found problems in %d file(s): %w",
			len(multierr.Errors(failures)), failures)
	}
	return nil
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	okColor      = color.New(color.FgGreen)

	printMu sync.Mutex
)

func printReport(report fileReport) {
	printMu.Lock()
	defer printMu.Unlock()

	if len(report.diagnostics) == 0 {
		okColor.Printf("ok    %s\n", report.path)
		return
	}

	fmt.Println(report.path)
	for _, d := range report.diagnostics {
		paint := warningColor
		if d.Severity == recipe.SeverityError {
			paint = errorColor
		}

		place := position.Place{}
		if primary, ok := d.Primary(); ok {
			place = report.lines.LineCol(primary.Span.Start)
		}
		paint.Printf("  %s", d.Severity)
		fmt.Printf(" %d:%d %s\n", place.Line+1, place.Character+1, d.Message)
	}
}

func collectRecipeFiles(fsys afero.Fs, paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := fsys.Stat(path)
		if err != nil {
			return nil, errors.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = afero.Walk(fsys, path, func(p string, d fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(p, ".cook") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Errorf("walking %s: %w", path, err)
		}
	}
	sort.Strings(files)
	// overlapping path arguments produce adjacent duplicates
	out := files[:0]
	for i, f := range files {
		if i == 0 || f != files[i-1] {
			out = append(out, f)
		}
	}
	return out, nil
}
