package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"bound-generator/internal/bounds"
	"bound-generator/internal/diagnostic"
	"bound-generator/internal/fixture"
	"bound-generator/internal/model"
)

func newInferCmd(cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "infer FILE...",
		Short: "Print the inferred where clause of every implementation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			r := &runner{
				cfg:    cfg,
				out:    cmd.OutOrStdout(),
				logger: newLogger(cmd.ErrOrStderr(), cfg.Verbose),
			}

			return r.finish(r.inferFiles(args))
		},
	}

	cmd.Flags().Bool("legacy-merge", false, "add only one side when unifying types from two known sets")
	cmd.Flags().Bool("dump", false, "print the equality sets of each implementation")
	cmd.Flags().Bool("sort", false, "print constraints sorted instead of in discovery order")
	cmd.Flags().IntP("jobs", "j", 0, "fixture files processed in parallel (0 = one per CPU)")

	return cmd
}

func newCheckCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate fixtures without running inference",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			r := &runner{
				cfg:    cfg,
				out:    cmd.OutOrStdout(),
				logger: newLogger(cmd.ErrOrStderr(), cfg.Verbose),
			}

			return r.finish(r.checkFiles(args))
		},
	}
}

// runner renders the results of one command invocation.
type runner struct {
	cfg    *Config
	out    io.Writer
	logger *log.Logger
	errors int
}

func (r *runner) finish(err error) error {
	if err != nil {
		return err
	}

	if r.cfg.Strict && r.errors > 0 {
		return &ExitError{Code: 2, Err: fmt.Errorf("%d error(s) reported", r.errors)}
	}

	return nil
}

func (r *runner) checkFiles(paths []string) error {
	for _, path := range paths {
		f, err := fixture.LoadFile(path)
		if err != nil {
			return err
		}

		diags := fixture.Validate(f)

		fmt.Fprintf(r.out, "== %s\n", path)
		printDiagnostics(r.out, diags.All())

		if diags.IsValid() {
			fmt.Fprintf(r.out, "ok: %d impl(s), %d callee(s)\n", len(f.Impls), len(f.Callees))
		}

		r.errors += len(diags.Errors)
	}

	return nil
}

// fileReport is the rendered outcome of one fixture file.
type fileReport struct {
	out    bytes.Buffer
	errors int
}

// inferFiles runs the files concurrently, each with its own model.Context,
// and prints the reports in argument order.
func (r *runner) inferFiles(paths []string) error {
	reports := make([]*fileReport, len(paths))

	var g errgroup.Group
	g.SetLimit(r.cfg.Jobs)

	for i, path := range paths {
		g.Go(func() error {
			f, err := fixture.LoadFile(path)
			if err != nil {
				return err
			}

			r.logger.Debug("loaded fixture", "path", path, "impls", len(f.Impls), "callees", len(f.Callees))

			rep := &fileReport{}
			fmt.Fprintf(&rep.out, "== %s\n", path)
			r.inferFile(rep, f)
			reports[i] = rep

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, rep := range reports {
		if _, err := rep.out.WriteTo(r.out); err != nil {
			return err
		}

		r.errors += rep.errors
	}

	return nil
}

func (r *runner) inferFile(rep *fileReport, f *fixture.File) {
	ctx := model.NewContext()

	impls, diags := fixture.Build(f, ctx)

	printDiagnostics(&rep.out, diags.All())
	rep.errors += len(diags.Errors)

	collector := bounds.NewCollector(bounds.Options{
		LegacyMerge: r.cfg.LegacyMerge,
		Logger:      r.logger,
		Names:       ctx,
	})

	for _, impl := range impls {
		res, err := collector.Collect(impl)
		if err != nil {
			rep.errors++
			printDiagnostics(&rep.out, []diagnostic.Diagnostic{diagnostic.FromError(impl.Name, err)})

			continue
		}

		constraints := res.Constraints.Constraints()
		if r.cfg.Sort {
			constraints = res.Constraints.Sorted(ctx)
		}

		if clause := ctx.WhereClause(constraints); clause != "" {
			fmt.Fprintf(&rep.out, "impl %s: %s\n", impl.Name, clause)
		} else {
			fmt.Fprintf(&rep.out, "impl %s: no bounds\n", impl.Name)
		}

		if r.cfg.Dump {
			spew.Fdump(&rep.out, res.Sets)
		}
	}
}

func printDiagnostics(w io.Writer, ds []diagnostic.Diagnostic) {
	for _, d := range ds {
		fmt.Fprintf(w, "%s: %s\n", d.Severity, d)

		for _, s := range d.Suggestions {
			fmt.Fprintf(w, "  hint: %s\n", s)
		}
	}
}
