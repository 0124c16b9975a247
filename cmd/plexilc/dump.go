package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"plexilc/internal/compiler"
	"plexilc/internal/diag"
	"plexilc/internal/diagfmt"
	"plexilc/internal/source"
	"plexilc/internal/syntax"
)

func newDumpCmd() *cobra.Command {
	var scopes, raw bool
	cmd := &cobra.Command{
		Use:   "dump [flags] <plan.pli>",
		Short: "Print the analysed tree of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			fileSet := source.NewFileSet()
			id, err := syntax.Load(fileSet, args[0])
			if err != nil {
				return err
			}
			tree, err := syntax.Decode(fileSet.Get(id))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			opts := compiler.Options{
				FileName:       args[0],
				MaxDiagnostics: s.cfg.Compile.MaxDiagnostics,
				SemanticsOnly:  true,
				Rewrite:        !raw && s.cfg.Compile.Rewrite,
			}
			res, err := compiler.Compile(s.context(cmd), id, tree, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res.Unit != nil {
				fmt.Fprint(out, res.Unit.Tree.Dump(res.Unit.Tree.Root))
				if scopes {
					fmt.Fprint(out, res.Unit.Table.Dump())
				}
			}
			if err := diagfmt.Text(cmd.ErrOrStderr(), res.Bag, fileSet, diagfmt.TextOpts{Color: s.color, ShowNotes: true}); err != nil {
				return err
			}
			if code := diag.ExitStatus(res.MaxSeverity); code != 0 {
				return exitError{code: code}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&scopes, "scopes", false, "also print the scope tree")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the tree before rewriting")
	return cmd
}
