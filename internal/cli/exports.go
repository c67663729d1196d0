package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/wasmlint/wasm"
)

func newExportsCommand() *cobra.Command {
	var validate bool
	cmd := &cobra.Command{
		Use:   "exports <module.wasm>...",
		Short: "List the export table of WebAssembly modules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := afs.New()
			out := cmd.OutOrStdout()
			for _, path := range args {
				exports, err := wasm.DecodeFile(cmd.Context(), fs, path)
				if err != nil {
					return &ExitError{Code: ExitFailure, Err: err}
				}
				if validate {
					data, err := fs.DownloadWithURL(cmd.Context(), path)
					if err == nil {
						err = wasm.Validate(cmd.Context(), data)
					}
					if err != nil {
						return &ExitError{Code: ExitFailure, Err: fmt.Errorf("invalid module %s: %w", path, err)}
					}
				}
				if len(args) > 1 {
					fmt.Fprintf(out, "%s:\n", path)
				}
				for _, export := range exports.Exports() {
					fmt.Fprintf(out, "%s\t%s\n", export.Name, export.Kind)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&validate, "validate", false, "also compile each module with wazero")
	return cmd
}
