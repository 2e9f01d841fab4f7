package main

import (
	"os"

	"github.com/spf13/cobra"

	"sheet-translator/internal/bootstrap"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sheet-translator",
		Short: "Translate spreadsheet columns into other languages",
		Long: `sheet-translator reads an .xlsx workbook, translates the selected
columns into each target language and writes one workbook per language.

Without a subcommand the desktop window is opened.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.New()
			if err != nil {
				return err
			}
			return app.Run()
		},
	}

	rootCmd.AddCommand(newTranslateCmd(), newColumnsCmd(), newLanguagesCmd())

	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}
