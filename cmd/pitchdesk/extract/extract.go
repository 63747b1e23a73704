package extractcmder

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pitchdeskco/pitchdesk/pkg/extract"
)

const extractLongDesc string = `Extract plain text from documents.

Supports .docx, .pptx, .xlsx, and .sql files. Unsupported types and
parse failures print the same descriptive strings the chat pipeline
folds into conversation context.

Examples:
  pitchdesk extract report.docx
  pitchdesk extract deck.pptx metrics.xlsx`

const extractShortDesc string = "Extract text from document files"

type extractCommander struct{}

func NewExtractCmd() *cobra.Command {
	cmder := &extractCommander{}

	cmd := &cobra.Command{
		Use:   "extract [files...]",
		Short: extractShortDesc,
		Long:  extractLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args)
		},
	}

	return cmd
}

func (c *extractCommander) run(cmd *cobra.Command, files []string) error {
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("could not read %s: %w", path, err)
		}

		result := extract.File(path, data)
		if len(files) > 1 {
			fmt.Fprintf(cmd.OutOrStdout(), "==> %s\n", path)
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Render())
	}
	return nil
}
