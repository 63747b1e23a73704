package main

import (
	"os"

	"github.com/spf13/cobra"

	extractcmder "github.com/pitchdeskco/pitchdesk/cmd/pitchdesk/extract"
	servecmder "github.com/pitchdeskco/pitchdesk/cmd/pitchdesk/serve"
)

func main() {
	root := &cobra.Command{
		Use:   "pitchdesk",
		Short: "AI marketing assistant chat service",
		Long: `pitchdesk routes chat turns to a hosted generative-AI API,
folding uploaded document context into the conversation and selecting a
system persona from a fixed catalog.`,
	}

	root.AddCommand(servecmder.NewServeCmd())
	root.AddCommand(extractcmder.NewExtractCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
