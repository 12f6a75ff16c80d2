package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/snipcat/pkg/core"
	"github.com/aretw0/snipcat/pkg/markdown"
)

var (
	tocWrite bool
	tocDoc   string
)

var tocCmd = &cobra.Command{
	Use:   "toc",
	Short: "Generate the table of contents from the headings",
	Long: `Print the table of contents generated from the category and entry
headings of each document. With --write the TOC block of each document is
replaced in place (or inserted before the first category).`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, cfg, err := openService(ctx)
		if err != nil {
			fatal("Error opening catalog", err)
		}

		docs := svc.Documents()
		if tocDoc != "" {
			doc, err := svc.Document(tocDoc)
			if err != nil {
				fatal("Error reading document", err)
			}
			docs = []core.Document{doc}
		}

		opts := markdown.Options{TOCHeadings: cfg.TOCHeadings}
		out := cmd.OutOrStdout()

		for _, doc := range docs {
			if len(doc.Categories) == 0 {
				continue
			}
			toc := markdown.RenderTOC(&doc)

			if !tocWrite {
				if len(docs) > 1 {
					fmt.Fprintf(out, "<!-- %s -->\n", doc.ID)
				}
				fmt.Fprint(out, toc)
				continue
			}

			updated, err := markdown.ReplaceTOC(doc.Content, toc, opts)
			if err != nil {
				fatal("Error updating TOC of "+doc.ID, err)
			}
			if updated == doc.Content {
				continue
			}
			doc.Content = updated
			if err := svc.SaveDocument(ctx, doc); err != nil {
				fatal("Error saving "+doc.ID, err)
			}
			fmt.Fprintf(out, "updated %s\n", doc.ID)
		}
	},
}

func init() {
	rootCmd.AddCommand(tocCmd)
	tocCmd.Flags().BoolVarP(&tocWrite, "write", "w", false, "Rewrite the TOC block in place")
	tocCmd.Flags().StringVar(&tocDoc, "doc", "", "Only process the document with this ID")
}
