package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/litweb/internal/bib"
	"github.com/matsen/litweb/internal/config"
	"github.com/matsen/litweb/internal/pdfmeta"
	"github.com/matsen/litweb/internal/rdf"
	"github.com/matsen/litweb/internal/transform"
)

func init() {
	rootCmd.AddCommand(attachmentsCmd)

	attachmentsCmd.Flags().StringVarP(&attachmentsInput, "input", "i", "", "RDF export file (auto-detected when omitted)")
}

var attachmentsInput string

var attachmentsCmd = &cobra.Command{
	Use:   "attachments",
	Short: "Audit attachment files referenced by the export",
	Long: `Check that every attachment path in the export exists on disk,
relative to the export's directory. For items without a DOI whose PDF is
present, scan the PDF's first pages and suggest one.`,
	RunE: runAttachments,
}

// AttachmentStatus is one audited attachment.
type AttachmentStatus struct {
	ItemID       string `json:"item_id"`
	ItemTitle    string `json:"item_title"`
	AttachmentID string `json:"attachment_id"`
	Path         string `json:"path"`
	Exists       bool   `json:"exists"`
	SuggestedDOI string `json:"suggested_doi,omitempty"`
}

// AttachmentsResponse is the response for the attachments command.
type AttachmentsResponse struct {
	Total       int                `json:"total"`
	Missing     int                `json:"missing"`
	Suggestions int                `json:"suggestions"`
	Attachments []AttachmentStatus `json:"attachments"`
}

func runAttachments(cmd *cobra.Command, args []string) error {
	input := attachmentsInput
	if input == "" {
		root := projectRoot()
		input = resolveProjectPath(root, loadProjectConfig(root).InputFile)
	}
	if input == "" {
		detected, err := detectInput(".")
		if err != nil {
			exitWithError(ExitNotFound, "%v", err)
		}
		input = detected
	}
	input = config.ExpandPath(input)

	graph, _, err := rdf.ParseFile(input)
	if err != nil {
		exitWithError(ExitNotFound, "%v", err)
	}

	rawItems, _ := rdf.ExtractItems(graph)
	tr := transform.New()
	var items []*bib.Item
	for _, raw := range rawItems {
		item, err := tr.TransformItem(raw)
		if err != nil {
			continue
		}
		items = append(items, item)
	}

	resolver := pdfmeta.NewResolver(filepath.Dir(input))
	resp := auditAttachments(items, resolver)

	if humanOutput {
		printAttachmentsHuman(resp)
	} else {
		outputJSON(resp)
	}
	return nil
}

func auditAttachments(items []*bib.Item, resolver *pdfmeta.Resolver) AttachmentsResponse {
	resp := AttachmentsResponse{Attachments: []AttachmentStatus{}}

	for _, item := range items {
		for _, att := range item.Attachments {
			if att.URL == "" || isRemote(att.URL) {
				continue
			}

			status := AttachmentStatus{
				ItemID:       item.ID,
				ItemTitle:    item.Title,
				AttachmentID: att.ID,
				Path:         att.URL,
			}
			resp.Total++

			fullPath, err := resolver.Resolve(att.URL)
			if err != nil {
				resp.Missing++
				resp.Attachments = append(resp.Attachments, status)
				continue
			}
			status.Exists = true

			if item.DOI == "" && isPDF(att) {
				if doi, err := pdfmeta.ExtractDOI(fullPath); err == nil && doi != "" {
					status.SuggestedDOI = doi
					resp.Suggestions++
				}
			}
			resp.Attachments = append(resp.Attachments, status)
		}
	}
	return resp
}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

func isPDF(att bib.Attachment) bool {
	return att.Type == "application/pdf" || strings.HasSuffix(strings.ToLower(att.URL), ".pdf")
}

func printAttachmentsHuman(resp AttachmentsResponse) {
	fmt.Printf("%d attachments checked, %d missing, %d DOI suggestions\n\n", resp.Total, resp.Missing, resp.Suggestions)
	for _, a := range resp.Attachments {
		mark := "ok"
		if !a.Exists {
			mark = "MISSING"
		}
		fmt.Printf("[%s] %s\n", mark, a.Path)
		fmt.Printf("     %s\n", truncateString(a.ItemTitle, 70))
		if a.SuggestedDOI != "" {
			fmt.Printf("     suggested DOI: %s\n", a.SuggestedDOI)
		}
	}
}
