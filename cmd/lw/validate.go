package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/litweb/internal/bib"
	"github.com/matsen/litweb/internal/config"
	"github.com/matsen/litweb/internal/rdf"
	"github.com/matsen/litweb/internal/transform"
)

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "RDF export file (auto-detected when omitted)")
}

var validateInput string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check an RDF export without building",
	Long: `Parse, extract, and transform an RDF export, reporting every error
and warning without writing any output.`,
	RunE: runValidate,
}

// ValidationResponse is the response for the validate command.
type ValidationResponse struct {
	Valid       bool     `json:"valid"`
	Input       string   `json:"input"`
	Items       int      `json:"items"`
	Collections int      `json:"collections"`
	Errors      []string `json:"errors,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	input := validateInput
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

	resp := ValidationResponse{Input: input}

	graph, parseWarnings, err := rdf.ParseFile(input)
	resp.Warnings = append(resp.Warnings, parseWarnings...)
	if err != nil {
		if errors.Is(err, rdf.ErrNotFound) {
			exitWithError(ExitNotFound, "%v", err)
		}
		resp.Errors = append(resp.Errors, err.Error())
		emitValidation(resp)
		return nil
	}

	graphWarnings, err := rdf.ValidateGraph(graph)
	resp.Warnings = append(resp.Warnings, graphWarnings...)
	if err != nil {
		resp.Errors = append(resp.Errors, err.Error())
	}

	rawItems, itemWarnings := rdf.ExtractItems(graph)
	resp.Warnings = append(resp.Warnings, itemWarnings...)
	rawCollections, colWarnings := rdf.ExtractCollections(graph)
	resp.Warnings = append(resp.Warnings, colWarnings...)
	rdf.AssignCollections(rawItems, rawCollections)

	tr := transform.New()
	var items []*bib.Item
	for _, raw := range rawItems {
		item, err := tr.TransformItem(raw)
		if err != nil {
			resp.Errors = append(resp.Errors, err.Error())
			continue
		}
		items = append(items, item)
	}
	var collections []*bib.Collection
	for _, raw := range rawCollections {
		col, err := tr.TransformCollection(raw)
		if err != nil {
			resp.Warnings = append(resp.Warnings, err.Error())
			continue
		}
		collections = append(collections, col)
	}
	resp.Warnings = append(resp.Warnings, tr.Warnings()...)

	valErrors, valWarnings := bib.SplitIssues(transform.ValidateTransformed(items, collections))
	resp.Errors = append(resp.Errors, valErrors...)
	resp.Warnings = append(resp.Warnings, valWarnings...)

	resp.Items = len(items)
	resp.Collections = len(collections)
	resp.Valid = len(resp.Errors) == 0

	emitValidation(resp)
	return nil
}

func emitValidation(resp ValidationResponse) {
	if humanOutput {
		if resp.Valid {
			fmt.Printf("OK: %d items, %d collections\n", resp.Items, resp.Collections)
		} else {
			fmt.Printf("INVALID: %d errors\n", len(resp.Errors))
		}
		for _, e := range resp.Errors {
			fmt.Printf("  error: %s\n", e)
		}
		for _, w := range resp.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
	} else {
		outputJSON(resp)
	}

	if !resp.Valid {
		os.Exit(ExitDataError)
	}
}
