package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	extractInput string
	extractJSON  bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the text extracted from a PDF, DOCX or TXT resume",
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractInput, "in", "i", "", "Path to the resume file")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Print {text, fileName} JSON instead of plain text")
	_ = extractCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	rd, err := readResume(cmd.Context(), extractInput)
	if err != nil {
		return err
	}
	if !extractJSON {
		_, err = fmt.Fprintln(os.Stdout, rd.Text)
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rd)
}
