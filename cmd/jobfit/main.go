// Command jobfit runs the resume-to-job workflow from a terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"jobfit-backend/internal/bootstrap"
	"jobfit-backend/internal/extract"
	"jobfit-backend/internal/llm"
	"jobfit-backend/internal/shared/config"
)

var rootCmd = &cobra.Command{
	Use:   "jobfit",
	Short: "Quiz yourself against a job description and get a compatibility report",
	Long: "jobfit extracts text from a resume, generates a five-question quiz from a job description, " +
		"scores your answers and asks the configured model for a compatibility report.",
	SilenceUsage: true,
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadClient builds the provider client the same way the API server does.
func loadClient(ctx context.Context) (llm.Client, io.Closer, error) {
	cfg := config.Load()
	return bootstrap.BuildLLM(ctx, cfg)
}

// readResume extracts text from a resume file.
func readResume(ctx context.Context, path string) (extract.ResumeData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return extract.ResumeData{}, fmt.Errorf("read resume: %w", err)
	}
	return extract.FromBytes(ctx, data, "", path)
}

// readText returns the file contents, or the flag value itself when it is not a file.
func readText(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if value == "-" {
		data, err := io.ReadAll(os.Stdin)
		return strings.TrimSpace(string(data)), err
	}
	if data, err := os.ReadFile(value); err == nil {
		return strings.TrimSpace(string(data)), nil
	}
	return strings.TrimSpace(value), nil
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
