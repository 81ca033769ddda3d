package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jobfit-backend/internal/skills"
)

var (
	skillsJob    string
	skillsResume string
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List the key skills in a job description, and rate a resume against them",
	RunE:  runSkills,
}

func init() {
	skillsCmd.Flags().StringVarP(&skillsJob, "job", "j", "", "Job description text, a file path, or - for stdin")
	skillsCmd.Flags().StringVarP(&skillsResume, "resume", "r", "", "Optional resume file to rate")
	_ = skillsCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(skillsCmd)
}

func runSkills(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	jd, err := readText(skillsJob)
	if err != nil {
		return err
	}
	client, closer, err := loadClient(ctx)
	if err != nil {
		return err
	}
	defer closeQuietly(closer)
	extractor := skills.NewExtractor(client)

	var out any
	if skillsResume == "" {
		keys, err := extractor.KeySkills(ctx, jd)
		if err != nil {
			return err
		}
		out = skills.Insights{KeySkills: keys}
	} else {
		rd, err := readResume(ctx, skillsResume)
		if err != nil {
			return err
		}
		ins, err := extractor.Insights(ctx, rd.Text, jd)
		if err != nil {
			return err
		}
		out = ins
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}
