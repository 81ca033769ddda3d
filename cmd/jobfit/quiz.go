package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"jobfit-backend/internal/compat"
	"jobfit-backend/internal/quiz"
	"jobfit-backend/internal/viewer"
)

var (
	quizResume string
	quizJob    string
	quizPDF    string
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take the job quiz in the terminal and print the compatibility report",
	RunE:  runQuizCmd,
}

func init() {
	quizCmd.Flags().StringVarP(&quizResume, "resume", "r", "", "Path to the resume (PDF, DOCX or TXT)")
	quizCmd.Flags().StringVarP(&quizJob, "job", "j", "", "Job description text or a file path")
	quizCmd.Flags().StringVar(&quizPDF, "pdf", "", "Also write the report as a PDF to this path")
	_ = quizCmd.MarkFlagRequired("resume")
	_ = quizCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(quizCmd)
}

func runQuizCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	rd, err := readResume(ctx, quizResume)
	if err != nil {
		return err
	}
	jd, err := readText(quizJob)
	if err != nil {
		return err
	}
	client, closer, err := loadClient(ctx)
	if err != nil {
		return err
	}
	defer closeQuietly(closer)

	fmt.Fprintln(os.Stderr, "Generating quiz questions...")
	questions, err := quiz.NewGenerator(client).Generate(ctx, rd.Text, jd)
	if err != nil {
		return err
	}
	runner, err := quiz.NewRunner(questions)
	if err != nil {
		return err
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	result, err := takeQuiz(os.Stdin, os.Stdout, runner, interactive)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, "Analyzing results...")
	report, err := compat.NewAnalyzer(client).Analyze(ctx, rd.Text, jd, result)
	if err != nil {
		return err
	}
	view := viewer.Build(viewer.Input{
		FileName:       rd.FileName,
		JobDescription: jd,
		Quiz:           result,
		Analysis:       report,
		CreatedAt:      time.Now(),
	})
	if err := viewer.RenderText(os.Stdout, view); err != nil {
		return err
	}
	if quizPDF == "" {
		return nil
	}
	f, err := os.Create(quizPDF)
	if err != nil {
		return err
	}
	if err := viewer.RenderPDF(f, view); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// takeQuiz walks the runner using one line of input per step: A-D or 1-4
// answers and advances, p goes back, s submits. Prompts are only written
// when prompt is true.
func takeQuiz(in io.Reader, out io.Writer, r *quiz.Runner, prompt bool) (quiz.Result, error) {
	scanner := bufio.NewScanner(in)
	questions := r.Questions()
	for {
		st := r.State()
		q := questions[st.Index]
		answers := r.Answers()
		fmt.Fprintf(out, "\nQuestion %d of %d\n%s\n", st.Index+1, len(questions), q.Question)
		for i, opt := range q.Options {
			mark := " "
			if sel, ok := answers[st.Index]; ok && sel == i {
				mark = "*"
			}
			fmt.Fprintf(out, " %s %c) %s\n", mark, 'A'+i, opt)
		}
		if prompt {
			fmt.Fprint(out, "Answer [A-D], p = previous, s = submit: ")
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return quiz.Result{}, err
			}
			return quiz.Result{}, errors.New("input ended before the quiz was finished")
		}
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))

		switch line {
		case "p":
			_ = r.Previous()
			continue
		case "s":
			res, err := r.Submit()
			if err == nil {
				return res, nil
			}
			fmt.Fprintln(out, err.Error())
			continue
		}

		choice, ok := parseChoice(line, len(q.Options))
		if !ok {
			fmt.Fprintf(out, "Choose A-%c\n", 'A'+len(q.Options)-1)
			continue
		}
		if err := r.Answer(st.Index, choice); err != nil {
			return quiz.Result{}, err
		}
		done, err := r.Next()
		var ue *quiz.UnansweredError
		switch {
		case errors.As(err, &ue):
			fmt.Fprintln(out, ue.Error())
		case err != nil:
			return quiz.Result{}, err
		case done:
			res, _ := r.Result()
			return res, nil
		}
	}
}

func parseChoice(s string, n int) (int, bool) {
	if len(s) == 1 && s[0] >= 'a' && int(s[0]-'a') < n {
		return int(s[0] - 'a'), true
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 1 && v <= n {
		return v - 1, true
	}
	return 0, false
}
