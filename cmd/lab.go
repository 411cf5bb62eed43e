package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joescharf/portfolio/internal/lab"
	"github.com/joescharf/portfolio/internal/output"
)

var labKeywords []string

var labCmd = &cobra.Command{
	Use:   "lab",
	Short: "Run the ML lab widgets from the terminal",
}

var labSentimentCmd = &cobra.Command{
	Use:   "sentiment [text]",
	Short: "Label text as Positive, Negative or Neutral",
	Long:  "Score text against the sentiment lexicon. Reads stdin when no text is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := labInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		return labSentimentRun(text)
	},
}

var labResumeCmd = &cobra.Command{
	Use:   "resume [text]",
	Short: "Score resume keyword coverage",
	Long: `Report which stack keywords appear in the resume text. Reads stdin when
no text is given. Keywords default to the content's resume widget list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := labInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		return labResumeRun(text)
	},
}

func init() {
	labResumeCmd.Flags().StringSliceVar(&labKeywords, "keywords", nil, "Comma-separated keywords (overrides content)")

	labCmd.AddCommand(labSentimentCmd)
	labCmd.AddCommand(labResumeCmd)
	rootCmd.AddCommand(labCmd)
}

// labInput joins args, or reads all of r when there are none.
func labInput(r io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if f, ok := r.(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return "", fmt.Errorf("no text given (pass it as an argument or pipe it on stdin)")
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("no text given (pass it as an argument or pipe it on stdin)")
	}
	return text, nil
}

func labSentimentRun(text string) error {
	res := lab.Sentiment(text)
	fmt.Fprintf(ui.Out, "%s (score %.3f)\n", output.SentimentColor(res.Label), res.Score)
	ui.VerboseLog("%d words, %d positive, %d negative", res.Words, res.Positive, res.Negative)
	return nil
}

func labResumeRun(text string) error {
	keywords := labKeywords
	if len(keywords) == 0 {
		c, err := getContent()
		if err != nil {
			return err
		}
		keywords = c.ResumeKeywords()
	}

	res := lab.ScoreResume(text, keywords)
	fmt.Fprintf(ui.Out, "Coverage: %s (%d/%d)\n", output.CoverageColor(res.Coverage), len(res.Hits), res.Total)
	if len(res.Hits) > 0 {
		fmt.Fprintf(ui.Out, "Matched:  %s\n", strings.Join(res.Hits, ", "))
	}
	return nil
}
