/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/13anudhan2005-netizen/language-translator/internal/languages"
	"github.com/13anudhan2005-netizen/language-translator/internal/markdown"
	"github.com/13anudhan2005-netizen/language-translator/internal/session"
	"github.com/13anudhan2005-netizen/language-translator/internal/speech"
)

var (
	inputFile  string
	outputFile string
	sourceLang string
	targetLang string
	speakFile  string
	slowSpeech bool
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate text, falling back across services",
	Long: `Translate text with the configured service chain. The first service that
returns a translation wins; the rest are not called.

Text comes from the argument, --input file, or standard input. Markdown input
files are reduced to plain text before translation.

Examples:
  lingo translate "Hello world" -t es
  lingo translate -i notes.md -t de -o notes.de.txt
  lingo translate "Good morning" -t fr --speak morning.mp3 --slow`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile != "" && inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		svc, _, closeStore, err := buildWorkflow()
		if err != nil {
			return err
		}
		defer closeStore()

		out, err := svc.Run(context.Background(), session.New(), session.Input{
			Text:   text,
			Source: sourceLang,
			Target: targetLang,
			Speak:  speakFile != "",
			Slow:   slowSpeech,
		})
		if err != nil {
			return err
		}

		if out.Detected {
			fmt.Fprintf(os.Stderr, "Detected source language: %s\n", out.SourceLabel)
		}

		if outputFile != "" {
			if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			if err := os.WriteFile(outputFile, []byte(out.Output), 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Successfully translated %s to %s via %s\n", out.SourceLabel, out.TargetLabel, out.Backend)
		} else {
			fmt.Println(out.Output)
		}

		if speakFile != "" {
			if out.Warning != "" {
				fmt.Fprintf(os.Stderr, "Warning: %s\n", out.Warning)
			} else if err := speech.WriteFile(speakFile, out.Audio); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			} else {
				fmt.Fprintf(os.Stderr, "Audio saved to %s\n", speakFile)
			}
		}
		return nil
	},
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case len(args) == 1 && inputFile != "":
		return "", fmt.Errorf("pass text as an argument or with --input, not both")
	case len(args) == 1:
		return args[0], nil
	case inputFile != "":
		raw, err := os.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		if markdown.IsMarkdownFile(inputFile) {
			return markdown.ToPlainText(raw), nil
		}
		return string(raw), nil
	default:
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read standard input: %w", err)
		}
		return strings.TrimRight(string(raw), "\n"), nil
	}
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file to translate (.md files are converted to plain text)")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the translation to this file instead of stdout")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", languages.Auto, "Source language code, or auto to detect")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "", "Target language code (required)")
	translateCmd.Flags().StringVar(&speakFile, "speak", "", "Also synthesize the translation to this MP3 file")
	translateCmd.Flags().BoolVar(&slowSpeech, "slow", false, "Slow speech when used with --speak")

	translateCmd.MarkFlagRequired("target")
}
