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
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/13anudhan2005-netizen/language-translator/internal/languages"
	"github.com/13anudhan2005-netizen/language-translator/internal/session"
	"github.com/13anudhan2005-netizen/language-translator/internal/speech"
)

const shellHelp = `Type text to translate it. Commands:
  :source CODE    set the source language (auto to detect)
  :target CODE    set the target language
  :speak FILE     save speech for the last translation to FILE
  :slow           toggle slow speech
  :history        show recent translations
  :clear          clear history
  :quit           exit`

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive translation session with history",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closeStore, err := buildWorkflow()
		if err != nil {
			return err
		}
		defer closeStore()

		sh := &shell{
			svc:    svc,
			sess:   session.New(),
			source: sourceLang,
			target: targetLang,
			out:    cmd.OutOrStdout(),
		}
		return sh.run(cmd.Context(), cmd.InOrStdin())
	},
}

type shell struct {
	svc    *session.Service
	sess   *session.Session
	source string
	target string
	slow   bool
	last   *session.Output
	out    io.Writer
}

func (sh *shell) run(ctx context.Context, in io.Reader) error {
	if ctx == nil {
		ctx = context.Background()
	}
	fmt.Fprintln(sh.out, shellHelp)
	sh.prompt()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			sh.prompt()
			continue
		}
		if strings.HasPrefix(line, ":") {
			if quit := sh.command(ctx, line); quit {
				return nil
			}
		} else {
			sh.translate(ctx, line)
		}
		sh.prompt()
	}
	return scanner.Err()
}

func (sh *shell) prompt() {
	fmt.Fprintf(sh.out, "[%s → %s]> ", languages.Label(sh.source), languages.Label(sh.target))
}

func (sh *shell) translate(ctx context.Context, text string) {
	if sh.target == "" {
		fmt.Fprintln(sh.out, "Set a target language first, e.g. :target es")
		return
	}
	out, err := sh.svc.Run(ctx, sh.sess, session.Input{Text: text, Source: sh.source, Target: sh.target})
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	sh.last = out
	if out.Detected {
		fmt.Fprintf(sh.out, "(detected %s)\n", out.SourceLabel)
	}
	fmt.Fprintln(sh.out, out.Output)
}

func (sh *shell) command(ctx context.Context, line string) (quit bool) {
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "quit", "q", "exit":
		return true
	case "help", "h":
		fmt.Fprintln(sh.out, shellHelp)
	case "source":
		code, ok := languages.Normalize(arg)
		if !ok {
			fmt.Fprintf(sh.out, "Unknown language %q\n", arg)
			return false
		}
		sh.source = code
	case "target":
		code, ok := languages.Normalize(arg)
		if !ok || code == languages.Auto {
			fmt.Fprintf(sh.out, "Invalid target language %q\n", arg)
			return false
		}
		sh.target = code
	case "slow":
		sh.slow = !sh.slow
		fmt.Fprintf(sh.out, "Slow speech: %v\n", sh.slow)
	case "speak":
		sh.speak(ctx, arg)
	case "history":
		sh.history(ctx)
	case "clear":
		if err := sh.svc.ClearHistory(ctx, sh.sess); err != nil {
			fmt.Fprintf(sh.out, "Error: %v\n", err)
			return false
		}
		fmt.Fprintln(sh.out, "History cleared.")
	default:
		fmt.Fprintf(sh.out, "Unknown command :%s (try :help)\n", name)
	}
	return false
}

func (sh *shell) speak(ctx context.Context, path string) {
	if sh.last == nil {
		fmt.Fprintln(sh.out, "Nothing to speak yet.")
		return
	}
	if path == "" {
		path = "translation.mp3"
	}
	audio, err := sh.svc.Speak(ctx, sh.last.Output, sh.last.TargetCode, sh.slow)
	if err != nil {
		fmt.Fprintf(sh.out, "Warning: audio unavailable: %v\n", err)
		return
	}
	if err := speech.WriteFile(path, audio); err != nil {
		fmt.Fprintf(sh.out, "Warning: %v\n", err)
		return
	}
	fmt.Fprintf(sh.out, "Audio saved to %s\n", path)
}

func (sh *shell) history(ctx context.Context) {
	entries, err := sh.svc.History(ctx, sh.sess)
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	if len(entries) == 0 {
		fmt.Fprintln(sh.out, "No translations yet.")
		return
	}

	w := tabwriter.NewWriter(sh.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LANGUAGES\tINPUT\tOUTPUT\tSERVICE")
	for _, e := range entries {
		in, out := e.Preview()
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Languages(), oneLine(in), oneLine(out), e.Backend)
	}
	w.Flush()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func init() {
	rootCmd.AddCommand(shellCmd)

	shellCmd.Flags().StringVarP(&sourceLang, "source", "s", languages.Auto, "Initial source language")
	shellCmd.Flags().StringVarP(&targetLang, "target", "t", "", "Initial target language")
}
