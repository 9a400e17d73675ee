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
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/13anudhan2005-netizen/language-translator/internal/detector"
	"github.com/13anudhan2005-netizen/language-translator/internal/languages"
)

var detectCmd = &cobra.Command{
	Use:   "detect [text]",
	Short: "Detect the language of text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		code, ok := detector.New().Detect(text)
		if !ok {
			return fmt.Errorf("could not detect language; %q would be used as the source", cfg.Dispatcher.DefaultSource)
		}
		fmt.Printf("%s\t%s\n", code, languages.Label(code))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
