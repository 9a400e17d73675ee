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
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var checkBackends bool

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "Show the configured service chain in fallback order",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := buildServices(cfg.Backends)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		if checkBackends {
			fmt.Fprintln(w, "#\tNAME\tKIND\tSTATUS")
		} else {
			fmt.Fprintln(w, "#\tNAME\tKIND")
		}
		for i, svc := range services {
			kind := cfg.Backends[i].Kind
			if !checkBackends {
				fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, svc.Name(), kind)
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			status := "ok"
			if err := svc.IsAvailable(ctx); err != nil {
				status = "unavailable: " + err.Error()
			}
			cancel()
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, svc.Name(), kind, status)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(backendsCmd)

	backendsCmd.Flags().BoolVar(&checkBackends, "check", false, "Probe each service for availability")
}
