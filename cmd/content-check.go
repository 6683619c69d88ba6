/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eslsoft/parcours/internal/content"
	"github.com/eslsoft/parcours/internal/entity"
	"github.com/eslsoft/parcours/internal/infrastructure/config"
)

// contentCheckCmd validates a lesson catalog without starting the server
var contentCheckCmd = &cobra.Command{
	Use:   "content-check [catalog.json]",
	Short: "Validate a lesson catalog file",
	Long:  "Parses and validates a lesson catalog: schema shape, duplicate ids, dangling references and prerequisite cycles. Exits non-zero when the catalog is rejected.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			path = cfg.Content.Path
		}

		graph, err := content.LoadGraph(path)
		if err != nil {
			var cfgErr *entity.ConfigError
			if errors.As(err, &cfgErr) {
				cmd.PrintErrf("catalog rejected: %s\n", cfgErr.Reason)
				for _, ref := range cfgErr.Dangling {
					cmd.PrintErrf("  dangling reference: %s\n", ref)
				}
				if len(cfgErr.Cycle) > 0 {
					cmd.PrintErrf("  cycle: %v\n", cfgErr.Cycle)
				}
			}
			return err
		}

		cmd.Printf("catalog ok: %d modules, %d lessons, %d achievements\n",
			len(graph.Modules()), len(graph.Lessons()), len(graph.Achievements()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(contentCheckCmd)
}
