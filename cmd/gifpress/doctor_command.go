package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gifpress/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check directories and external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cfg)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), doctorPayload(results))
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)
			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(stdout, line)
			}

			failed := 0
			for _, result := range results {
				if !result.Passed {
					failed++
				}
				fmt.Fprintln(stdout, renderCheckLine(result.Name, result.Passed, result.Detail, colorize))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(results))
			}
			fmt.Fprintln(stdout, "\nAll checks passed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print check results as JSON")
	return cmd
}

type doctorCheckJSON struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

func doctorPayload(results []preflight.Result) []doctorCheckJSON {
	payload := make([]doctorCheckJSON, 0, len(results))
	for _, result := range results {
		payload = append(payload, doctorCheckJSON{
			Name:   result.Name,
			Passed: result.Passed,
			Detail: result.Detail,
		})
	}
	return payload
}
