package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"gifpress/internal/preset"
)

func newPresetsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "presets",
		Short:       "List the quality presets",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), presetPayload())
			}

			caser := cases.Title(language.Und)
			rows := make([][]string, 0, len(preset.List()))
			for _, p := range preset.List() {
				rows = append(rows, []string{
					caser.String(p.Name),
					presetRate(p.FPS),
					strconv.Itoa(p.Width),
					strconv.Itoa(p.Colors),
					p.Description,
				})
			}

			table := renderTable(
				[]string{"Preset", "FPS", "Width", "Colors", "Description"},
				rows,
				1, 2, 3,
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			fmt.Fprintf(cmd.OutOrStdout(), "Default preset: %s\n", preset.DefaultName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print presets as JSON")
	return cmd
}

func presetRate(fps int) string {
	if fps == preset.SourceFPS {
		return "source"
	}
	return strconv.Itoa(fps)
}

type presetJSON struct {
	Name        string `json:"name"`
	FPS         string `json:"fps"`
	Width       int    `json:"width"`
	Colors      int    `json:"colors"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
}

func presetPayload() []presetJSON {
	list := preset.List()
	payload := make([]presetJSON, 0, len(list))
	for _, p := range list {
		payload = append(payload, presetJSON{
			Name:        p.Name,
			FPS:         presetRate(p.FPS),
			Width:       p.Width,
			Colors:      p.Colors,
			Description: p.Description,
			Default:     p.Name == preset.DefaultName,
		})
	}
	return payload
}
