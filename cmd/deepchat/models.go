package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leofalp/deepchat/internal/utils"
	"github.com/leofalp/deepchat/providers/ai"
)

func newModelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the featured text-generation models",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			models, err := a.provider.ListModels(a.context(cmd.Context()))
			if err != nil {
				return err
			}
			return printModels(a.out, models, a.settings.Output)
		}),
	}
	cmd.Flags().StringP("output", "o", "table", "output format: table, yaml or json")
	return cmd
}

func printModels(out io.Writer, models []ai.Model, format string) error {
	switch format {
	case "", "table":
		_, err := fmt.Fprintln(out, modelTable(models))
		return err
	case "yaml":
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(models); err != nil {
			return fmt.Errorf("error encoding models: %w", err)
		}
		return encoder.Close()
	case "json":
		_, err := fmt.Fprintln(out, utils.JSONToString(models, true))
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func modelTable(models []ai.Model) string {
	table := uitable.New()
	table.MaxColWidth = 60
	table.Separator = "  "
	table.AddRow("MODEL", "MAX TOKENS", "QUANTIZATION", "DEPRECATED")
	for _, model := range models {
		maxTokens := "-"
		if model.MaxTokens != nil {
			maxTokens = strconv.Itoa(*model.MaxTokens)
		}
		quantization := model.Quantization
		if quantization == "" {
			quantization = "-"
		}
		table.AddRow(model.FullName, maxTokens, quantization, strconv.FormatBool(model.Deprecated))
	}
	return table.String()
}
