package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

var OutputFormats = []OutputFormat{OutputText, OutputJSON, OutputYAML}

func ParseOutputFormat(value string) (OutputFormat, error) {
	for _, format := range OutputFormats {
		if strings.EqualFold(value, string(format)) {
			return format, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q, must be one of %v", value, OutputFormats)
}

func writeStructured(w io.Writer, format OutputFormat, value any) error {
	switch format {
	case OutputJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(value); err != nil {
			return fmt.Errorf("encoder.Encode > %w", err)
		}
	case OutputYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return fmt.Errorf("yaml.Encode > %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("yaml.Close > %w", err)
		}
	default:
		return fmt.Errorf("unsupported structured output format %q", format)
	}
	return nil
}
