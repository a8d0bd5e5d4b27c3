package serializer

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/Hamed-de0/conduit-dashboard/pkg/snapshot"
	"gopkg.in/yaml.v3"
)

// Format is an output rendering.
type Format string

const (
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
	// FormatTable outputs data in table format
	FormatTable Format = "table"
)

// IsUnknown reports whether f is not a supported format.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	default:
		return true
	}
}

// SupportedFormats lists the valid format names for flag help text.
func SupportedFormats() []string {
	return []string{
		string(FormatJSON),
		string(FormatYAML),
		string(FormatTable),
	}
}

// Writer renders values to an output stream in a fixed format.
type Writer struct {
	format Format
	output io.Writer
}

// NewWriter creates a Writer. A nil output defaults to stdout and an
// unknown format falls back to JSON.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	if format.IsUnknown() {
		slog.Warn("unknown format, defaulting to JSON", "format", format)
		format = FormatJSON
	}
	return &Writer{
		format: format,
		output: output,
	}
}

// Serialize renders v. Table format is supported for fleet snapshots
// only; other values fall back to JSON.
func (w *Writer) Serialize(v any) error {
	switch w.format {
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to serialize to yaml: %w", err)
		}
		_, err = w.output.Write(data)
		return err
	case FormatTable:
		if f, ok := v.(snapshot.Fleet); ok {
			return w.writeFleetTable(f)
		}
		fallthrough
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize to json: %w", err)
		}
		_, err = fmt.Fprintln(w.output, string(data))
		return err
	}
}

func (w *Writer) writeFleetTable(f snapshot.Fleet) error {
	tw := tabwriter.NewWriter(w.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ALIAS\tONLINE\tCONDUIT\tCONNS\tUP\tDOWN\tSNOWFLAKE\tBRIDGE\tCPU%\tMEM MB\tUPTIME")
	for _, h := range f.VPS {
		fmt.Fprintf(tw, "%s\t%t\t%t\t%d\t%s\t%s\t%d\t%d%%\t%.1f\t%.1f\t%s\n",
			h.Alias, h.Online, h.ConduitRunning, h.Connections,
			h.ConduitUp, h.ConduitDown, h.SnowflakeClients,
			h.TorBridgeBootstrap, h.CPUPercent, h.MemoryMB, h.Uptime)
	}
	fmt.Fprintf(tw, "\n%d hosts, %d total connections\t\n", len(f.VPS), f.TotalConnections())
	return tw.Flush()
}
