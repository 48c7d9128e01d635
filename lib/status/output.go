package status

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ghodss/yaml"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/onkernel/bootc-status/lib/images"
	"github.com/onkernel/bootc-status/lib/spec"
)

// OutputFormat selects how the host status is rendered
type OutputFormat string

const (
	OutputFormatHumanReadable OutputFormat = "humanreadable"
	OutputFormatYAML          OutputFormat = "yaml"
	OutputFormatJSON          OutputFormat = "json"
)

// OutputFormats lists all accepted output formats
var OutputFormats = []OutputFormat{OutputFormatHumanReadable, OutputFormatYAML, OutputFormatJSON}

// ParseOutputFormat parses an output format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	for _, f := range OutputFormats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
}

// selectFormat picks the output format: an explicit format wins, then the
// legacy --json flag, then human-readable text for terminals and YAML otherwise.
func selectFormat(format *OutputFormat, jsonFlag, terminal bool) OutputFormat {
	switch {
	case format != nil:
		return *format
	case jsonFlag:
		return OutputFormatJSON
	case terminal:
		return OutputFormatHumanReadable
	default:
		return OutputFormatYAML
	}
}

func writeJSON(out io.Writer, host *spec.Host) error {
	return json.NewEncoder(out).Encode(host)
}

func writeYAML(out io.Writer, host *spec.Host) error {
	data, err := yaml.Marshal(host)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// roleEntry pairs a boot entry with the role it plays on the host
type roleEntry struct {
	role  string
	entry *spec.BootEntry
}

func roleEntries(host *spec.Host) []roleEntry {
	return []roleEntry{
		{"staged", host.Status.Staged},
		{"booted", host.Status.Booted},
		{"rollback", host.Status.Rollback},
	}
}

// writeHumanReadable renders one table per role. details holds the deployed
// image state per role when it could be read.
func writeHumanReadable(out io.Writer, host *spec.Host, details map[string]*images.ImageState, terminal bool) error {
	var b strings.Builder
	for _, re := range roleEntries(host) {
		switch {
		case re.entry == nil:
			fmt.Fprintf(&b, "No %s image present\n", re.role)
		case re.entry.Image == nil:
			fmt.Fprintf(&b, "No image defined for %s deployment", re.role)
			if re.entry.Incompatible {
				b.WriteString(" (local modifications)")
			}
			b.WriteString("\n")
		default:
			b.WriteString(imageTable(re, details[re.role], terminal))
			b.WriteString("\n")
		}
	}
	if host.Status.RollbackQueued {
		fmt.Fprintf(&b, "Boot order: %s (rollback queued for next boot)\n", host.Spec.BootOrder)
	}
	_, err := io.WriteString(out, b.String())
	return err
}

func imageTable(re roleEntry, state *images.ImageState, terminal bool) string {
	t := table.NewWriter()
	if terminal {
		t.SetStyle(table.StyleRounded)
		t.SetTitle(text.Bold.Sprintf("Current %s image", re.role))
	} else {
		t.SetTitle("Current %s image", re.role)
	}

	img := re.entry.Image
	t.AppendRows([]table.Row{
		{"Image", img.Image.Image},
		{"Version", valueOrNone(img.Version)},
		{"Timestamp", timestampOrNone(img.Timestamp)},
		{"Transport", img.Image.Transport},
		{"Signature", signatureName(img.Image.Signature)},
		{"Digest", digestOrNone(img.ImageDigest)},
	})
	if state != nil && state.Architecture != "" {
		t.AppendRow(table.Row{"Architecture", state.OS + "/" + state.Architecture})
	}
	t.AppendRow(table.Row{"Pinned", yesNo(re.entry.Pinned)})
	if update := re.entry.CachedUpdate; update != nil {
		t.AppendSeparator()
		t.AppendRows([]table.Row{
			{"Cached update", valueOrNone(update.Version)},
			{"Update digest", digestOrNone(update.ImageDigest)},
		})
	}
	return t.Render() + "\n"
}

func valueOrNone(v *string) string {
	if v == nil {
		return "<none>"
	}
	return *v
}

func timestampOrNone(t *time.Time) string {
	if t == nil {
		return "<none>"
	}
	return t.UTC().Format(time.RFC3339)
}

func digestOrNone(d string) string {
	if d == "" {
		return "<none>"
	}
	return d
}

func signatureName(sig *spec.ImageSignature) string {
	if sig == nil {
		return string(spec.SignatureInsecure)
	}
	return sig.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
