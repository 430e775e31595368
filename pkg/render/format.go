package render

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formrules/pkg/validation"
)

// OutputFormat controls how a validated bag is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits an indented JSON object in field order.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded pairs.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one key=value line per field.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat maps a user supplied name onto an OutputFormat. An empty
// name selects JSON.
func ParseOutputFormat(raw string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", OutputFormatJSON:
		return OutputFormatJSON, nil
	case OutputFormatFormURLEncoded:
		return OutputFormatFormURLEncoded, nil
	case OutputFormatPrettyText:
		return OutputFormatPrettyText, nil
	default:
		return "", fmt.Errorf("render: unknown output format %q", raw)
	}
}

// ContentType reports the media type produced by Format for format.
func ContentType(format OutputFormat) string {
	switch format {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Format serializes bag. JSON and pretty output keep field order; the
// urlencoded form sorts keys as url.Values does.
func Format(bag validation.Bag, format OutputFormat) ([]byte, error) {
	switch format {
	case OutputFormatFormURLEncoded:
		values := url.Values{}
		for _, name := range bag.Names() {
			v, _ := bag.Get(name)
			values.Set(name, v)
		}
		return []byte(values.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, name := range bag.Names() {
			v, _ := bag.Get(name)
			fmt.Fprintf(&b, "%s=%s\n", name, v)
		}
		return []byte(b.String()), nil
	case OutputFormatJSON, "":
		return indentedJSON(bag)
	default:
		return nil, fmt.Errorf("render: unknown output format %q", format)
	}
}

func indentedJSON(bag validation.Bag) ([]byte, error) {
	raw, err := bag.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("render: marshal bag: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("render: indent bag: %w", err)
	}
	return buf.Bytes(), nil
}
