package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/five82/shelf/internal/api"
	"github.com/five82/shelf/internal/catalog"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"

	attributeSummaryWidth = 48
)

// resolveFormat validates the -o flag. Without one, a terminal gets a
// table and anything else gets JSON.
func resolveFormat(flag string, w io.Writer) (string, error) {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "":
		if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			return formatTable, nil
		}
		return formatJSON, nil
	case formatTable:
		return formatTable, nil
	case formatJSON:
		return formatJSON, nil
	case formatYAML, "yml":
		return formatYAML, nil
	default:
		return "", fmt.Errorf("output format %q: want table, json or yaml", flag)
	}
}

func writeObjects(w io.Writer, format string, objects []api.Object) error {
	switch format {
	case formatJSON:
		return writeJSON(w, objects)
	case formatYAML:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, obj := range objects {
			node, err := objectNode(obj)
			if err != nil {
				return err
			}
			seq.Content = append(seq.Content, node)
		}
		return writeYAML(w, seq)
	default:
		return writeObjectTable(w, objects, time.Now())
	}
}

func writeObject(w io.Writer, format string, obj api.Object) error {
	switch format {
	case formatJSON:
		return writeJSON(w, obj)
	case formatYAML:
		node, err := objectNode(obj)
		if err != nil {
			return err
		}
		return writeYAML(w, node)
	default:
		return writeDetailTable(w, obj, time.Now())
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, node *yaml.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// objectNode builds the YAML form of obj with keys in API order.
func objectNode(obj api.Object) (*yaml.Node, error) {
	m := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node) {
		m.Content = append(m.Content, strNode(key), value)
	}
	add("id", strNode(obj.ID))
	add("name", strNode(obj.Name))

	if obj.Data == nil {
		add("data", nullNode())
	} else {
		data := &yaml.Node{Kind: yaml.MappingNode}
		for _, attr := range obj.Data {
			value, err := valueNode(attr.Value)
			if err != nil {
				return nil, fmt.Errorf("attribute %q: %w", attr.Key, err)
			}
			data.Content = append(data.Content, strNode(attr.Key), value)
		}
		add("data", data)
	}
	if obj.CreatedAt != "" {
		add("createdAt", strNode(obj.CreatedAt))
	}
	if obj.UpdatedAt != "" {
		add("updatedAt", strNode(obj.UpdatedAt))
	}
	return m, nil
}

func valueNode(v api.Value) (*yaml.Node, error) {
	switch v.Kind() {
	case api.ValueNumber:
		f, _ := v.Float()
		tag := "!!float"
		if f == float64(int64(f)) {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: strconv.FormatFloat(f, 'f', -1, 64)}, nil
	case api.ValueBool:
		b, _ := v.Boolean()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}, nil
	case api.ValueString:
		s, _ := v.Str()
		return strNode(s), nil
	case api.ValueRaw:
		// Nested JSON is valid YAML.
		var doc yaml.Node
		if err := yaml.Unmarshal([]byte(v.String()), &doc); err != nil {
			return nil, err
		}
		if len(doc.Content) == 0 {
			return nullNode(), nil
		}
		node := doc.Content[0]
		blockStyle(node)
		return node, nil
	default:
		return nullNode(), nil
	}
}

// blockStyle drops the flow and quoting styles the JSON source implies.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func writeObjectTable(w io.Writer, objects []api.Object, now time.Time) error {
	if len(objects) == 0 {
		_, err := fmt.Fprintln(w, "No objects.")
		return err
	}
	rows := make([][]string, 0, len(objects))
	for _, obj := range objects {
		rows = append(rows, []string{
			obj.ID,
			obj.Name,
			priceCell(obj),
			attributeSummary(obj.Data),
			updatedCell(obj, now),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ID", "NAME", "PRICE", "ATTRIBUTES", "UPDATED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Bold(true)
			}
			if col == 2 {
				return style.Align(lipgloss.Right)
			}
			return style
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func writeDetailTable(w io.Writer, obj api.Object, now time.Time) error {
	rows := [][]string{
		{"ID", obj.ID},
		{"Name", obj.Name},
	}
	if obj.CreatedAt != "" {
		rows = append(rows, []string{"Created", withRelative(obj.CreatedAt, now)})
	}
	if obj.UpdatedAt != "" {
		rows = append(rows, []string{"Updated", withRelative(obj.UpdatedAt, now)})
	}
	for _, entry := range catalog.FormatData(obj.Data) {
		rows = append(rows, []string{entry.Label, entry.Value})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if col == 0 {
				return style.Bold(true)
			}
			return style
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func priceCell(obj api.Object) string {
	for _, key := range []string{"price", "Price"} {
		if v, ok := obj.Data.Get(key); ok && v.Truthy() {
			return catalog.FormatPrice(v)
		}
	}
	return ""
}

func attributeSummary(data api.Attributes) string {
	parts := make([]string, 0, len(data))
	for _, entry := range catalog.FormatData(data) {
		if strings.EqualFold(entry.Key, "price") {
			continue
		}
		parts = append(parts, entry.Label+": "+entry.Value)
	}
	return catalog.TruncateText(strings.Join(parts, ", "), attributeSummaryWidth)
}

func updatedCell(obj api.Object, now time.Time) string {
	ts := obj.UpdatedAt
	if ts == "" {
		ts = obj.CreatedAt
	}
	return catalog.Relative(ts, now)
}

func withRelative(ts string, now time.Time) string {
	formatted := catalog.FormatDate(ts)
	if rel := catalog.Relative(ts, now); rel != "" {
		return formatted + " (" + rel + ")"
	}
	return formatted
}
