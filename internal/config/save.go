package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/bkahlert/kommons-sub008/internal/log"
)

// SaveRender replaces the render section of the config file with r.
// Comments and formatting of other sections are kept by editing the
// yaml.Node tree. A missing file is created.
func SaveRender(configPath string, r RenderConfig) error {
	return saveSection(configPath, "render", buildRenderNode(r))
}

// SaveColumns replaces only the columns of the render section.
func SaveColumns(configPath string, columns []ColumnConfig) error {
	if err := ValidateColumns(columns); err != nil {
		return err
	}
	doc, err := readDocument(configPath)
	if err != nil {
		return err
	}
	renderNode := mappingValue(rootMapping(doc), "render")
	if renderNode == nil || renderNode.Kind != yaml.MappingNode {
		renderNode = &yaml.Node{Kind: yaml.MappingNode}
		setMappingValue(rootMapping(doc), "render", renderNode)
	}
	setMappingValue(renderNode, "columns", buildColumnsNode(columns))
	return writeDocument(configPath, doc)
}

func saveSection(configPath, key string, value *yaml.Node) error {
	doc, err := readDocument(configPath)
	if err != nil {
		return err
	}
	setMappingValue(rootMapping(doc), key, value)
	return writeDocument(configPath, doc)
}

// readDocument parses the config file. A missing or empty file yields an
// empty document.
func readDocument(configPath string) (*yaml.Node, error) {
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode}}}
	}
	return &doc, nil
}

// rootMapping returns the top level mapping of doc, replacing any other
// kind of top level node.
func rootMapping(doc *yaml.Node) *yaml.Node {
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		doc.Content = []*yaml.Node{{Kind: yaml.MappingNode}}
	}
	return doc.Content[0]
}

func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i < len(mapping.Content)-1; i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// setMappingValue replaces the value of key or appends key if missing.
// Comments attached to the old value are kept.
func setMappingValue(mapping *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i < len(mapping.Content)-1; i += 2 {
		if mapping.Content[i].Value == key {
			old := mapping.Content[i+1]
			value.HeadComment, value.LineComment, value.FootComment = old.HeadComment, old.LineComment, old.FootComment
			mapping.Content[i+1] = value
			return
		}
	}
	mapping.Content = append(mapping.Content, scalar(key), value)
}

// writeDocument writes doc atomically (temp file, then rename).
func writeDocument(configPath string, doc *yaml.Node) error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".kommons.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(buf.Bytes()); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	log.Debug(log.CatConfig, "Saved config", "path", configPath)
	return nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

func intScalar(value int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(value)}
}

// buildRenderNode creates the mapping of the render section. Empty
// optional values are omitted.
func buildRenderNode(r RenderConfig) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node) {
		node.Content = append(node.Content, scalar(key), value)
	}
	if r.Renderer != "" {
		add("renderer", scalar(r.Renderer))
	}
	if r.Style != "" {
		add("style", scalar(r.Style))
	}
	add("gap", intScalar(r.Gap))
	if r.Width > 0 {
		add("width", intScalar(r.Width))
	}
	if r.DecorationColor != "" {
		add("decoration_color", &yaml.Node{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Value: r.DecorationColor})
	}
	if len(r.Columns) > 0 {
		add("columns", buildColumnsNode(r.Columns))
	}
	return node
}

// buildColumnsNode creates a yaml.Node representing the columns array.
func buildColumnsNode(columns []ColumnConfig) *yaml.Node {
	node := &yaml.Node{Kind: yaml.SequenceNode, Content: make([]*yaml.Node, 0, len(columns))}
	for _, col := range columns {
		node.Content = append(node.Content, &yaml.Node{
			Kind: yaml.MappingNode,
			Content: []*yaml.Node{
				scalar("name"), scalar(col.Name),
				scalar("width"), intScalar(col.Width),
			},
		})
	}
	return node
}
