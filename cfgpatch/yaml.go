package cfgpatch

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseOverridesYAML reads an override tier from a YAML document of the form
//
//	options:
//	  KEY: value
//
// Pair order in the YAML mapping is preserved, which matters when the same
// key appears twice within a tier (last one wins).
func ParseOverridesYAML(data []byte) (Overrides, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("cfgpatch: parse overrides yaml: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("cfgpatch: overrides yaml: expected mapping at top level")
	}

	var options *yaml.Node
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value == "options" {
			options = doc.Content[i+1]
			break
		}
	}
	if options == nil {
		return nil, fmt.Errorf("cfgpatch: overrides yaml: missing %q mapping", "options")
	}
	if options.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("cfgpatch: overrides yaml: %q must be a mapping", "options")
	}

	var overrides Overrides
	for i := 0; i+1 < len(options.Content); i += 2 {
		overrides = append(overrides, Override{
			Key:   options.Content[i].Value,
			Value: options.Content[i+1].Value,
		})
	}
	return overrides, nil
}

// ExtractYAML renders the document's options as a YAML summary, in document
// order, tagged with the catalog coordinates the document belongs to.
func ExtractYAML(doc *Document, category, caseCode, cfgPath string) ([]byte, error) {
	options := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range doc.Keys() {
		value, _ := doc.Get(key)
		options.Content = append(options.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
		)
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	addScalar := func(key, value string) {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: value},
		)
	}
	addScalar("category", category)
	addScalar("case_code", caseCode)
	addScalar("cfg_path", cfgPath)
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "options"},
		options,
	)

	out, err := yaml.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("cfgpatch: marshal extract yaml: %w", err)
	}
	return out, nil
}
