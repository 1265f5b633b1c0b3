package config

import (
	"fmt"
	"os"

	"github.com/welldanyogia/webrana-attachments/internal/attachment"
	"gopkg.in/yaml.v3"
)

// AttachmentSchema maps record types to their attachment fields, in file order.
type AttachmentSchema map[string][]attachment.FieldConfig

// LoadAttachmentSchema reads an attachment schema YAML file:
//
//	profile:
//	  avatar: {allowed_extensions: [png, jpg], required: true, upload_dir: avatars/}
func LoadAttachmentSchema(path string) (AttachmentSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment schema: %w", err)
	}
	return ParseAttachmentSchema(data)
}

// ParseAttachmentSchema decodes schema YAML, keeping the field order of each record type.
func ParseAttachmentSchema(data []byte) (AttachmentSchema, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("invalid attachment schema: %w", err)
	}

	schema := make(AttachmentSchema)
	if len(root.Content) == 0 {
		return schema, nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("invalid attachment schema: top level must map record types to fields")
	}

	for i := 0; i+1 < len(doc.Content); i += 2 {
		recordType := doc.Content[i].Value
		fieldsNode := doc.Content[i+1]

		fields := []attachment.FieldConfig{}
		if fieldsNode.Kind != yaml.MappingNode {
			if fieldsNode.Tag == "!!null" {
				schema[recordType] = fields
				continue
			}
			return nil, fmt.Errorf("invalid attachment schema: %s must map field names to settings", recordType)
		}

		for j := 0; j+1 < len(fieldsNode.Content); j += 2 {
			var fc attachment.FieldConfig
			if err := fieldsNode.Content[j+1].Decode(&fc); err != nil {
				return nil, fmt.Errorf("invalid attachment schema: %s.%s: %w", recordType, fieldsNode.Content[j].Value, err)
			}
			fc.Field = fieldsNode.Content[j].Value
			fields = append(fields, fc)
		}
		schema[recordType] = fields
	}

	return schema, nil
}

// FieldsFor returns the fields configured for recordType, or fallback when the
// schema does not mention it.
func (s AttachmentSchema) FieldsFor(recordType string, fallback []attachment.FieldConfig) []attachment.FieldConfig {
	if fields, ok := s[recordType]; ok {
		return fields
	}
	return fallback
}
