package importer

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"questsheet/api/internal/sheet"
)

// documentSchema validates the envelope before any mapping happens. Field
// mapping stays permissive; the schema only pins the structure down far
// enough that mapping cannot panic or silently import garbage.
const documentSchema = `{
	"type": "object",
	"required": ["data"],
	"properties": {
		"data": {
			"type": "object",
			"properties": {
				"topics": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {
							"id": {"type": "string"},
							"name": {"type": "string"},
							"title": {"type": "string"},
							"description": {"type": "string"},
							"color": {"type": "string"},
							"order": {"type": "integer"}
						}
					}
				},
				"subTopics": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {
							"id": {"type": "string"},
							"name": {"type": "string"},
							"title": {"type": "string"},
							"description": {"type": "string"},
							"topicId": {"type": "string"},
							"order": {"type": "integer"}
						}
					}
				},
				"questions": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {
							"id": {"type": "string"},
							"name": {"type": "string"},
							"title": {"type": "string"},
							"description": {"type": "string"},
							"problemStatement": {"type": "string"},
							"subTopicId": {"type": "string"},
							"difficulty": {"type": "string", "enum": ["Easy", "Medium", "Hard"]},
							"status": {"type": "string", "enum": ["Todo", "Done", "Revising"]},
							"isCompleted": {"type": "boolean"},
							"tags": {"type": "array", "items": {"type": "string"}},
							"order": {"type": "integer"}
						}
					}
				}
			}
		}
	}
}`

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

// ValidateDocument checks raw JSON against the import schema and returns a
// joined description of every violation.
func ValidateDocument(raw []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("validate import document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return &sheet.ValidationError{Message: "import document invalid: " + strings.Join(problems, "; ")}
}
