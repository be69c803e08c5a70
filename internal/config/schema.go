package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const schemaJSON = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "num_refs": {"type": "integer", "minimum": 1},
    "metrics": {"type": "string"},
    "format": {"enum": ["table", "json", "yaml"]},
    "scorer_url": {"type": "string"},
    "synonyms": {"type": "string"},
    "log": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "debug": {"type": "boolean"},
        "json": {"type": "boolean"}
      }
    },
    "options": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "bleu": {
          "type": "object",
          "additionalProperties": false,
          "properties": {
            "max_order": {"type": "integer", "minimum": 1},
            "smooth": {"type": "boolean"},
            "effective_order": {"type": "boolean"}
          }
        },
        "meteor": {
          "type": "object",
          "additionalProperties": false,
          "properties": {
            "alpha": {"type": "number", "minimum": 0, "maximum": 1},
            "beta": {"type": "number", "minimum": 0},
            "gamma": {"type": "number", "minimum": 0, "maximum": 1}
          }
        },
        "ter": {
          "type": "object",
          "additionalProperties": false,
          "properties": {
            "case_sensitive": {"type": "boolean"},
            "max_shift_size": {"type": "integer", "minimum": 0},
            "max_shift_dist": {"type": "integer", "minimum": 0},
            "max_shift_candidates": {"type": "integer", "minimum": 1}
          }
        }
      }
    }
  }
}`

var printer = message.NewPrinter(language.English)

var configSchema = mustCompileSchema(schemaJSON, "config.schema.json")

func mustCompileSchema(raw, name string) *jsonschema.Schema {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}
	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// validate checks a decoded YAML document against the config schema and
// returns one message per violation.
func validate(doc any) []string {
	err := configSchema.Validate(doc)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collect(ve, &errs)
	return errs
}

func collect(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/" + strings.Join(ve.InstanceLocation, "/")
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(printer)))
		return
	}
	for _, c := range ve.Causes {
		collect(c, errs)
	}
}
