package services

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/dmalone/crossprep/internal/models"
)

//go:embed rules.yaml
var rulesYAML []byte

type classifyRule struct {
	Type     string   `yaml:"type"`
	Filename []string `yaml:"filename"`
	Content  []string `yaml:"content"`
}

type classifyRules struct {
	Rules []classifyRule `yaml:"rules"`
}

var docRules []classifyRule

func init() {
	var parsed classifyRules
	if err := yaml.Unmarshal(rulesYAML, &parsed); err != nil {
		panic("invalid embedded classification rules: " + err.Error())
	}
	docRules = parsed.Rules
}

// Classify assigns a document type from ordered heuristic rules: filename
// keywords first, then content keywords, first match wins, default other.
// Rule order encodes the precedence transcript > prior_testimony > exhibit
// > case_file. This is a pure function of its inputs.
func Classify(filename, content string) models.DocumentType {
	name := strings.ToLower(filename)
	for _, rule := range docRules {
		for _, kw := range rule.Filename {
			if strings.Contains(name, kw) {
				return models.DocumentType(rule.Type)
			}
		}
	}

	body := strings.ToLower(content)
	if body != "" {
		for _, rule := range docRules {
			for _, kw := range rule.Content {
				if strings.Contains(body, kw) {
					return models.DocumentType(rule.Type)
				}
			}
		}
	}

	return models.DocOther
}
