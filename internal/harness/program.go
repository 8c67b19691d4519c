package harness

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/robopost/internal/post"
)

// Program is an instruction program loaded from YAML.
type Program struct {
	// Name identifies the program; golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what the program does.
	Description string `yaml:"description"`

	// Robot holds backend config defaults, in the flat option mapping
	// form (robot_post, robot_name, robot_axes, ...).
	Robot map[string]any `yaml:"robot,omitempty"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions are checked after the last step.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one instruction with its named arguments.
type Step struct {
	Kind post.Kind
	Args map[string]any

	// Line is the YAML source line, for error messages.
	Line int
}

// UnmarshalYAML decodes the single-key {Kind: {arg: value}} form.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return fmt.Errorf("line %d: a step is a single-key mapping like {MoveJ: {...}}", node.Line)
	}

	kind := post.Kind(node.Content[0].Value)
	if !kind.Valid() {
		return fmt.Errorf("line %d: unknown instruction %q", node.Line, kind)
	}

	args := map[string]any{}
	if body := node.Content[1]; body.Tag != "!!null" {
		if err := body.Decode(&args); err != nil {
			return fmt.Errorf("line %d: %s: %w", node.Line, kind, err)
		}
	}

	params := post.Params(kind)
	for name := range args {
		if !slices.Contains(params, name) {
			return fmt.Errorf("line %d: %s has no argument %q (want %v)", node.Line, kind, name, params)
		}
	}

	*s = Step{Kind: kind, Args: args, Line: node.Line}
	return nil
}

// Assertion checks the emitted program after the run.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Text is the substring for line_contains and log_contains.
	Text string `yaml:"text,omitempty"`

	// Texts are the ordered substrings for line_order.
	Texts []string `yaml:"texts,omitempty"`

	// Count is the expected number of lines for line_count.
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertLineContains = "line_contains"
	AssertLineOrder    = "line_order"
	AssertLineCount    = "line_count"
	AssertLogContains  = "log_contains"
	AssertLogEmpty     = "log_empty"
)

// LoadProgram reads and parses a program file.
// Returns an error if the file doesn't exist, is malformed, contains unknown
// fields or instructions, or is missing required fields.
func LoadProgram(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program file: %w", err)
	}
	return ParseProgram(data)
}

// ParseProgram parses program YAML.
func ParseProgram(data []byte) (*Program, error) {
	var prog Program
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&prog); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateProgram(&prog); err != nil {
		return nil, fmt.Errorf("invalid program: %w", err)
	}
	return &prog, nil
}

func validateProgram(p *Program) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(p.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, a := range p.Assertions {
		switch a.Type {
		case AssertLineContains, AssertLogContains:
			if a.Text == "" {
				return fmt.Errorf("assertion %d: %s requires text", i, a.Type)
			}
		case AssertLineOrder:
			if len(a.Texts) < 2 {
				return fmt.Errorf("assertion %d: line_order requires at least 2 texts", i)
			}
		case AssertLineCount, AssertLogEmpty:
		case "":
			return fmt.Errorf("assertion %d: type is required", i)
		default:
			return fmt.Errorf("assertion %d: unknown type %q", i, a.Type)
		}
	}
	return nil
}
