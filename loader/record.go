package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// collector accumulates level records from every content file before
// compilation.
type collector struct {
	game    *gameRecord
	records []record
	source  string // file currently being read
}

func (c *collector) add(r record) {
	r.source = c.source
	c.records = append(c.records, r)
}

// gameRecord is the optional content metadata block.
type gameRecord struct {
	Title   string `yaml:"title"`
	Author  string `yaml:"author"`
	Version string `yaml:"version"`
	Start   int    `yaml:"start" validate:"gte=0"`
}

// record is one level as written in a content file, before defaults are
// applied. Lua tables are converted into the same shape.
type record struct {
	ID            int            `yaml:"id" validate:"gt=0"`
	Name          string         `yaml:"name"`
	Signals       []signalRecord `yaml:"signals" validate:"required,min=1,dive"`
	Circuit       *nodeRecord    `yaml:"circuit" validate:"required"`
	DisplayInvert []bool         `yaml:"display_invert"`
	Stones        []int          `yaml:"stones" validate:"omitempty,dive,gt=0"`
	TimeLimit     *float64       `yaml:"time_limit" validate:"omitnil,gt=0"`
	Background    string         `yaml:"background"`

	source string
}

type signalRecord struct {
	Threshold int  `yaml:"threshold" validate:"gte=0"`
	Invert    bool `yaml:"invert"`
}

// nodeRecord is a circuit node: a bare signal index or {op, args}.
type nodeRecord struct {
	Ref  *int
	Op   string
	Args []nodeRecord
}

// UnmarshalYAML accepts either an integer leaf or an operator mapping.
func (n *nodeRecord) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var i int
		if err := value.Decode(&i); err != nil {
			return fmt.Errorf("line %d: circuit leaf must be a signal index, got %q", value.Line, value.Value)
		}
		n.Ref = &i
		return nil
	case yaml.MappingNode:
		var raw struct {
			Op   string       `yaml:"op"`
			Args []nodeRecord `yaml:"args"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		n.Op = raw.Op
		n.Args = raw.Args
		return nil
	default:
		return fmt.Errorf("line %d: circuit node must be a signal index or an {op, args} mapping", value.Line)
	}
}

// fileRecord is the multi-level file shape.
type fileRecord struct {
	Game   *gameRecord `yaml:"game"`
	Levels []record    `yaml:"levels"`
}

// decodeRecords parses a YAML or JSON file. A file is either a single level
// record or a mapping with "levels" and an optional "game" block.
func decodeRecords(coll *collector, name string, data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if len(doc.Content) == 0 {
		return fmt.Errorf("empty document")
	}
	top := doc.Content[0]
	if top.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping at the top level", top.Line)
	}

	coll.source = name
	if hasKey(top, "levels") {
		var f fileRecord
		if err := top.Decode(&f); err != nil {
			return err
		}
		if f.Game != nil {
			if coll.game != nil {
				return fmt.Errorf("game metadata defined more than once")
			}
			coll.game = f.Game
		}
		for _, r := range f.Levels {
			coll.add(r)
		}
		return nil
	}

	var r record
	if err := top.Decode(&r); err != nil {
		return err
	}
	coll.add(r)
	return nil
}

func hasKey(m *yaml.Node, key string) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return true
		}
	}
	return false
}
