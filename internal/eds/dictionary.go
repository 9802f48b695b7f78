package eds

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Mission dictionaries compiled into the binary. External dictionary files
// use the same JSON format and take precedence when given.
//
//go:embed missions/*.json
var embeddedMissions embed.FS

// ConfigurationError reports an unavailable or invalid mission dictionary.
// It is fatal for a whole conversion run and is raised before any input file
// is opened.
type ConfigurationError struct {
	Mission string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("mission %q: %s", e.Mission, e.Reason)
}

// Dictionary holds one mission's telemetry type descriptors and its topic
// table. A packet's leading topic ID selects the type used to decode it.
type Dictionary struct {
	Mission string
	types   map[string]*Type
	topics  map[uint16]*Type
}

// dictFile is the on-disk JSON shape of a dictionary.
//
// Types reference each other by name. A field or array element may name any
// declared type; cycles are rejected so every decoded tree has finite depth.
type dictFile struct {
	Mission string              `json:"mission"`
	Types   map[string]dictType `json:"types"`
	Topics  map[string]string   `json:"topics"` // topic id (decimal or 0x hex) -> type name
}

type dictType struct {
	Kind    string            `json:"kind"`
	Size    int               `json:"size,omitempty"`
	Element string            `json:"element,omitempty"`
	Count   int               `json:"count,omitempty"`
	Fields  []dictField       `json:"fields,omitempty"`
	Labels  map[string]string `json:"labels,omitempty"` // value -> label
}

type dictField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// LoadMission loads the embedded dictionary for the named mission.
func LoadMission(mission string) (*Dictionary, error) {
	data, err := embeddedMissions.ReadFile("missions/" + mission + ".json")
	if err != nil {
		return nil, &ConfigurationError{Mission: mission, Reason: "no embedded dictionary"}
	}
	return parseDictionary(mission, data)
}

// ParseDictionary builds a Dictionary from dictionary JSON, e.g. the contents
// of an external dictionary file.
func ParseDictionary(mission string, data []byte) (*Dictionary, error) {
	return parseDictionary(mission, data)
}

func parseDictionary(mission string, data []byte) (*Dictionary, error) {
	var df dictFile
	if err := json.Unmarshal(data, &df); err != nil {
		return nil, &ConfigurationError{Mission: mission, Reason: fmt.Sprintf("invalid dictionary JSON: %v", err)}
	}
	if df.Mission != "" {
		mission = df.Mission
	}
	if len(df.Types) == 0 {
		return nil, &ConfigurationError{Mission: mission, Reason: "dictionary declares no types"}
	}
	if len(df.Topics) == 0 {
		return nil, &ConfigurationError{Mission: mission, Reason: "dictionary declares no topics"}
	}

	d := &Dictionary{
		Mission: mission,
		types:   make(map[string]*Type, len(df.Types)),
		topics:  make(map[uint16]*Type, len(df.Topics)),
	}

	r := resolver{file: df.Types, done: d.types, inProgress: make(map[string]bool)}
	// Resolve in sorted order so validation errors are deterministic.
	names := make([]string, 0, len(df.Types))
	for name := range df.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := r.resolve(name); err != nil {
			return nil, &ConfigurationError{Mission: mission, Reason: err.Error()}
		}
	}

	for idStr, typeName := range df.Topics {
		id, err := parseTopicID(idStr)
		if err != nil {
			return nil, &ConfigurationError{Mission: mission, Reason: err.Error()}
		}
		t, ok := d.types[typeName]
		if !ok {
			return nil, &ConfigurationError{Mission: mission,
				Reason: fmt.Sprintf("topic %s references undefined type %q", idStr, typeName)}
		}
		d.topics[id] = t
	}

	return d, nil
}

// TopicType returns the type descriptor for a topic ID.
func (d *Dictionary) TopicType(id uint16) (*Type, bool) {
	t, ok := d.topics[id]
	return t, ok
}

// Lookup returns a declared type by name.
func (d *Dictionary) Lookup(name string) (*Type, bool) {
	t, ok := d.types[name]
	return t, ok
}

// resolver turns named dictType entries into linked *Type values, rejecting
// undefined references and cycles.
type resolver struct {
	file       map[string]dictType
	done       map[string]*Type
	inProgress map[string]bool
}

func (r *resolver) resolve(name string) (*Type, error) {
	if t, ok := r.done[name]; ok {
		return t, nil
	}
	if r.inProgress[name] {
		return nil, fmt.Errorf("type %q is recursively defined", name)
	}
	dt, ok := r.file[name]
	if !ok {
		return nil, fmt.Errorf("reference to undefined type %q", name)
	}
	r.inProgress[name] = true
	defer delete(r.inProgress, name)

	t := &Type{Name: name, Size: dt.Size}
	switch dt.Kind {
	case "uint":
		t.Kind = KindUint
	case "int":
		t.Kind = KindInt
	case "float":
		t.Kind = KindFloat
	case "bool":
		t.Kind = KindBool
	case "string":
		t.Kind = KindString
	case "enum":
		t.Kind = KindEnum
		t.Labels = make(map[uint64]string, len(dt.Labels))
		for valStr, label := range dt.Labels {
			val, err := strconv.ParseUint(valStr, 0, 64)
			if err != nil {
				return nil, fmt.Errorf("type %q: invalid enum value %q", name, valStr)
			}
			t.Labels[val] = label
		}
	case "array":
		t.Kind = KindArray
		t.Count = dt.Count
		elem, err := r.resolve(dt.Element)
		if err != nil {
			return nil, err
		}
		t.Elem = elem
	case "container":
		t.Kind = KindContainer
		t.Fields = make([]StructField, 0, len(dt.Fields))
		for _, f := range dt.Fields {
			ft, err := r.resolve(f.Type)
			if err != nil {
				return nil, err
			}
			t.Fields = append(t.Fields, StructField{Name: f.Name, Type: ft})
		}
	default:
		return nil, fmt.Errorf("type %q: unknown kind %q", name, dt.Kind)
	}

	if err := t.validate(); err != nil {
		return nil, err
	}
	r.done[name] = t
	return t, nil
}

func parseTopicID(s string) (uint16, error) {
	id, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid topic id %q: %v", s, err)
	}
	return uint16(id), nil
}
