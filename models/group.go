package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Group maps check ids to results, keeping evaluation order.
type Group struct {
	checks []CheckResult
	index  map[string]int
}

// NewGroup returns an empty group.
func NewGroup() *Group {
	return &Group{index: make(map[string]int)}
}

// Add appends a check. A check with an existing id replaces it in place.
func (g *Group) Add(check CheckResult) {
	if g.index == nil {
		g.index = make(map[string]int)
	}
	if i, ok := g.index[check.ID]; ok {
		g.checks[i] = check
		return
	}
	g.index[check.ID] = len(g.checks)
	g.checks = append(g.checks, check)
}

// Get returns the check with the given id.
func (g *Group) Get(id string) (CheckResult, bool) {
	if g == nil {
		return CheckResult{}, false
	}
	i, ok := g.index[id]
	if !ok {
		return CheckResult{}, false
	}
	return g.checks[i], true
}

// Has reports whether the group contains id.
func (g *Group) Has(id string) bool {
	_, ok := g.Get(id)
	return ok
}

// Len returns the number of checks.
func (g *Group) Len() int {
	if g == nil {
		return 0
	}
	return len(g.checks)
}

// Checks returns the checks in evaluation order.
func (g *Group) Checks() []CheckResult {
	if g == nil {
		return nil
	}
	out := make([]CheckResult, len(g.checks))
	copy(out, g.checks)
	return out
}

// IDs returns the check ids in evaluation order.
func (g *Group) IDs() []string {
	if g == nil {
		return nil
	}
	ids := make([]string, len(g.checks))
	for i, c := range g.checks {
		ids[i] = c.ID
	}
	return ids
}

func (g *Group) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range g.checks {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.ID)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (g *Group) UnmarshalJSON(data []byte) error {
	*g = Group{index: make(map[string]int)}
	return decodeObject(data, func(key string, dec *json.Decoder) error {
		var c CheckResult
		if err := dec.Decode(&c); err != nil {
			return err
		}
		if c.ID == "" {
			c.ID = key
		}
		g.Add(c)
		return nil
	})
}

// Groups maps categories to groups, keeping evaluation order.
type Groups struct {
	order  []Category
	groups map[Category]*Group
}

// NewGroups returns an empty set of groups.
func NewGroups() *Groups {
	return &Groups{groups: make(map[Category]*Group)}
}

// Set stores a group. Replacing an existing category keeps its position.
func (gs *Groups) Set(category Category, g *Group) {
	if gs.groups == nil {
		gs.groups = make(map[Category]*Group)
	}
	if _, ok := gs.groups[category]; !ok {
		gs.order = append(gs.order, category)
	}
	gs.groups[category] = g
}

// Get returns the group of a category.
func (gs *Groups) Get(category Category) (*Group, bool) {
	if gs == nil {
		return nil, false
	}
	g, ok := gs.groups[category]
	return g, ok
}

// Categories returns the categories in evaluation order.
func (gs *Groups) Categories() []Category {
	if gs == nil {
		return nil
	}
	out := make([]Category, len(gs.order))
	copy(out, gs.order)
	return out
}

// Len returns the number of groups.
func (gs *Groups) Len() int {
	if gs == nil {
		return 0
	}
	return len(gs.order)
}

func (gs *Groups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range gs.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(cat))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(gs.groups[cat])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (gs *Groups) UnmarshalJSON(data []byte) error {
	*gs = Groups{groups: make(map[Category]*Group)}
	return decodeObject(data, func(key string, dec *json.Decoder) error {
		g := NewGroup()
		if err := dec.Decode(g); err != nil {
			return err
		}
		gs.Set(Category(key), g)
		return nil
	})
}

// decodeObject walks a JSON object in document order.
func decodeObject(data []byte, field func(key string, dec *json.Decoder) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		if err := field(key, dec); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
	}
	_, err = dec.Token()
	return err
}
