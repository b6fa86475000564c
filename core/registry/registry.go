// Package registry accumulates entity mentions keyed by surface text.
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/siherrmann/lexent/model"
)

// Registry maps surface texts of one entity label to their mention history.
// Keys keep insertion order until Sort is called. A Registry is not safe for
// concurrent use; parallel workers use their own and merge afterwards.
type Registry struct {
	Label    string
	entities map[string]*model.EntityInfo
	keys     []string
}

// New creates an empty registry for label.
func New(label string) *Registry {
	return &Registry{
		Label:    label,
		entities: map[string]*model.EntityInfo{},
	}
}

// Add appends one mention to the record of text, creating it if needed.
func (r *Registry) Add(text string, mention model.Mention) {
	r.Ensure(text).Add(mention)
}

// Ensure returns the record of text, creating an empty one if needed.
func (r *Registry) Ensure(text string) *model.EntityInfo {
	info, ok := r.entities[text]
	if !ok {
		info = &model.EntityInfo{}
		r.entities[text] = info
		r.keys = append(r.keys, text)
	}
	return info
}

// Get returns the record of text.
func (r *Registry) Get(text string) (*model.EntityInfo, bool) {
	info, ok := r.entities[text]
	return info, ok
}

// Merge appends the mentions of source to target, creating target if absent,
// and removes source. Merging a key into itself is a no-op.
func (r *Registry) Merge(target, source string) {
	if target == source {
		return
	}

	targetInfo := r.Ensure(target)
	if sourceInfo, ok := r.entities[source]; ok {
		targetInfo.Extend(sourceInfo)
		r.Delete(source)
	}
}

// Delete removes text and its mentions.
func (r *Registry) Delete(text string) {
	if _, ok := r.entities[text]; !ok {
		return
	}
	delete(r.entities, text)
	for i, key := range r.keys {
		if key == text {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Sort orders the keys lexicographically.
func (r *Registry) Sort() {
	sort.Strings(r.keys)
}

// Keys returns a copy of the keys in registry order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// SortedKeys returns the keys in lexicographic order without reordering r.
func (r *Registry) SortedKeys() []string {
	keys := r.Keys()
	sort.Strings(keys)
	return keys
}

func (r *Registry) Len() int {
	return len(r.keys)
}

// MentionCount returns the total number of mentions.
func (r *Registry) MentionCount() int {
	count := 0
	for _, info := range r.entities {
		count += info.Len()
	}
	return count
}

// MergeFrom appends every record of other, in other's order.
func (r *Registry) MergeFrom(other *Registry) {
	if other == nil {
		return
	}
	for _, key := range other.keys {
		r.Ensure(key).Extend(other.entities[key])
	}
}

// MarshalJSON writes an object keyed by surface text in registry order.
func (r *Registry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.entities[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the content of r, keeping the key order of data.
func (r *Registry) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))

	token, err := decoder.Token()
	if err != nil {
		return err
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected registry object, got %v", token)
	}

	r.entities = map[string]*model.EntityInfo{}
	r.keys = nil
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return err
		}
		key, ok := token.(string)
		if !ok {
			return fmt.Errorf("expected entity text, got %v", token)
		}

		info := &model.EntityInfo{}
		if err := decoder.Decode(info); err != nil {
			return fmt.Errorf("entity %q: %w", key, err)
		}
		if _, exists := r.entities[key]; exists {
			r.entities[key].Extend(info)
			continue
		}
		r.entities[key] = info
		r.keys = append(r.keys, key)
	}

	if _, err := decoder.Token(); err != nil {
		return err
	}
	return nil
}
