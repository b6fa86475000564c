package registry

import "sort"

// Collection holds one Registry per entity label.
type Collection struct {
	registries map[string]*Registry
}

func NewCollection() *Collection {
	return &Collection{registries: map[string]*Registry{}}
}

// Registry returns the registry of label, creating it if needed.
func (c *Collection) Registry(label string) *Registry {
	r, ok := c.registries[label]
	if !ok {
		r = New(label)
		c.registries[label] = r
	}
	return r
}

// Set replaces the registry stored under its label.
func (c *Collection) Set(r *Registry) {
	c.registries[r.Label] = r
}

// Labels returns the labels in lexicographic order.
func (c *Collection) Labels() []string {
	labels := make([]string, 0, len(c.registries))
	for label := range c.registries {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// MergeFrom merges every registry of other into c.
func (c *Collection) MergeFrom(other *Collection) {
	if other == nil {
		return
	}
	for _, label := range other.Labels() {
		c.Registry(label).MergeFrom(other.registries[label])
	}
}
