package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/siherrmann/lexent/helper"
	"github.com/siherrmann/lexent/model"
)

const (
	jsonExtension = ".json"
	textExtension = ".txt"
)

// SaveJSON writes r as indented JSON in its current key order.
func SaveJSON(path string, r *Registry) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return helper.NewError("marshal registry", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return helper.NewError("write registry", err)
	}
	return nil
}

// LoadJSON reads a registry written by SaveJSON.
func LoadJSON(path string, label string) (*Registry, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, helper.NewError("read registry", err)
	}

	r := New(label)
	if err := json.Unmarshal(data, r); err != nil {
		return nil, helper.NewError("unmarshal registry "+path, err)
	}
	return r, nil
}

// SaveTextList writes the sorted surface texts of r, one per line.
func SaveTextList(path string, r *Registry) error {
	keys := r.SortedKeys()
	content := strings.Join(keys, "\n")
	if len(keys) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return helper.NewError("write text list", err)
	}
	return nil
}

// LoadTextList reads a list written by SaveTextList.
func LoadTextList(path string) ([]string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, helper.NewError("read text list", err)
	}

	var texts []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			texts = append(texts, line)
		}
	}
	return texts, nil
}

// Save writes every registry of c to dir as <label>.json and <label>.txt.
// Labels must be usable as file names: a label that is empty or contains a
// path separator or a space returns model.ErrInvalidLabel before anything is
// written.
func (c *Collection) Save(dir string) error {
	labels := c.Labels()
	for _, label := range labels {
		if !isFileLabel(label) {
			return helper.NewError(fmt.Sprintf("save %q", label), model.ErrInvalidLabel)
		}
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return helper.NewError("create registry directory", err)
	}

	for _, label := range labels {
		r := c.registries[label]
		base := filepath.Join(dir, label)
		if err := SaveJSON(base+jsonExtension, r); err != nil {
			return helper.NewError("save "+label, err)
		}
		if err := SaveTextList(base+textExtension, r); err != nil {
			return helper.NewError("save "+label, err)
		}
	}
	return nil
}

// LoadCollection reads every <label>.json file in dir.
func LoadCollection(dir string) (*Collection, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+jsonExtension))
	if err != nil {
		return nil, helper.NewError("list registries", err)
	}

	c := NewCollection()
	for _, path := range paths {
		label := strings.TrimSuffix(filepath.Base(path), jsonExtension)
		r, err := LoadJSON(path, label)
		if err != nil {
			return nil, helper.NewError("load "+label, err)
		}
		c.Set(r)
	}
	return c, nil
}

func isFileLabel(label string) bool {
	return label != "" && label != "." && label != ".." && !strings.ContainsAny(label, "/\\ ")
}
