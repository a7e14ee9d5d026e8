// Package manifest handles the parsed form of one cluster resource's desired
// state: decoding manifest text, defaulting metadata, and stripping
// server-managed fields before documents are diffed or exported.
package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is one parsed manifest. It is an owned, mutable value local to a
// single apply attempt; nothing shares it across goroutines.
type Document map[string]any

// Parse decodes a single manifest text into a Document.
func Parse(text string) (Document, error) {
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if len(doc) == 0 {
		return nil, fmt.Errorf("parsing manifest: document is empty")
	}
	return Document(doc), nil
}

// Serialize renders the document back to manifest text.
func (d Document) Serialize() (string, error) {
	out, err := yaml.Marshal(map[string]any(d))
	if err != nil {
		return "", fmt.Errorf("serializing manifest: %w", err)
	}
	return string(out), nil
}

func (d Document) Kind() string {
	s, _ := d["kind"].(string)
	return s
}

func (d Document) APIVersion() string {
	s, _ := d["apiVersion"].(string)
	return s
}

func (d Document) Name() string {
	s, _ := d.metadata()["name"].(string)
	return s
}

func (d Document) Namespace() string {
	s, _ := d.metadata()["namespace"].(string)
	return s
}

// SetDefaultNamespace fills metadata.namespace from the request when the
// manifest leaves it out.
func (d Document) SetDefaultNamespace(namespace string) {
	md := d.ensureMetadata()
	if s, _ := md["namespace"].(string); s == "" {
		md["namespace"] = namespace
	}
}

// SetDefaultName fills metadata.name with a placeholder when absent.
func (d Document) SetDefaultName(name string) {
	md := d.ensureMetadata()
	if s, _ := md["name"].(string); s == "" {
		md["name"] = name
	}
}

func (d Document) metadata() map[string]any {
	md, _ := d["metadata"].(map[string]any)
	return md
}

func (d Document) ensureMetadata() map[string]any {
	if md, ok := d["metadata"].(map[string]any); ok {
		return md
	}
	md := map[string]any{}
	d["metadata"] = md
	return md
}
