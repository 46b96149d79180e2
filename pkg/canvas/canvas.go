// Package canvas defines the canonical serialization format for a canvas's
// node set.
//
// The format is shared by the CLI, the HTTP API and the storage backends,
// and is designed for round-trip fidelity: read → project → write →
// re-read leaves the node set unchanged. Only the node collection is ever
// stored; derived geometry and timelines are recomputed live and never
// serialized alongside it.
package canvas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/storyreel/reelgraph/pkg/node"
)

// Document is one canvas: an identity plus its flat node collection.
type Document struct {
	ID    string      `json:"id" bson:"_id"`
	Name  string      `json:"name,omitempty" bson:"name,omitempty"`
	Nodes []node.Node `json:"nodes" bson:"nodes"`
}

// Normalize returns a copy of the document with nodes sorted by id.
// Serialization always normalizes first so that output does not depend on
// input ordering.
func (d Document) Normalize() Document {
	nodes := slices.Clone(d.Nodes)
	slices.SortStableFunc(nodes, func(a, b node.Node) int {
		return strings.Compare(a.ID, b.ID)
	})
	d.Nodes = nodes
	return d
}

// Hash returns the content hash of the normalized document. Two documents
// with the same node set by value share a hash, which makes it a safe
// memoization key: any topology mutation changes the hash.
func (d Document) Hash() string {
	data, err := json.Marshal(d.Normalize())
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Marshal serializes a document to pretty-printed JSON.
func Marshal(d Document) ([]byte, error) {
	return json.MarshalIndent(d.Normalize(), "", "  ")
}

// Unmarshal deserializes JSON bytes into a document.
func Unmarshal(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("unmarshal canvas: %w", err)
	}
	return d, nil
}

// ReadFile reads a canvas document from a JSON file.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}

// WriteFile writes a canvas document to a JSON file.
func WriteFile(d Document, path string) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
