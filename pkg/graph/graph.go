package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/stackfold/pkg/compound"
	"github.com/matzehuels/stackfold/pkg/errors"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// Marshal converts a compound graph to indented JSON, annotated with st.
func Marshal(g *compound.Graph, st State) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, st, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes a compound graph to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(g *compound.Graph, st State, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, st, f)
}

// Write writes a compound graph as JSON to an io.Writer.
func Write(g *compound.Graph, st State, w io.Writer) error {
	return Encode(w, FromCompound(g, st))
}

// Encode writes gj as indented JSON.
func Encode(w io.Writer, gj Graph) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(gj); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadFile reads a JSON file and returns the decoded serialization form.
// Use [ToCompound] to build the in-memory graph.
func ReadFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Graph{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", path)
		}
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a JSON graph from an io.Reader.
func Read(r io.Reader) (Graph, error) {
	var gj Graph
	if err := json.NewDecoder(r).Decode(&gj); err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}
	return gj, nil
}

// Unmarshal deserializes JSON bytes to a Graph.
func Unmarshal(data []byte) (Graph, error) {
	return Read(bytes.NewReader(data))
}

// Load reads a JSON file and builds the compound graph in one step.
func Load(path string) (*compound.Graph, Graph, error) {
	gj, err := ReadFile(path)
	if err != nil {
		return nil, Graph{}, err
	}
	g, err := ToCompound(gj)
	if err != nil {
		return nil, Graph{}, err
	}
	return g, gj, nil
}
