package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/docgraph/pkg/types"
)

// Node is one file in the graph.
type Node struct {
	ID               string             `json:"id"`
	Type             string             `json:"type"`
	FileType         string             `json:"file_type"`
	FileName         string             `json:"file_name"`
	FilePath         string             `json:"file_path"`
	Metadata         types.FileMetadata `json:"metadata"`
	ProcessedDataRef string             `json:"processed_data_ref,omitempty"`
}

// Edge is one relationship in the graph.
type Edge struct {
	Source                  string                 `json:"source"`
	Target                  string                 `json:"target"`
	RelationshipType        types.RelationshipType `json:"relationship_type"`
	RelationshipDescription string                 `json:"relationship_description"`
	Confidence              float64                `json:"confidence"`
	Evidence                []types.Evidence       `json:"evidence"`
}

// Snapshot is the serialized form of a graph.
type Snapshot struct {
	Nodes     []Node    `json:"nodes"`
	Edges     []Edge    `json:"edges"`
	NodeCount int       `json:"node_count"`
	EdgeCount int       `json:"edge_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Graph holds nodes and edges for one detection run. AddNode and AddEdge
// append without deduplication; callers ensure one node per file identity.
type Graph struct {
	nodes []Node
	edges []Edge
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{}
}

// AddNode appends a file node wrapping the given metadata. processedRef
// references the file's processed output, if any.
func (g *Graph) AddNode(meta *types.FileMetadata, processedRef string) {
	g.nodes = append(g.nodes, Node{
		ID:               meta.FileID,
		Type:             "file",
		FileType:         meta.FileType,
		FileName:         meta.FileName,
		FilePath:         meta.FilePath,
		Metadata:         *meta,
		ProcessedDataRef: processedRef,
	})
}

// AddEdge appends an edge wrapping the given relationship. Edges are not
// validated against existing node IDs.
func (g *Graph) AddEdge(rel types.Relationship) {
	g.edges = append(g.edges, Edge{
		Source:                  rel.SourceID,
		Target:                  rel.TargetID,
		RelationshipType:        rel.Type,
		RelationshipDescription: rel.Description,
		Confidence:              rel.Confidence,
		Evidence:                rel.Evidence,
	})
}

// BuildFrom populates the graph from metadata records and relationships,
// adding all nodes before any edges. processedMap maps file IDs to processed
// output references and may be nil.
func (g *Graph) BuildFrom(metadataList []*types.FileMetadata, relationships []types.Relationship, processedMap map[string]string) {
	for _, meta := range metadataList {
		g.AddNode(meta, processedMap[meta.FileID])
	}
	for _, rel := range relationships {
		g.AddEdge(rel)
	}
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Snapshot captures the current graph state with a creation timestamp.
func (g *Graph) Snapshot() Snapshot {
	nodes := make([]Node, len(g.nodes))
	copy(nodes, g.nodes)
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)

	return Snapshot{
		Nodes:     nodes,
		Edges:     edges,
		NodeCount: len(nodes),
		EdgeCount: len(edges),
		CreatedAt: time.Now(),
	}
}

// Save writes the snapshot as JSON, creating parent directories and
// overwriting any existing file.
func (g *Graph) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create graph directory: %w", err)
	}

	data, err := json.MarshalIndent(g.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode graph: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write graph: %w", err)
	}
	return nil
}

// NodeByID returns the node with the given ID, if present.
func (g *Graph) NodeByID(id string) (Node, bool) {
	for _, n := range g.nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// EdgesForNode returns every edge touching the given node ID.
func (g *Graph) EdgesForNode(id string) []Edge {
	var edges []Edge
	for _, e := range g.edges {
		if e.Source == id || e.Target == id {
			edges = append(edges, e)
		}
	}
	return edges
}

// ConnectedFiles returns the nodes directly connected to the given file ID.
func (g *Graph) ConnectedFiles(id string) []Node {
	seen := make(map[string]struct{})
	var connected []Node
	for _, e := range g.edges {
		var other string
		switch id {
		case e.Source:
			other = e.Target
		case e.Target:
			other = e.Source
		default:
			continue
		}
		if _, dup := seen[other]; dup {
			continue
		}
		seen[other] = struct{}{}
		if n, ok := g.NodeByID(other); ok {
			connected = append(connected, n)
		}
	}
	return connected
}
