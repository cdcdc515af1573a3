package graph

// Node is one concept. Forward and Backward mirror the edge set and are never
// edited on their own.
type Node struct {
	ID       int
	Text     string
	Forward  []int
	Backward []int
}

type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type SnapshotNode struct {
	ID      int    `json:"id"`
	Text    string `json:"text"`
	Learned bool   `json:"learned"`
}

// Snapshot is the logical state of a graph, detached from the live model.
type Snapshot struct {
	Nodes []SnapshotNode `json:"nodes"`
	Edges []Edge         `json:"edges"`
}

func (n *Node) clone() *Node {
	return &Node{
		ID:       n.ID,
		Text:     n.Text,
		Forward:  append([]int(nil), n.Forward...),
		Backward: append([]int(nil), n.Backward...),
	}
}
