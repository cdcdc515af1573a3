package store

import (
	"learnassist/app/service/graph"
	"learnassist/app/util/geom"
)

// Payload is everything a save file restores: the logical graph and where
// each node sits on the canvas.
type Payload struct {
	Graph  graph.Snapshot
	Layout map[int]geom.Point
}

const (
	kindNode     = "node"
	kindEdge     = "edge"
	kindPosition = "position"
)

type jsonLineItem struct {
	Kind    string `json:"kind"`
	ID      int    `json:"id"`
	Text    string `json:"text,omitempty"`
	Learned bool   `json:"learned,omitempty"`
	From    int    `json:"from"`
	To      int    `json:"to"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}
