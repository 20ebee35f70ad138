// Package canvas models Obsidian-style .canvas diagram documents: positioned
// nodes, connecting edges, and their JSON serialization.
package canvas

import (
	"encoding/json"
	"fmt"
)

// Node types.
const (
	NodeTypeFile = "file"
	NodeTypeText = "text"
)

// Edge sides.
const (
	SideTop    = "top"
	SideBottom = "bottom"
	SideLeft   = "left"
	SideRight  = "right"
)

// Node is a positioned element of a canvas. File nodes reference a vault
// document by path; text nodes carry literal content.
type Node struct {
	ID     string `json:"id"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Type   string `json:"type"`
	File   string `json:"file,omitempty"`
	Text   string `json:"text,omitempty"`
	Color  string `json:"color,omitempty"`
}

// Edge connects two nodes of the same canvas.
type Edge struct {
	ID       string `json:"id"`
	FromNode string `json:"fromNode"`
	FromSide string `json:"fromSide"`
	ToNode   string `json:"toNode"`
	ToSide   string `json:"toSide"`
}

// Canvas is a full diagram document.
type Canvas struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// FileNode builds a file-reference node.
func FileNode(id, file string, x, y, width, height int) Node {
	return Node{ID: id, X: x, Y: y, Width: width, Height: height, Type: NodeTypeFile, File: file}
}

// TextNode builds a literal-text node.
func TextNode(id, text string, x, y, width, height int) Node {
	return Node{ID: id, X: x, Y: y, Width: width, Height: height, Type: NodeTypeText, Text: text}
}

// AddNode appends a node to the canvas.
func (c *Canvas) AddNode(n Node) {
	c.Nodes = append(c.Nodes, n)
}

// AddEdge appends an edge to the canvas.
func (c *Canvas) AddEdge(e Edge) {
	c.Edges = append(c.Edges, e)
}

// Encode serializes the canvas document. Nodes and edges are always emitted
// as arrays, never null, so host consumers see a well-formed document even
// when a mode produces no edges.
func (c *Canvas) Encode() ([]byte, error) {
	out := *c
	if out.Nodes == nil {
		out.Nodes = []Node{}
	}
	if out.Edges == nil {
		out.Edges = []Edge{}
	}
	data, err := json.MarshalIndent(out, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("canvas: encode: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a canvas document. An absent edges array is treated as empty.
func Decode(data []byte) (*Canvas, error) {
	var c Canvas
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("canvas: decode: %w", err)
	}
	if c.Edges == nil {
		c.Edges = []Edge{}
	}
	return &c, nil
}
