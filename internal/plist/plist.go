// SPDX-License-Identifier: Apache-2.0

package plist

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	hplist "howett.net/plist"
)

var errNoRoot = errors.New("property list has no root element")

// Node is an element of an XML property list
type Node struct {
	Name     string
	Value    string
	Children []Node
}

// Parse reads an XML property list and returns its root element
func Parse(data []byte) (Node, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	var stack []*Node
	var root *Node

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Node{}, fmt.Errorf("parsing property list: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			stack = append(stack, &Node{Name: t.Name.Local})
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Value += string(t)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				return Node{}, fmt.Errorf("parsing property list: unexpected </%s>", t.Name.Local)
			}
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			node.Value = strings.TrimSpace(node.Value)
			if len(stack) == 0 {
				root = node
				continue
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, *node)
		}
	}

	if root == nil {
		return Node{}, errNoRoot
	}
	return *root, nil
}

// Grandchildren returns the children of every child of n, in document order
func (n Node) Grandchildren() []Node {
	var out []Node
	for _, child := range n.Children {
		out = append(out, child.Children...)
	}
	return out
}

// Encode writes a dictionary of string values as an XML property list.
// Keys are written in sorted order.
func Encode(values map[string]string) ([]byte, error) {
	data, err := hplist.MarshalIndent(values, hplist.XMLFormat, "\t")
	if err != nil {
		return nil, fmt.Errorf("encoding property list: %w", err)
	}
	return data, nil
}
