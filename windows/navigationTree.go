// Copyright 2025 The dgb Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package windows

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// TreeNodeType represents the type of node in the navigation tree
type TreeNodeType string

const (
	NodeTypeBranch TreeNodeType = "branch"
	NodeTypeSample TreeNodeType = "sample"
	NodeTypeFile   TreeNodeType = "file"
)

// TreeNode represents a node in the navigation tree
type TreeNode struct {
	ID       string       // Unique identifier
	NodeType TreeNodeType // Type of node
	Name     string       // Display name
	Rows     int          // Sample dataset size (sample nodes)
	Path     string       // File path (file nodes)
	Children []string     // Child node IDs
}

// NavigationTree manages the dataset navigation hierarchy: a Samples branch
// of generated datasets at fixed sizes and a Files branch of opened files.
type NavigationTree struct {
	nodes   map[string]*TreeNode
	rootIDs []string
	mu      sync.RWMutex // Protect concurrent access while nodes are added
}

const (
	branchSamplesID = "branch:samples"
	branchFilesID   = "branch:files"
)

// NewNavigationTree creates the tree with sample dataset leaves at the
// given row counts.
func NewNavigationTree(sampleSizes []int) *NavigationTree {
	nt := &NavigationTree{
		nodes:   make(map[string]*TreeNode),
		rootIDs: []string{branchSamplesID, branchFilesID},
	}

	samples := &TreeNode{
		ID:       branchSamplesID,
		NodeType: NodeTypeBranch,
		Name:     "Samples",
	}
	for _, n := range sampleSizes {
		id := fmt.Sprintf("sample:%d", n)
		nt.nodes[id] = &TreeNode{
			ID:       id,
			NodeType: NodeTypeSample,
			Name:     fmt.Sprintf("Orders (%s rows)", formatRowCount(n)),
			Rows:     n,
		}
		samples.Children = append(samples.Children, id)
	}
	nt.nodes[branchSamplesID] = samples

	nt.nodes[branchFilesID] = &TreeNode{
		ID:       branchFilesID,
		NodeType: NodeTypeBranch,
		Name:     "Files",
	}
	return nt
}

func formatRowCount(n int) string {
	switch {
	case n >= 1000000 && n%1000000 == 0:
		return fmt.Sprintf("%dM", n/1000000)
	case n >= 1000 && n%1000 == 0:
		return fmt.Sprintf("%dk", n/1000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// AddFileNode registers an opened file under the Files branch and returns
// its node ID. Re-opening the same file reuses the existing node.
func (nt *NavigationTree) AddFileNode(path string) string {
	nt.mu.Lock()
	defer nt.mu.Unlock()

	id := "file:" + path
	if _, exists := nt.nodes[id]; exists {
		return id
	}
	nt.nodes[id] = &TreeNode{
		ID:       id,
		NodeType: NodeTypeFile,
		Name:     filepath.Base(path),
		Path:     path,
	}
	files := nt.nodes[branchFilesID]
	files.Children = append(files.Children, id)
	return id
}

// GetChildren returns the child node IDs for a given parent node.
// Returns root nodes if nodeID is empty.
func (nt *NavigationTree) GetChildren(nodeID widget.TreeNodeID) []widget.TreeNodeID {
	nt.mu.RLock()
	defer nt.mu.RUnlock()

	if nodeID == "" {
		return nt.rootIDs
	}
	node, exists := nt.nodes[nodeID]
	if !exists {
		return []widget.TreeNodeID{}
	}
	return node.Children
}

// IsBranch returns true if the node can have children
func (nt *NavigationTree) IsBranch(nodeID widget.TreeNodeID) bool {
	nt.mu.RLock()
	defer nt.mu.RUnlock()

	if nodeID == "" {
		return true
	}
	node, exists := nt.nodes[nodeID]
	if !exists {
		return false
	}
	return node.NodeType == NodeTypeBranch
}

// GetNode retrieves a node by ID
func (nt *NavigationTree) GetNode(nodeID widget.TreeNodeID) *TreeNode {
	nt.mu.RLock()
	defer nt.mu.RUnlock()

	return nt.nodes[nodeID]
}

// UpdateNodeDisplay updates the visual representation of a tree node
func (nt *NavigationTree) UpdateNodeDisplay(nodeID widget.TreeNodeID, obj fyne.CanvasObject, branch bool) {
	node := nt.GetNode(nodeID)
	if node == nil {
		return
	}

	box, ok := obj.(*fyne.Container)
	if !ok || len(box.Objects) < 2 {
		return
	}

	icon, ok := box.Objects[0].(*widget.Icon)
	if ok {
		switch node.NodeType {
		case NodeTypeBranch:
			if strings.HasPrefix(node.ID, "branch:files") {
				icon.SetResource(theme.FolderIcon())
			} else {
				icon.SetResource(theme.FolderOpenIcon())
			}
		case NodeTypeSample:
			icon.SetResource(theme.StorageIcon())
		case NodeTypeFile:
			icon.SetResource(theme.DocumentIcon())
		}
	}

	label, ok := box.Objects[1].(*widget.Label)
	if ok {
		label.SetText(node.Name)
	}
}
