package models

import "encoding/json"

type NodeType string

const (
	NodeFile   NodeType = "file"
	NodeFolder NodeType = "folder"
)

// FileNode ist ein Eintrag im Dateibaum eines Zip-Archivs.
type FileNode struct {
	Type     NodeType
	Name     string
	Children []*FileNode
}

// Child sucht einen direkten Nachfahren nach Namen.
func (n *FileNode) Child(name string) *FileNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// MarshalJSON gibt children nur für Ordner aus, dort aber immer (auch leer).
func (n *FileNode) MarshalJSON() ([]byte, error) {
	if n.Type != NodeFolder {
		return json.Marshal(struct {
			Type NodeType `json:"type"`
			Name string   `json:"name"`
		}{n.Type, n.Name})
	}
	children := n.Children
	if children == nil {
		children = []*FileNode{}
	}
	return json.Marshal(struct {
		Type     NodeType    `json:"type"`
		Name     string      `json:"name"`
		Children []*FileNode `json:"children"`
	}{n.Type, n.Name, children})
}
