package utils

import (
	"fmt"
	"strings"
)

// MemReport provides a hierarchical memory usage report for a component.
type MemReport struct {
	Name       string
	TotalBytes int
	Children   []MemReport
}

// NewParent builds a report whose total is the sum of its children.
func NewParent(name string, children ...MemReport) MemReport {
	total := 0
	for _, c := range children {
		total += c.TotalBytes
	}
	return MemReport{Name: name, TotalBytes: total, Children: children}
}

// Print formats and prints the MemReport as a tree.
func (r MemReport) Print(indent int) {
	prefix := strings.Repeat("  ", indent)
	fmt.Printf("%s- %s: %d bytes\n", prefix, r.Name, r.TotalBytes)
	for _, child := range r.Children {
		child.Print(indent + 1)
	}
}

// String returns a string representation of the MemReport as a tree.
func (r MemReport) String() string {
	var sb strings.Builder
	r.buildString(&sb, 0)
	return sb.String()
}

func (r MemReport) buildString(sb *strings.Builder, indent int) {
	prefix := strings.Repeat("  ", indent)
	sb.WriteString(fmt.Sprintf("%s- %s: %d bytes\n", prefix, r.Name, r.TotalBytes))
	for _, child := range r.Children {
		child.buildString(sb, indent+1)
	}
}
