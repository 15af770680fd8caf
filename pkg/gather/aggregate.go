package gather

import (
	"sort"
	"strings"
)

// Block is one included file in the aggregated document.
type Block struct {
	Path string
	Text string
}

// Document collects accepted files in enumeration order, enforcing the
// cumulative size cap. Once the cap would be exceeded it stops accepting
// entries; files are never truncated mid-content.
type Document struct {
	blocks       []Block
	totalBytes   int64
	cap          int64
	capReached   bool
	skippedAtCap int
}

// NewDocument creates a document with the given total content cap in bytes.
// Zero disables the cap.
func NewDocument(capBytes int64) *Document {
	return &Document{cap: capBytes}
}

// Append adds a file block unless doing so would exceed the cap. It returns
// false when the block was rejected; after the first rejection every further
// candidate is counted as skipped without re-checking.
func (d *Document) Append(path, text string) bool {
	if d.capReached {
		d.skippedAtCap++
		return false
	}
	if d.cap > 0 && d.totalBytes+int64(len(text)) > d.cap {
		d.capReached = true
		d.skippedAtCap++
		return false
	}
	d.blocks = append(d.blocks, Block{Path: path, Text: text})
	d.totalBytes += int64(len(text))
	return true
}

// NoteSkippedAtCap records a candidate that was never fetched because the
// cap had already been reached.
func (d *Document) NoteSkippedAtCap() { d.skippedAtCap++ }

func (d *Document) Blocks() []Block    { return d.blocks }
func (d *Document) Files() int         { return len(d.blocks) }
func (d *Document) TotalBytes() int64  { return d.totalBytes }
func (d *Document) CapReached() bool   { return d.capReached }
func (d *Document) SkippedAtCap() int  { return d.skippedAtCap }

// Paths returns the included paths in document order.
func (d *Document) Paths() []string {
	paths := make([]string, len(d.blocks))
	for i, b := range d.blocks {
		paths[i] = b.Path
	}
	return paths
}

// Render serializes the document: an optional tree preamble, then one block
// per file with a path header and a blank-line delimiter. Block order is the
// enumeration order, untouched.
func (d *Document) Render(tree string) string {
	var b strings.Builder
	if tree != "" {
		b.WriteString(tree)
		b.WriteString("\n")
	}
	for _, blk := range d.blocks {
		b.WriteString("=== FILE: ")
		b.WriteString(blk.Path)
		b.WriteString(" ===\n")
		b.WriteString(blk.Text)
		if !strings.HasSuffix(blk.Text, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// treeNode is an intermediate structure for the directory-tree preamble.
type treeNode struct {
	name     string
	isDir    bool
	children map[string]*treeNode
}

// RenderTree draws a directory tree over the given slash-relative paths,
// rooted at rootName. Directories sort before files, both alphabetically;
// this is display-only and does not affect block order.
func RenderTree(rootName string, paths []string) string {
	root := &treeNode{name: rootName, isDir: true, children: map[string]*treeNode{}}
	for _, p := range paths {
		cur := root
		segs := strings.Split(p, "/")
		for i, seg := range segs {
			child, ok := cur.children[seg]
			if !ok {
				child = &treeNode{name: seg, isDir: i < len(segs)-1, children: map[string]*treeNode{}}
				cur.children[seg] = child
			}
			cur = child
		}
	}

	var b strings.Builder
	b.WriteString("=== DIRECTORY TREE ===\n")
	b.WriteString(rootName)
	b.WriteString("/\n")
	writeTreeChildren(&b, root, "")
	return b.String()
}

func writeTreeChildren(b *strings.Builder, node *treeNode, prefix string) {
	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, c := node.children[names[i]], node.children[names[j]]
		if a.isDir != c.isDir {
			return a.isDir
		}
		return a.name < c.name
	})

	for i, name := range names {
		child := node.children[name]
		connector := "├── "
		childPrefix := prefix + "│   "
		if i == len(names)-1 {
			connector = "└── "
			childPrefix = prefix + "    "
		}
		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(child.name)
		if child.isDir {
			b.WriteString("/")
		}
		b.WriteString("\n")
		if child.isDir {
			writeTreeChildren(b, child, childPrefix)
		}
	}
}
