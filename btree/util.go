package btree

import "fmt"
import "io"
import "strings"

import "github.com/bnclabs/gobtree/malloc"

// Dotdump to convert whole tree into dot script that can be visualized
// using graphviz.
func (m *Map[K, V]) Dotdump(buffer io.Writer) {
	lines := []string{
		"digraph btree {",
		"  node[shape=record];\n",
		"}",
	}
	buffer.Write([]byte(strings.Join(lines[:len(lines)-1], "\n")))
	m.tree.dotdump(m.tree.root, buffer)
	buffer.Write([]byte(lines[len(lines)-1] + "\n"))
}

func (t *tree[K, V]) dotdump(ref malloc.Ref, buffer io.Writer) {
	if ref == malloc.Nilref {
		return
	}
	nd := t.getnode(ref)
	fields := make([]string, 0, len(nd.keys))
	for i, key := range nd.keys {
		fields = append(fields, fmt.Sprintf("<f%d> %v", i, key))
	}
	label := strings.Join(fields, "|")
	fmt.Fprintf(buffer, "  %q [label=\"%s\"];\n", ref.String(), label)
	for _, child := range nd.children {
		fmt.Fprintf(buffer, "  %q -> %q;\n", ref.String(), child.String())
		t.dotdump(child, buffer)
	}
}

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}
