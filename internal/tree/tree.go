// Package tree renders an ordered, depth-annotated entry list as a
// box-drawing hierarchy. It is a pure function over entry order and
// depth — no tree data structure is built — so the same renderer works
// for archive listings and live directory walks alike.
package tree

import "strings"

// Entry is one line of the hierarchy, in traversal order.
type Entry struct {
	Name  string // display name (base component only)
	Depth int    // 0 for the root entry
	Dir   bool
}

const (
	connectorMid  = "├── "
	connectorLast = "└── "
	prefixCont    = "│   "
	prefixBlank   = "    "
)

// Render produces the conventional tree output for entries given in
// traversal order. The first entry is printed bare as the root. A
// stack of active branch prefixes tracks each open ancestor directory:
// entries at a depth less than or equal to the stack top close those
// branches. An entry takes the last-item connector exactly when no
// later sibling follows it at the same depth before the branch closes.
func Render(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}

	type frame struct {
		prefix string
		depth  int
	}

	var b strings.Builder
	var stack []frame

	for i, e := range entries {
		for len(stack) > 0 && stack[len(stack)-1].depth >= e.Depth {
			stack = stack[:len(stack)-1]
		}
		prefix := ""
		if len(stack) > 0 {
			prefix = stack[len(stack)-1].prefix
		}

		last := lastSibling(entries, i)

		if i == 0 {
			b.WriteString(e.Name)
			b.WriteString("\n")
			if e.Dir {
				// The root opens no visual branch; its children start
				// at the left margin.
				stack = append(stack, frame{prefix: "", depth: e.Depth})
			}
			continue
		}

		connector := connectorMid
		if last {
			connector = connectorLast
		}
		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(e.Name)
		b.WriteString("\n")

		if e.Dir {
			pad := prefixCont
			if last {
				pad = prefixBlank
			}
			stack = append(stack, frame{prefix: prefix + pad, depth: e.Depth})
		}
	}

	return b.String()
}

// lastSibling reports whether entry i is the final entry at its depth
// within its branch: no later entry shares its depth before one
// appears at a shallower depth.
func lastSibling(entries []Entry, i int) bool {
	for j := i + 1; j < len(entries); j++ {
		if entries[j].Depth < entries[i].Depth {
			return true
		}
		if entries[j].Depth == entries[i].Depth {
			return false
		}
	}
	return true
}
