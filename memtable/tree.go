// Package memtable implements the ordered, bounded in-memory table that
// absorbs writes: a red-black tree over record.Record keys, held in an
// arena addressed by integer index rather than raw pointers with parent
// back-links (spec.md §9's re-architecture guidance for the source's
// cyclic tree-node pointers).
package memtable

import "github.com/Priyanshu23/OrderedKV/record"

type nodeIdx int32

const nilIdx nodeIdx = -1

type nodeColor bool

const (
	red   nodeColor = true
	black nodeColor = false
)

type rbNode struct {
	rec                 record.Record
	left, right, parent nodeIdx
	color               nodeColor
}

// tree is a red-black tree of record.Records ordered by record.Compare on
// the key. It supports the three operations the memtable needs: point
// search, insert-or-update, and an ascending in-order walk (used both for
// flush and for range scans with subtree pruning).
type tree struct {
	nodes []rbNode
	root  nodeIdx
	size  int
}

func newTree() *tree {
	return &tree{root: nilIdx}
}

func (t *tree) colorOf(i nodeIdx) nodeColor {
	if i == nilIdx {
		return black
	}
	return t.nodes[i].color
}

func (t *tree) setColor(i nodeIdx, c nodeColor) {
	if i != nilIdx {
		t.nodes[i].color = c
	}
}

func (t *tree) newNode(rec record.Record, c nodeColor, parent nodeIdx) nodeIdx {
	t.nodes = append(t.nodes, rbNode{rec: rec, left: nilIdx, right: nilIdx, parent: parent, color: c})
	return nodeIdx(len(t.nodes) - 1)
}

// search returns the record matching key and true, or a zero Record and
// false.
func (t *tree) search(key record.Scalar) (record.Record, bool) {
	cur := t.root
	for cur != nilIdx {
		switch record.Compare(key, t.nodes[cur].rec.Key) {
		case record.Equal:
			return t.nodes[cur].rec, true
		case record.Less:
			cur = t.nodes[cur].left
		default:
			cur = t.nodes[cur].right
		}
	}
	return record.Record{}, false
}

// insert inserts rec, or updates the value in place if its key already
// exists. It reports whether an existing record was updated (true) as
// opposed to a new one being inserted (false).
func (t *tree) insert(rec record.Record) (updated bool) {
	if t.root == nilIdx {
		t.root = t.newNode(rec, black, nilIdx)
		t.size++
		return false
	}

	cur := t.root
	var parent nodeIdx
	var goLeft bool
	for cur != nilIdx {
		parent = cur
		switch record.Compare(rec.Key, t.nodes[cur].rec.Key) {
		case record.Equal:
			t.nodes[cur].rec.Value = rec.Value
			return true
		case record.Less:
			goLeft = true
			cur = t.nodes[cur].left
		default:
			goLeft = false
			cur = t.nodes[cur].right
		}
	}

	newIdx := t.newNode(rec, red, parent)
	if goLeft {
		t.nodes[parent].left = newIdx
	} else {
		t.nodes[parent].right = newIdx
	}
	t.size++
	t.fixInsert(newIdx)
	return false
}

func (t *tree) rotateLeft(x nodeIdx) {
	y := t.nodes[x].right
	t.nodes[x].right = t.nodes[y].left
	if t.nodes[y].left != nilIdx {
		t.nodes[t.nodes[y].left].parent = x
	}
	t.nodes[y].parent = t.nodes[x].parent
	if t.nodes[x].parent == nilIdx {
		t.root = y
	} else if x == t.nodes[t.nodes[x].parent].left {
		t.nodes[t.nodes[x].parent].left = y
	} else {
		t.nodes[t.nodes[x].parent].right = y
	}
	t.nodes[y].left = x
	t.nodes[x].parent = y
}

func (t *tree) rotateRight(x nodeIdx) {
	y := t.nodes[x].left
	t.nodes[x].left = t.nodes[y].right
	if t.nodes[y].right != nilIdx {
		t.nodes[t.nodes[y].right].parent = x
	}
	t.nodes[y].parent = t.nodes[x].parent
	if t.nodes[x].parent == nilIdx {
		t.root = y
	} else if x == t.nodes[t.nodes[x].parent].right {
		t.nodes[t.nodes[x].parent].right = y
	} else {
		t.nodes[t.nodes[x].parent].left = y
	}
	t.nodes[y].right = x
	t.nodes[x].parent = y
}

func (t *tree) fixInsert(z nodeIdx) {
	for t.colorOf(t.nodes[z].parent) == red {
		parent := t.nodes[z].parent
		grandparent := t.nodes[parent].parent
		if parent == t.nodes[grandparent].left {
			uncle := t.nodes[grandparent].right
			if t.colorOf(uncle) == red {
				t.setColor(parent, black)
				t.setColor(uncle, black)
				t.setColor(grandparent, red)
				z = grandparent
				continue
			}
			if z == t.nodes[parent].right {
				z = parent
				t.rotateLeft(z)
				parent = t.nodes[z].parent
				grandparent = t.nodes[parent].parent
			}
			t.setColor(parent, black)
			t.setColor(grandparent, red)
			t.rotateRight(grandparent)
		} else {
			uncle := t.nodes[grandparent].left
			if t.colorOf(uncle) == red {
				t.setColor(parent, black)
				t.setColor(uncle, black)
				t.setColor(grandparent, red)
				z = grandparent
				continue
			}
			if z == t.nodes[parent].left {
				z = parent
				t.rotateRight(z)
				parent = t.nodes[z].parent
				grandparent = t.nodes[parent].parent
			}
			t.setColor(parent, black)
			t.setColor(grandparent, red)
			t.rotateLeft(grandparent)
		}
	}
	t.setColor(t.root, black)
}

// inOrder returns every record in ascending key order in O(n) — the
// stream flush serializes to a run file.
func (t *tree) inOrder() []record.Record {
	out := make([]record.Record, 0, t.size)
	var walk func(nodeIdx)
	walk = func(i nodeIdx) {
		if i == nilIdx {
			return
		}
		walk(t.nodes[i].left)
		out = append(out, t.nodes[i].rec)
		walk(t.nodes[i].right)
	}
	walk(t.root)
	return out
}

// rangeInto inserts every record whose key lies in [lo, hi] into out,
// pruning subtrees whose key bounds lie strictly outside the range.
func (t *tree) rangeInto(lo, hi record.Scalar, out *record.Set) {
	var walk func(nodeIdx)
	walk = func(i nodeIdx) {
		if i == nilIdx {
			return
		}
		n := &t.nodes[i]
		if record.Compare(lo, n.rec.Key) != record.Greater {
			walk(n.left)
		}
		if record.Compare(n.rec.Key, lo) != record.Less && record.Compare(n.rec.Key, hi) != record.Greater {
			out.Insert(n.rec)
		}
		if record.Compare(hi, n.rec.Key) != record.Less {
			walk(n.right)
		}
	}
	walk(t.root)
}
