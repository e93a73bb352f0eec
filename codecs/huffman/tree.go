package huffman

import (
	"container/heap"

	"github.com/dargueta/pixcodec/entropy"
)

const noNode = -1

// node is one entry in a [Tree]'s arena. Children are referenced by index; a
// node with no children is a leaf and owns exactly one symbol.
type node struct {
	frequency uint64
	symbol    byte
	leaf      bool
	left      int
	right     int
}

// Tree is a Huffman tree stored as an arena of nodes. Nodes are only ever
// appended, so a node's index doubles as its insertion order.
type Tree struct {
	nodes []node
	root  int
}

func newEmptyTree() *Tree {
	return &Tree{root: noNode}
}

func (tree *Tree) addLeaf(symbol byte, frequency uint64) int {
	tree.nodes = append(
		tree.nodes,
		node{frequency: frequency, symbol: symbol, leaf: true, left: noNode, right: noNode},
	)
	return len(tree.nodes) - 1
}

func (tree *Tree) addInternal(left, right int) int {
	tree.nodes = append(
		tree.nodes,
		node{
			frequency: tree.nodes[left].frequency + tree.nodes[right].frequency,
			left:      left,
			right:     right,
		},
	)
	return len(tree.nodes) - 1
}

// addBranch adds an internal node with no children yet. Only used when
// rebuilding a tree from a code table.
func (tree *Tree) addBranch() int {
	tree.nodes = append(tree.nodes, node{left: noNode, right: noNode})
	return len(tree.nodes) - 1
}

func (tree *Tree) child(index int, bit uint8) int {
	if bit == 0 {
		return tree.nodes[index].left
	}
	return tree.nodes[index].right
}

func (tree *Tree) setChild(index int, bit uint8, child int) {
	if bit == 0 {
		tree.nodes[index].left = child
	} else {
		tree.nodes[index].right = child
	}
}

// Root returns the index of the root node, or -1 for an empty tree.
func (tree *Tree) Root() int {
	return tree.root
}

// Len returns the number of nodes in the tree.
func (tree *Tree) Len() int {
	return len(tree.nodes)
}

// Frequency returns the frequency of the node at `index`.
func (tree *Tree) Frequency(index int) uint64 {
	return tree.nodes[index].frequency
}

// IsLeaf returns true if the node at `index` has no children.
func (tree *Tree) IsLeaf(index int) bool {
	return tree.nodes[index].leaf
}

// nodeQueue is a min-heap of node indices ordered by frequency, then by
// insertion order, which makes ties resolve the same way on every run.
type nodeQueue struct {
	tree    *Tree
	indices []int
}

func (q *nodeQueue) Len() int { return len(q.indices) }

func (q *nodeQueue) Less(i, j int) bool {
	a := q.tree.nodes[q.indices[i]].frequency
	b := q.tree.nodes[q.indices[j]].frequency
	if a != b {
		return a < b
	}
	return q.indices[i] < q.indices[j]
}

func (q *nodeQueue) Swap(i, j int) {
	q.indices[i], q.indices[j] = q.indices[j], q.indices[i]
}

func (q *nodeQueue) Push(x any) {
	q.indices = append(q.indices, x.(int))
}

func (q *nodeQueue) Pop() any {
	last := q.indices[len(q.indices)-1]
	q.indices = q.indices[:len(q.indices)-1]
	return last
}

// BuildTree constructs the Huffman tree for a histogram. Leaves are created in
// ascending symbol order for every symbol with a nonzero count. The two
// lowest-frequency nodes are merged repeatedly, the first one popped becoming
// the left child, until one node is left.
//
// An empty histogram gives an empty tree. A histogram with a single symbol gives
// a tree whose root is that symbol's leaf.
func BuildTree(histogram entropy.Histogram) *Tree {
	tree := newEmptyTree()
	queue := &nodeQueue{tree: tree}

	for symbol, count := range histogram.Counts {
		if count > 0 {
			queue.indices = append(queue.indices, tree.addLeaf(byte(symbol), count))
		}
	}

	switch queue.Len() {
	case 0:
		return tree
	case 1:
		tree.root = queue.indices[0]
		return tree
	}

	heap.Init(queue)
	for queue.Len() > 1 {
		left := heap.Pop(queue).(int)
		right := heap.Pop(queue).(int)
		heap.Push(queue, tree.addInternal(left, right))
	}
	tree.root = heap.Pop(queue).(int)
	return tree
}

// CodeTable walks the tree depth-first, appending 0 when descending left and 1
// when descending right, and returns each leaf's path as its code.
//
// If the root is itself a leaf there's no path to walk, so its symbol gets the
// one-bit code "0".
func (tree *Tree) CodeTable() *CodeTable {
	table := NewCodeTable()
	if tree.root == noNode {
		return table
	}
	if tree.nodes[tree.root].leaf {
		table.Set(tree.nodes[tree.root].symbol, Code{0})
		return table
	}

	type frame struct {
		index int
		path  Code
	}
	stack := []frame{{index: tree.root, path: Code{}}}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &tree.nodes[current.index]

		if n.leaf {
			table.Set(n.symbol, current.path)
			continue
		}
		// Push right first so the left subtree is visited first.
		if n.right != noNode {
			stack = append(stack, frame{index: n.right, path: current.path.Append(1)})
		}
		if n.left != noNode {
			stack = append(stack, frame{index: n.left, path: current.path.Append(0)})
		}
	}
	return table
}
