package orderbook

// RBTree orders price levels by price for O(log n) best-price access and
// O(log n) removal of an emptied level.
//
// The tree is intrusive: the PriceLevel is the node, carrying its own
// left/right/parent links and color bit. A black sentinel stands in for
// nil leaves, which keeps the rotation and fixup code free of nil
// special cases. Levels are handed to Insert/Remove as physical nodes;
// the two-child delete case transplants the in-order successor instead
// of copying keys, so pointers held by the side's price map stay valid.
//
// Single-writer, like everything the matching goroutine owns.
type RBTree struct {
	root     *PriceLevel
	sentinel *PriceLevel
	size     int
}

// NewRBTree constructs an empty tree with a black sentinel.
func NewRBTree() *RBTree {
	s := &PriceLevel{color: black}
	return &RBTree{root: s, sentinel: s}
}

// Size returns the number of price levels currently present.
func (t *RBTree) Size() int { return t.size }

// Find returns the level at price, or nil.
func (t *RBTree) Find(price int64) *PriceLevel {
	n := t.root
	for n != t.sentinel {
		switch {
		case price < n.Price:
			n = n.left
		case price > n.Price:
			n = n.right
		default:
			return n
		}
	}
	return nil
}

// Best returns the minimum-price level (best ask) when min is true, the
// maximum-price level (best bid) otherwise. Nil on an empty tree.
func (t *RBTree) Best(min bool) *PriceLevel {
	if t.root == t.sentinel {
		return nil
	}
	if min {
		return t.minNode(t.root)
	}
	return t.maxNode(t.root)
}

// Insert adds a level whose price is not already present. Uniqueness is
// guaranteed by the caller through the side's price map.
func (t *RBTree) Insert(z *PriceLevel) {
	y := t.sentinel
	x := t.root
	for x != t.sentinel {
		y = x
		if z.Price < x.Price {
			x = x.left
		} else {
			x = x.right
		}
	}

	z.parent = y
	z.left = t.sentinel
	z.right = t.sentinel
	z.color = red

	if y == t.sentinel {
		t.root = z
	} else if z.Price < y.Price {
		y.left = z
	} else {
		y.right = z
	}
	t.insertFixup(z)
	t.size++
}

// Remove deletes the physical node z, which must be in the tree.
func (t *RBTree) Remove(z *PriceLevel) {
	y := z
	yColor := y.color
	var x *PriceLevel

	if z.left == t.sentinel {
		x = z.right
		t.transplant(z, z.right)
	} else if z.right == t.sentinel {
		x = z.left
		t.transplant(z, z.left)
	} else {
		// Two children: move the successor node into z's position.
		y = t.minNode(z.right)
		yColor = y.color
		x = y.right
		if y.parent == z {
			x.parent = y
		} else {
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	if yColor == black {
		t.deleteFixup(x)
	}

	z.left = nil
	z.right = nil
	z.parent = nil
	z.color = black
	t.size--
}

// ForEachAscending applies fn from lowest to highest price until fn
// returns false.
func (t *RBTree) ForEachAscending(fn func(*PriceLevel) bool) {
	for n := t.Best(true); n != nil; n = t.next(n) {
		if !fn(n) {
			return
		}
	}
}

// ForEachDescending applies fn from highest to lowest price until fn
// returns false.
func (t *RBTree) ForEachDescending(fn func(*PriceLevel) bool) {
	for n := t.Best(false); n != nil; n = t.prev(n) {
		if !fn(n) {
			return
		}
	}
}

// ---- internal traversal ----

func (t *RBTree) minNode(n *PriceLevel) *PriceLevel {
	for n.left != t.sentinel {
		n = n.left
	}
	return n
}

func (t *RBTree) maxNode(n *PriceLevel) *PriceLevel {
	for n.right != t.sentinel {
		n = n.right
	}
	return n
}

// next returns the in-order successor, nil past the maximum.
func (t *RBTree) next(n *PriceLevel) *PriceLevel {
	if n.right != t.sentinel {
		return t.minNode(n.right)
	}
	p := n.parent
	for p != t.sentinel && n == p.right {
		n = p
		p = p.parent
	}
	if p == t.sentinel {
		return nil
	}
	return p
}

// prev returns the in-order predecessor, nil past the minimum.
func (t *RBTree) prev(n *PriceLevel) *PriceLevel {
	if n.left != t.sentinel {
		return t.maxNode(n.left)
	}
	p := n.parent
	for p != t.sentinel && n == p.left {
		n = p
		p = p.parent
	}
	if p == t.sentinel {
		return nil
	}
	return p
}

// ---- rotations & fixups ----

func (t *RBTree) leftRotate(x *PriceLevel) {
	y := x.right
	x.right = y.left
	if y.left != t.sentinel {
		y.left.parent = x
	}
	y.parent = x.parent
	if x.parent == t.sentinel {
		t.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (t *RBTree) rightRotate(y *PriceLevel) {
	x := y.left
	y.left = x.right
	if x.right != t.sentinel {
		x.right.parent = y
	}
	x.parent = y.parent
	if y.parent == t.sentinel {
		t.root = x
	} else if y == y.parent.right {
		y.parent.right = x
	} else {
		y.parent.left = x
	}
	x.right = y
	y.parent = x
}

func (t *RBTree) insertFixup(z *PriceLevel) {
	for z.parent.color == red {
		if z.parent == z.parent.parent.left {
			y := z.parent.parent.right // uncle
			if y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.right {
					z = z.parent
					t.leftRotate(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.rightRotate(z.parent.parent)
			}
		} else {
			y := z.parent.parent.left // uncle
			if y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.left {
					z = z.parent
					t.rightRotate(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.leftRotate(z.parent.parent)
			}
		}
	}
	t.root.color = black
}

func (t *RBTree) transplant(u, v *PriceLevel) {
	if u.parent == t.sentinel {
		t.root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	v.parent = u.parent
}

func (t *RBTree) deleteFixup(x *PriceLevel) {
	for x != t.root && x.color == black {
		if x == x.parent.left {
			w := x.parent.right
			if w.color == red {
				w.color = black
				x.parent.color = red
				t.leftRotate(x.parent)
				w = x.parent.right
			}
			if w.left.color == black && w.right.color == black {
				w.color = red
				x = x.parent
			} else {
				if w.right.color == black {
					w.left.color = black
					w.color = red
					t.rightRotate(w)
					w = x.parent.right
				}
				w.color = x.parent.color
				x.parent.color = black
				w.right.color = black
				t.leftRotate(x.parent)
				x = t.root
			}
		} else {
			w := x.parent.left
			if w.color == red {
				w.color = black
				x.parent.color = red
				t.rightRotate(x.parent)
				w = x.parent.left
			}
			if w.right.color == black && w.left.color == black {
				w.color = red
				x = x.parent
			} else {
				if w.left.color == black {
					w.right.color = black
					w.color = red
					t.leftRotate(w)
					w = x.parent.left
				}
				w.color = x.parent.color
				x.parent.color = black
				w.left.color = black
				t.rightRotate(x.parent)
				x = t.root
			}
		}
	}
	x.color = black
}
