package orderbook

import "nanomatch/infra/memory"

// OrderBook holds the two sides of a single instrument. Each side pairs
// a price->level map (O(1) lookup on add and cancel paths) with an
// intrusive red-black tree (O(log n) best-price access); the two are
// mutated in lockstep within one engine step, so a level is either in
// both or in neither.
//
// The book is single-writer by design: only the matching goroutine may
// touch it, which is why there are no locks anywhere on this path.
type OrderBook struct {
	bids map[int64]*PriceLevel
	asks map[int64]*PriceLevel

	bidTree *RBTree
	askTree *RBTree

	orderPool *memory.Pool[Order]
	levelPool *memory.Pool[PriceLevel]
}

func NewOrderBook(orderPool *memory.Pool[Order], levelPool *memory.Pool[PriceLevel]) *OrderBook {
	return &OrderBook{
		bids:      make(map[int64]*PriceLevel),
		asks:      make(map[int64]*PriceLevel),
		bidTree:   NewRBTree(),
		askTree:   NewRBTree(),
		orderPool: orderPool,
		levelPool: levelPool,
	}
}

// AddOrder rests a new order at price on side, borrowing the level from
// the pool and inserting it into map and tree if this is the first order
// at that price. qty must be positive.
func (b *OrderBook) AddOrder(id, price, qty int64, side Side) {
	o := b.orderPool.Borrow()
	o.ID = id
	o.Price = price
	o.Quantity = qty
	o.Side = side

	levels, tree := b.side(side)
	lvl := levels[price]
	if lvl == nil {
		lvl = b.levelPool.Borrow()
		lvl.Price = price
		levels[price] = lvl
		tree.Insert(lvl)
	}
	lvl.AddOrder(o)
}

// Match runs the crossing loop for one incoming order against the
// opposite side and returns the filled quantity. Crossing levels are
// consumed best-first (ascending asks for a buy, descending bids for a
// sell); the loop stops at the first level beyond the limit price or
// when the opposite side is exhausted.
func (b *OrderBook) Match(id, price, qty int64, side Side, listener MatchEventListener) int64 {
	remaining := qty

	if side == Buy {
		for remaining > 0 {
			best := b.askTree.Best(true)
			if best == nil || best.Price > price {
				break
			}
			remaining = b.matchLevel(best, remaining, b.asks, b.askTree, id, side, listener)
		}
	} else {
		for remaining > 0 {
			best := b.bidTree.Best(false)
			if best == nil || best.Price < price {
				break
			}
			remaining = b.matchLevel(best, remaining, b.bids, b.bidTree, id, side, listener)
		}
	}

	return qty - remaining
}

// matchLevel walks the level's FIFO from the head, filling until either
// the incoming quantity or the level is exhausted. For every fill slice
// two trades are emitted at the resting level's price: the maker's
// first, then the taker's. A level emptied here is removed from map and
// tree and released before the caller's next iteration.
func (b *OrderBook) matchLevel(
	lvl *PriceLevel,
	qty int64,
	levels map[int64]*PriceLevel,
	tree *RBTree,
	takerID int64,
	takerSide Side,
	listener MatchEventListener,
) int64 {
	head := lvl.head
	for head != nil && qty > 0 {
		tradeQty := min(qty, head.Quantity)

		listener.OnTrade(head.ID, lvl.Price, tradeQty, head.Side)
		listener.OnTrade(takerID, lvl.Price, tradeQty, takerSide)

		head.Quantity -= tradeQty
		lvl.TotalQuantity -= tradeQty
		qty -= tradeQty

		if head.Quantity == 0 {
			filled := head
			head = head.next
			lvl.RemoveOrder(filled)
			b.orderPool.Release(filled)
		}
	}

	if lvl.IsEmpty() {
		delete(levels, lvl.Price)
		tree.Remove(lvl)
		b.levelPool.Release(lvl)
	}

	return qty
}

// BestBid returns the highest bid level, or nil.
func (b *OrderBook) BestBid() *PriceLevel {
	return b.bidTree.Best(false)
}

// BestAsk returns the lowest ask level, or nil.
func (b *OrderBook) BestAsk() *PriceLevel {
	return b.askTree.Best(true)
}

// Level looks up the level at price on side through the map, or nil.
func (b *OrderBook) Level(price int64, side Side) *PriceLevel {
	levels, _ := b.side(side)
	return levels[price]
}

// Bids and Asks expose the trees read-only for tests and snapshots.
func (b *OrderBook) Bids() *RBTree { return b.bidTree }
func (b *OrderBook) Asks() *RBTree { return b.askTree }

func (b *OrderBook) side(s Side) (map[int64]*PriceLevel, *RBTree) {
	if s == Buy {
		return b.bids, b.bidTree
	}
	return b.asks, b.askTree
}
