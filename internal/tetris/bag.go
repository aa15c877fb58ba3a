package tetris

// Shuffler is the randomness the bag needs: an in-place shuffle of n
// elements. *math/rand.Rand satisfies it directly; tests can substitute a
// deterministic implementation for reproducible draw orders.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// bag is a two-bag-deep seven-bag randomizer. The 14-slot buffer holds two
// independently shuffled halves: the front half is the current draw order,
// the back half is pre-shuffled lookahead. Each half is reshuffled exactly
// once per seven draws consumed, so every window of seven draws aligned to a
// bag boundary contains each kind exactly once.
type bag struct {
	pieces [2 * NumKinds]PieceKind
	next   int // draw index into the front half, cycles 0..6
	rng    Shuffler
}

func newBag(rng Shuffler) *bag {
	b := &bag{rng: rng}
	for i := 0; i < NumKinds; i++ {
		b.pieces[i] = PieceKind(i)
		b.pieces[NumKinds+i] = PieceKind(i)
	}
	return b
}

// reset reshuffles both halves independently and rewinds the draw index.
func (b *bag) reset() {
	b.shuffleHalf(0)
	b.shuffleHalf(NumKinds)
	b.next = 0
}

// draw hands out the next kind. When the front half is fully consumed, the
// pre-shuffled back half becomes the new front and the vacated half is
// reshuffled.
func (b *bag) draw() PieceKind {
	kind := b.pieces[b.next]
	b.next++
	if b.next == NumKinds {
		copy(b.pieces[:NumKinds], b.pieces[NumKinds:])
		b.shuffleHalf(NumKinds)
		b.next = 0
	}
	return kind
}

// peek returns the kind the next draw will produce.
func (b *bag) peek() PieceKind {
	return b.pieces[b.next]
}

func (b *bag) shuffleHalf(start int) {
	b.rng.Shuffle(NumKinds, func(i, j int) {
		b.pieces[start+i], b.pieces[start+j] = b.pieces[start+j], b.pieces[start+i]
	})
}
