package payments

// Page is one provider page of a listed collection. NextCursor is the id of
// the last item on the page and feeds the next call's starting-after cursor.
// Cursor pagination is not snapshot-consistent: creations or deletions during
// iteration may skip or duplicate items.
type Page[T any] struct {
	Items      []T
	HasMore    bool
	NextCursor string
}

// pageFunc fetches the page starting after cursor; the empty cursor means
// the first page.
type pageFunc[T any] func(cursor string) (Page[T], error)

// Seq lazily walks a paginated collection, fetching one page at a time and
// following cursors until the provider reports no more. Usage mirrors the
// stripe-go iterators:
//
//	seq := client.AllProducts(ctx, ProductFilter{})
//	for seq.Next() {
//		p := seq.Current()
//		...
//	}
//	if err := seq.Err(); err != nil { ... }
//
// A Seq is single-use; call the list-all method again to restart.
type Seq[T any] struct {
	fetch   pageFunc[T]
	page    Page[T]
	pos     int
	cur     T
	err     error
	started bool
}

func newSeq[T any](fetch pageFunc[T]) *Seq[T] {
	return &Seq[T]{fetch: fetch}
}

// Next advances to the next item, fetching the next provider page when the
// current one is exhausted. It returns false when the collection ends or a
// fetch fails; check Err afterwards.
func (s *Seq[T]) Next() bool {
	if s.err != nil {
		return false
	}
	for s.pos >= len(s.page.Items) {
		if s.started && !s.page.HasMore {
			return false
		}
		next, err := s.fetch(s.page.NextCursor)
		if err != nil {
			s.err = err
			return false
		}
		s.started = true
		s.page = next
		s.pos = 0
		if len(next.Items) == 0 && !next.HasMore {
			return false
		}
	}
	s.cur = s.page.Items[s.pos]
	s.pos++
	return true
}

// Current returns the item Next advanced to.
func (s *Seq[T]) Current() T {
	return s.cur
}

// Err returns the first page-fetch failure, if any.
func (s *Seq[T]) Err() error {
	return s.err
}

// Collect drains the sequence into a slice.
func Collect[T any](s *Seq[T]) ([]T, error) {
	var items []T
	for s.Next() {
		items = append(items, s.Current())
	}
	return items, s.Err()
}
