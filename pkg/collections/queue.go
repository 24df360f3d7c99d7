package collections

// Queue is a FIFO backed by a slice. The consumed prefix is reclaimed once it
// outgrows the live part.
type Queue[T any] struct {
	items []T
	head  int
}

func (q Queue[T]) IsEmpty() bool {
	return q.head == len(q.items)
}

func (q Queue[T]) Len() int {
	return len(q.items) - q.head
}

func (q *Queue[T]) Enqueue(items ...T) {
	q.items = append(q.items, items...)
}

func (q *Queue[T]) Dequeue() (item T, ok bool) {
	if q.IsEmpty() {
		return item, false
	}
	item = q.items[q.head]
	var zero T
	q.items[q.head] = zero
	q.head++
	if q.head > len(q.items)/2 {
		q.items = append(q.items[:0], q.items[q.head:]...)
		q.head = 0
	}
	return item, true
}
