package collections

type Stack[T any] struct {
	Items []T
}

func (s Stack[T]) IsEmpty() bool {
	return len(s.Items) == 0
}

func (s Stack[T]) Len() int {
	return len(s.Items)
}

func (s *Stack[T]) Push(items ...T) {
	s.Items = append(s.Items, items...)
}

// Pop removes and returns the top item; ok is false on an empty stack.
func (s *Stack[T]) Pop() (item T, ok bool) {
	if s.IsEmpty() {
		return item, false
	}
	last := len(s.Items) - 1
	item = s.Items[last]
	var zero T
	s.Items[last] = zero
	s.Items = s.Items[:last]
	return item, true
}
