package util

// Stack is a LIFO list. The zero value is empty and ready to use.
type Stack[T any] struct {
	items []T
}

func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// Pop removes the top item. Popping an empty stack yields the zero value.
func (s *Stack[T]) Pop() (item T) {
	if n := len(s.items); n > 0 {
		item, s.items = s.items[n-1], s.items[:n-1]
	}
	return item
}

// Peek returns the top item without removing it.
func (s *Stack[T]) Peek() (item T) {
	if n := len(s.items); n > 0 {
		item = s.items[n-1]
	}
	return item
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}

// Items returns the items bottom to top. The slice is shared with the stack.
func (s *Stack[T]) Items() []T {
	return s.items
}
