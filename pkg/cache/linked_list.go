package cache

import "iter"

// linkedListNode is a node of linkedList. Nodes are handed out to callers so they can be moved or removed in O(1).
type linkedListNode[V any] struct {
	next  *linkedListNode[V]
	prev  *linkedListNode[V]
	Value V
}

// Next returns the next node in the list.
func (n *linkedListNode[V]) Next() *linkedListNode[V] {
	return n.next
}

// linkedList is a doubly linked list ordering cache entries. The engines treat the front as the oldest end (first
// eviction candidate) and the back as the newest end.
type linkedList[V any] struct {
	head *linkedListNode[V]
	tail *linkedListNode[V]
	size int
}

// Len returns the number of elements in the list.
func (l *linkedList[V]) Len() int {
	return l.size
}

// Front returns the first node of the list or nil if the list is empty.
func (l *linkedList[V]) Front() *linkedListNode[V] {
	return l.head
}

// unlink detaches `n` from its neighbours without touching the size.
func (l *linkedList[V]) unlink(n *linkedListNode[V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else { // Node is the head.
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else { // Node is the tail.
		l.tail = n.prev
	}
	n.next = nil
	n.prev = nil
}

// link attaches a detached `n` after the current tail.
func (l *linkedList[V]) link(n *linkedListNode[V]) {
	n.prev = l.tail
	if l.tail != nil {
		l.tail.next = n
	} else { // List was empty.
		l.head = n
	}
	l.tail = n
}

// Remove removes a node from the list.
func (l *linkedList[V]) Remove(n *linkedListNode[V]) {
	l.unlink(n)
	l.size--
}

// PushBack adds a new value to the back of the list.
func (l *linkedList[V]) PushBack(v V) *linkedListNode[V] {
	n := &linkedListNode[V]{Value: v}
	l.link(n)
	l.size++
	return n
}

// MoveToBack moves an existing node of the list to its back.
func (l *linkedList[V]) MoveToBack(n *linkedListNode[V]) {
	if l.tail == n {
		return
	}
	l.unlink(n)
	l.link(n)
}

// All iterates over the values from front to back.
func (l *linkedList[V]) All() iter.Seq[V] {
	return func(yield func(V) bool) {
		for node := l.Front(); node != nil; node = node.Next() {
			if !yield(node.Value) {
				return
			}
		}
	}
}
