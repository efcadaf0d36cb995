package query

import (
	"fmt"
	"strings"
	"sync"
)

// minCapacity is the capacity of the first allocation of a collection
const minCapacity = 16

// ExpressionList is the interface shared by ExpressionCollection and its
// synchronized and read-only views.
//
// Index arguments must be in [0, Len()) (or [0, Len()] for Insert);
// a bad index panics with an *IndexError.
type ExpressionList interface {
	Len() int
	Capacity() int
	At(i int) Expression
	Set(i int, e Expression)
	Add(e Expression) int
	AddRange(src ExpressionList)
	Insert(i int, e Expression)
	RemoveAt(i int)
	Remove(e Expression) error
	IndexOf(e Expression) int
	Contains(e Expression) bool
	Clear()
	Clone() *ExpressionCollection
	Iterator() *Iterator
	IsReadOnly() bool
	IsSynchronized() bool
}

// ExpressionCollection is an ordered, growable sequence of expressions.
//
// It is not safe for concurrent use; see Synchronized.
type ExpressionCollection struct {
	items   []Expression
	version int
}

// NewExpressionCollection creates an empty collection
func NewExpressionCollection(items ...Expression) *ExpressionCollection {
	c := &ExpressionCollection{}
	for _, e := range items {
		c.Add(e)
	}
	return c
}

func (c *ExpressionCollection) checkIndex(i, n int) {
	if i < 0 || i >= n {
		panic(&IndexError{Index: i, Len: len(c.items)})
	}
}

// grow makes room for n more elements, doubling the capacity
func (c *ExpressionCollection) grow(n int) {
	need := len(c.items) + n
	if need <= cap(c.items) {
		return
	}
	newCap := cap(c.items) * 2
	if newCap < minCapacity {
		newCap = minCapacity
	}
	for newCap < need {
		newCap *= 2
	}
	items := make([]Expression, len(c.items), newCap)
	copy(items, c.items)
	c.items = items
}

// slice returns the backing elements; nil-safe for optional lists
func (c *ExpressionCollection) slice() []Expression {
	if c == nil {
		return nil
	}
	return c.items
}

// Len returns the number of elements
func (c *ExpressionCollection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Capacity returns the number of elements the collection holds
// before reallocating
func (c *ExpressionCollection) Capacity() int {
	return cap(c.items)
}

// At returns the element at index i
func (c *ExpressionCollection) At(i int) Expression {
	c.checkIndex(i, len(c.items))
	return c.items[i]
}

// Set replaces the element at index i
func (c *ExpressionCollection) Set(i int, e Expression) {
	c.checkIndex(i, len(c.items))
	c.items[i] = e
	c.version++
}

// Add appends e and returns its index
func (c *ExpressionCollection) Add(e Expression) int {
	c.grow(1)
	c.items = append(c.items, e)
	c.version++
	return len(c.items) - 1
}

// AddRange appends every element of src
func (c *ExpressionCollection) AddRange(src ExpressionList) {
	snapshot := src.Clone()
	c.grow(snapshot.Len())
	c.items = append(c.items, snapshot.items...)
	c.version++
}

// Insert places e at index i, shifting later elements right
func (c *ExpressionCollection) Insert(i int, e Expression) {
	c.checkIndex(i, len(c.items)+1)
	c.grow(1)
	c.items = append(c.items, nil)
	copy(c.items[i+1:], c.items[i:])
	c.items[i] = e
	c.version++
}

// RemoveAt removes the element at index i, shifting later elements left
func (c *ExpressionCollection) RemoveAt(i int) {
	c.checkIndex(i, len(c.items))
	copy(c.items[i:], c.items[i+1:])
	c.items[len(c.items)-1] = nil
	c.items = c.items[:len(c.items)-1]
	c.version++
}

// Remove removes the first element equal to e
func (c *ExpressionCollection) Remove(e Expression) error {
	i := c.IndexOf(e)
	if i < 0 {
		return fmt.Errorf("%w: %v", ErrElementNotFound, e)
	}
	c.RemoveAt(i)
	return nil
}

// IndexOf returns the index of the first element equal to e, or -1
func (c *ExpressionCollection) IndexOf(e Expression) int {
	for i, item := range c.items {
		if EqualExpressions(item, e) {
			return i
		}
	}
	return -1
}

// Contains reports whether an element equal to e is present
func (c *ExpressionCollection) Contains(e Expression) bool {
	return c.IndexOf(e) >= 0
}

// Clear removes every element and keeps the capacity
func (c *ExpressionCollection) Clear() {
	for i := range c.items {
		c.items[i] = nil
	}
	c.items = c.items[:0]
	c.version++
}

// Clone returns a shallow copy with its own backing storage
func (c *ExpressionCollection) Clone() *ExpressionCollection {
	if c == nil {
		return NewExpressionCollection()
	}
	clone := &ExpressionCollection{}
	clone.grow(len(c.items))
	clone.items = append(clone.items, c.items...)
	return clone
}

// Iterator returns a fail-fast iterator positioned before the first element
func (c *ExpressionCollection) Iterator() *Iterator {
	return &Iterator{list: c, version: c.version, index: -1}
}

func (c *ExpressionCollection) IsReadOnly() bool     { return false }
func (c *ExpressionCollection) IsSynchronized() bool { return false }

func (c *ExpressionCollection) String() string {
	parts := make([]string, len(c.slice()))
	for i, e := range c.slice() {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// Iterator walks a collection. Any structural change of the collection
// after the iterator was created makes the next step fail with
// ErrConcurrentModification.
//
//	it := c.Iterator()
//	for it.Next() {
//	    use(it.Value())
//	}
//	if err := it.Err(); err != nil {
//	    ...
//	}
type Iterator struct {
	list    *ExpressionCollection
	version int
	index   int
	current Expression
	err     error
}

// Next advances to the next element and reports whether there is one
func (it *Iterator) Next() bool {
	if it.err != nil {
		return false
	}
	if it.list.version != it.version {
		it.err = ErrConcurrentModification
		it.current = nil
		return false
	}
	if it.index+1 >= len(it.list.items) {
		it.index = len(it.list.items)
		it.current = nil
		return false
	}
	it.index++
	it.current = it.list.items[it.index]
	return true
}

// Value returns the current element
func (it *Iterator) Value() Expression {
	return it.current
}

// Err returns the error that stopped the iteration, if any
func (it *Iterator) Err() error {
	return it.err
}

// SynchronizedCollection serializes every operation on the wrapped
// collection through one mutex. An iteration is not atomic; hold the
// lock for its whole duration with Locked.
type SynchronizedCollection struct {
	mu   sync.Mutex
	list *ExpressionCollection
}

// Synchronized returns a view of c that is safe for concurrent use.
// All access to c must go through the view.
func Synchronized(c *ExpressionCollection) *SynchronizedCollection {
	return &SynchronizedCollection{list: c}
}

// Locked runs fn with the lock held. fn must not call methods of s.
func (s *SynchronizedCollection) Locked(fn func(c *ExpressionCollection)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.list)
}

func (s *SynchronizedCollection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Len()
}

func (s *SynchronizedCollection) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Capacity()
}

func (s *SynchronizedCollection) At(i int) Expression {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.At(i)
}

func (s *SynchronizedCollection) Set(i int, e Expression) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list.Set(i, e)
}

func (s *SynchronizedCollection) Add(e Expression) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Add(e)
}

// AddRange appends every element of src. src is copied before the lock
// is taken, so src may be s itself.
func (s *SynchronizedCollection) AddRange(src ExpressionList) {
	snapshot := src.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list.AddRange(snapshot)
}

func (s *SynchronizedCollection) Insert(i int, e Expression) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list.Insert(i, e)
}

func (s *SynchronizedCollection) RemoveAt(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list.RemoveAt(i)
}

func (s *SynchronizedCollection) Remove(e Expression) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Remove(e)
}

func (s *SynchronizedCollection) IndexOf(e Expression) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.IndexOf(e)
}

func (s *SynchronizedCollection) Contains(e Expression) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Contains(e)
}

func (s *SynchronizedCollection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list.Clear()
}

func (s *SynchronizedCollection) Clone() *ExpressionCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Clone()
}

func (s *SynchronizedCollection) Iterator() *Iterator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Iterator()
}

func (s *SynchronizedCollection) IsReadOnly() bool     { return false }
func (s *SynchronizedCollection) IsSynchronized() bool { return true }

// ReadOnlyCollection is a view that rejects every mutation with a panic
// carrying ErrReadOnly
type ReadOnlyCollection struct {
	list ExpressionList
}

// ReadOnly returns a read-only view of list
func ReadOnly(list ExpressionList) *ReadOnlyCollection {
	return &ReadOnlyCollection{list: list}
}

func (r *ReadOnlyCollection) Len() int                     { return r.list.Len() }
func (r *ReadOnlyCollection) Capacity() int                { return r.list.Capacity() }
func (r *ReadOnlyCollection) At(i int) Expression          { return r.list.At(i) }
func (r *ReadOnlyCollection) IndexOf(e Expression) int     { return r.list.IndexOf(e) }
func (r *ReadOnlyCollection) Contains(e Expression) bool   { return r.list.Contains(e) }
func (r *ReadOnlyCollection) Clone() *ExpressionCollection { return r.list.Clone() }
func (r *ReadOnlyCollection) Iterator() *Iterator          { return r.list.Iterator() }
func (r *ReadOnlyCollection) IsReadOnly() bool             { return true }
func (r *ReadOnlyCollection) IsSynchronized() bool         { return r.list.IsSynchronized() }

func (r *ReadOnlyCollection) Set(int, Expression)      { panic(ErrReadOnly) }
func (r *ReadOnlyCollection) Add(Expression) int       { panic(ErrReadOnly) }
func (r *ReadOnlyCollection) AddRange(ExpressionList)  { panic(ErrReadOnly) }
func (r *ReadOnlyCollection) Insert(int, Expression)   { panic(ErrReadOnly) }
func (r *ReadOnlyCollection) RemoveAt(int)             { panic(ErrReadOnly) }
func (r *ReadOnlyCollection) Remove(Expression) error  { panic(ErrReadOnly) }
func (r *ReadOnlyCollection) Clear()                   { panic(ErrReadOnly) }

var (
	_ ExpressionList = (*ExpressionCollection)(nil)
	_ ExpressionList = (*SynchronizedCollection)(nil)
	_ ExpressionList = (*ReadOnlyCollection)(nil)
)
