// Package cache keeps parsed and simplified SOQL trees keyed by their
// text, so that a query seen before is not parsed again.
//
// Cached trees are shared between all callers and must be treated as
// read-only. They are already simplified; calling Simplify on them again
// would rewrite shared nodes.
package cache

import (
	"container/list"
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vegasq/soql/query"
)

// ErrInvalidCapacity is returned for a non-positive cache size
var ErrInvalidCapacity = errors.New("cache capacity must be positive")

// Mode selects the parser entry point used for a text
type Mode int

const (
	ModeQuery      Mode = iota // ParseQuery
	ModeExpression             // ParseExpression
	ModeWhere                  // ParseWhereClause
)

func (m Mode) String() string {
	switch m {
	case ModeQuery:
		return "query"
	case ModeExpression:
		return "expr"
	case ModeWhere:
		return "where"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a mode name to a Mode
func ParseMode(name string) (Mode, error) {
	switch name {
	case "query":
		return ModeQuery, nil
	case "expr":
		return ModeExpression, nil
	case "where":
		return ModeWhere, nil
	}
	return 0, fmt.Errorf("unknown parse mode %q (must be query, expr or where)", name)
}

type key struct {
	mode Mode
	text string
}

type entry struct {
	key  key
	expr query.Expression
}

// Cache is a fixed-size LRU cache of parsed expressions.
// It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[key]*list.Element
	metrics  *metrics
}

// New creates a cache holding at most capacity trees. Metrics are
// registered with reg; a nil reg leaves them unregistered.
func New(capacity int, reg prometheus.Registerer) (*Cache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[key]*list.Element),
		metrics:  newMetrics(reg),
	}, nil
}

// Get returns the simplified tree for text, parsing it on a miss.
// Parse and simplify errors are returned and not cached.
func (c *Cache) Get(mode Mode, text string) (query.Expression, error) {
	k := key{mode: mode, text: text}

	c.mu.Lock()
	if el, ok := c.items[k]; ok {
		c.ll.MoveToFront(el)
		c.mu.Unlock()
		c.metrics.hits.Inc()
		return el.Value.(*entry).expr, nil
	}
	c.mu.Unlock()
	c.metrics.misses.Inc()

	// parse outside the lock; a concurrent miss on the same text parses twice
	expr, err := parse(mode, text)
	if err != nil {
		return nil, err
	}
	expr, err = expr.Simplify()
	if err != nil {
		return nil, fmt.Errorf("failed to simplify: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[k]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(*entry).expr, nil
	}
	c.items[k] = c.ll.PushFront(&entry{key: k, expr: expr})
	for c.ll.Len() > c.capacity {
		c.removeOldest()
	}
	c.metrics.entries.Set(float64(c.ll.Len()))
	return expr, nil
}

// Query returns the cached query for text
func (c *Cache) Query(text string) (*query.QueryExpression, error) {
	e, err := c.Get(ModeQuery, text)
	if err != nil {
		return nil, err
	}
	return e.(*query.QueryExpression), nil
}

func (c *Cache) removeOldest() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).key)
	c.metrics.evictions.Inc()
}

// Len returns the number of cached trees
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Purge drops every cached tree
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[key]*list.Element)
	c.metrics.entries.Set(0)
}

func parse(mode Mode, text string) (query.Expression, error) {
	switch mode {
	case ModeQuery:
		return query.ParseQuery(text)
	case ModeExpression:
		return query.ParseExpression(text)
	case ModeWhere:
		return query.ParseWhereClause(text)
	}
	return nil, fmt.Errorf("unknown parse mode %d", int(mode))
}

const (
	namespace = "soql"
	subsystem = "parse_cache"
)

type metrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
	entries   prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		hits: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "hits_total",
			Help:      "Total number of lookups answered from the cache",
		}),
		misses: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "misses_total",
			Help:      "Total number of lookups that had to parse",
		}),
		evictions: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "evictions_total",
			Help:      "Total number of trees dropped to stay within capacity",
		}),
		entries: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "entries",
			Help:      "Current number of cached trees",
		}),
	}
}
