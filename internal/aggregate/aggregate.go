package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Group is one category of a grouped reduction.
type Group struct {
	Key   string
	Value decimal.Decimal
	Count int
}

// Series is an ordered list of groups.
type Series struct {
	Name   string
	Groups []Group
}

// Keys returns the group keys in order.
func (s Series) Keys() []string {
	out := make([]string, len(s.Groups))
	for i, g := range s.Groups {
		out[i] = g.Key
	}
	return out
}

// Lookup returns the group for key.
func (s Series) Lookup(key string) (Group, bool) {
	for _, g := range s.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return Group{}, false
}

// Total sums every group's value.
func (s Series) Total() decimal.Decimal {
	total := decimal.Zero
	for _, g := range s.Groups {
		total = total.Add(g.Value)
	}
	return total
}

// Order arranges groups for display.
type Order interface {
	sort(groups []Group) []Group
}

type byValueDesc struct{}

// ByValueDesc sorts by descending value, ties broken by key.
var ByValueDesc Order = byValueDesc{}

func (byValueDesc) sort(groups []Group) []Group {
	sort.SliceStable(groups, func(i, j int) bool {
		if c := groups[i].Value.Cmp(groups[j].Value); c != 0 {
			return c > 0
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

type byKey struct{}

// ByKey sorts keys ascending.
var ByKey Order = byKey{}

func (byKey) sort(groups []Group) []Group {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

type fixedOrder []string

// FixedOrder lays groups out in the given label order. Labels with no rows
// are omitted; keys missing from labels follow in key order.
func FixedOrder(labels []string) Order {
	return fixedOrder(labels)
}

func (o fixedOrder) sort(groups []Group) []Group {
	rank := make(map[string]int, len(o))
	for i, l := range o {
		rank[l] = i
	}
	sort.SliceStable(groups, func(i, j int) bool {
		ri, iok := rank[groups[i].Key]
		rj, jok := rank[groups[j].Key]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// accumulate folds values by key. Rows with keep[i] false or an invalid
// value are skipped; values may be nil for pure counting.
func accumulate(keys []string, values []decimal.NullDecimal, keep []bool) []Group {
	index := make(map[string]int)
	var groups []Group
	for i, k := range keys {
		if keep != nil && !keep[i] {
			continue
		}
		v := decimal.Zero
		if values != nil {
			if !values[i].Valid {
				continue
			}
			v = values[i].Decimal
		}
		idx, ok := index[k]
		if !ok {
			idx = len(groups)
			index[k] = idx
			groups = append(groups, Group{Key: k})
		}
		groups[idx].Value = groups[idx].Value.Add(v)
		groups[idx].Count++
	}
	return groups
}

// Sum groups values by key and totals each group. Invalid values are dropped,
// not treated as zero.
func Sum(name string, keys []string, values []decimal.NullDecimal, keep []bool, order Order) Series {
	return Series{Name: name, Groups: order.sort(accumulate(keys, values, keep))}
}

// Mean groups values by key and averages each group over its valid values.
func Mean(name string, keys []string, values []decimal.NullDecimal, keep []bool, order Order) Series {
	groups := accumulate(keys, values, keep)
	for i := range groups {
		groups[i].Value = SafeDiv(groups[i].Value, int64(groups[i].Count))
	}
	return Series{Name: name, Groups: order.sort(groups)}
}

// Count tallies rows per key; Value holds the count.
func Count(name string, keys []string, keep []bool, order Order) Series {
	groups := accumulate(keys, nil, keep)
	for i := range groups {
		groups[i].Value = decimal.NewFromInt(int64(groups[i].Count))
	}
	return Series{Name: name, Groups: order.sort(groups)}
}

// Reindex lays counts out in like's key order so paired tables line up row
// for row. Keys absent from counts get zero; keys absent from like are dropped.
func Reindex(counts Series, like Series) Series {
	out := Series{Name: counts.Name, Groups: make([]Group, len(like.Groups))}
	for i, g := range like.Groups {
		c, _ := counts.Lookup(g.Key)
		out.Groups[i] = Group{Key: g.Key, Value: c.Value, Count: c.Count}
	}
	return out
}

// SafeDiv divides total by n, returning zero when n is zero.
func SafeDiv(total decimal.Decimal, n int64) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(n))
}
