package catalog

import (
	"cmp"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/five82/shelf/internal/api"
)

// SortKey selects the field objects are ordered by.
type SortKey string

const (
	SortName  SortKey = "name"
	SortPrice SortKey = "price"
	SortID    SortKey = "id"
)

// SortKeys lists the keys in menu order.
var SortKeys = []SortKey{SortName, SortPrice, SortID}

// Label is the menu text for k.
func (k SortKey) Label() string {
	switch k {
	case SortPrice:
		return "Price"
	case SortID:
		return "ID"
	default:
		return "Name"
	}
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Toggle returns the opposite direction.
func (o SortOrder) Toggle() SortOrder {
	if o == Desc {
		return Asc
	}
	return Desc
}

// Arrow is a compact direction marker for headers.
func (o SortOrder) Arrow() string {
	if o == Desc {
		return "↓"
	}
	return "↑"
}

// ParseSortKey accepts name, price or id in any case.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortName:
		return SortName, nil
	case SortPrice:
		return SortPrice, nil
	case SortID:
		return SortID, nil
	}
	return "", fmt.Errorf("unknown sort key %q (want name, price or id)", s)
}

// ParseSortOrder accepts asc or desc in any case.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", fmt.Errorf("unknown sort order %q (want asc or desc)", s)
}

// NextSort applies a sort menu choice: picking the active key flips the
// direction, picking another key starts it ascending.
func NextSort(key SortKey, order SortOrder, picked SortKey) (SortKey, SortOrder) {
	if key == picked {
		return key, order.Toggle()
	}
	return picked, Asc
}

type sortEntry struct {
	obj api.Object
	str string
	num float64
}

// Sort returns a sorted copy of objects; the input is left untouched.
//
// The comparator never reports equality: it answers +1 or -1 only, so
// equal keys (and NaN prices or ids, which compare false both ways) come
// out in an order that depends on the algorithm, not on input order.
func Sort(objects []api.Object, key SortKey, order SortOrder) []api.Object {
	entries := make([]sortEntry, len(objects))
	lower := cases.Lower(language.Und)
	for i, obj := range objects {
		entries[i] = sortEntry{obj: obj}
		switch key {
		case SortPrice:
			entries[i].num = Price(obj)
		case SortID:
			entries[i].num = ParseInt(obj.ID)
		default:
			entries[i].str = lower.String(obj.Name)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch key {
		case SortPrice, SortID:
			return compare(a.num, b.num, order) < 0
		default:
			return compare(a.str, b.str, order) < 0
		}
	})

	sorted := make([]api.Object, len(entries))
	for i, e := range entries {
		sorted[i] = e.obj
	}
	return sorted
}

func compare[T cmp.Ordered](a, b T, order SortOrder) int {
	if order == Desc {
		if a < b {
			return 1
		}
		return -1
	}
	if a > b {
		return 1
	}
	return -1
}

// Price is the value sorting by price uses: data.price when truthy,
// otherwise data.Price when truthy, otherwise 0.
func Price(obj api.Object) float64 {
	for _, k := range []string{"price", "Price"} {
		if v, ok := obj.Data.Get(k); ok && v.Truthy() {
			return NumberOf(v)
		}
	}
	return 0
}
