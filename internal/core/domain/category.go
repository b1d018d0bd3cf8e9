package domain

import (
	"errors"
	"strings"
)

var (
	ErrCategoryEmpty     = errors.New("category name cannot be empty")
	ErrCategoryDuplicate = errors.New("category already present in set")
)

// DefaultCategories is used whenever discovery finds nothing usable.
var DefaultCategories = []string{"Glutes", "Legs", "Back", "Brists", "Shoulders", "Jogging", "Yoga"}

// Category is a trimmed, non-empty habit row name.
type Category string

func NewCategory(raw string) (Category, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrCategoryEmpty
	}
	return Category(name), nil
}

func (c Category) String() string {
	return string(c)
}

// CategorySet keeps discovery order and rejects duplicates.
type CategorySet struct {
	items []Category
	index map[Category]struct{}
}

func NewCategorySet() *CategorySet {
	return &CategorySet{index: make(map[Category]struct{})}
}

// CategorySetFrom builds a set from raw names, silently dropping blanks and repeats.
func CategorySetFrom(names []string) *CategorySet {
	set := NewCategorySet()
	for _, n := range names {
		c, err := NewCategory(n)
		if err != nil {
			continue
		}
		_ = set.Add(c)
	}
	return set
}

func (s *CategorySet) Add(c Category) error {
	if c == "" {
		return ErrCategoryEmpty
	}
	if _, ok := s.index[c]; ok {
		return ErrCategoryDuplicate
	}
	s.index[c] = struct{}{}
	s.items = append(s.items, c)
	return nil
}

func (s *CategorySet) Contains(c Category) bool {
	_, ok := s.index[c]
	return ok
}

func (s *CategorySet) Len() int {
	return len(s.items)
}

func (s *CategorySet) Items() []Category {
	out := make([]Category, len(s.items))
	copy(out, s.items)
	return out
}

func (s *CategorySet) Names() []string {
	out := make([]string, len(s.items))
	for i, c := range s.items {
		out[i] = string(c)
	}
	return out
}
