// Package extractor turns free-text order messages into order lines.
//
// A line is recognised wherever a quantity is followed by a menu item name,
// for example "2 parota", "2 parotas" or "1chicken biryani". Each menu item is matched at
// most once and lines are returned in menu order.
package extractor

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"whatsapp-order-bot/internal/model"
)

// MatchMode selects how item names are matched inside the message text.
type MatchMode string

const (
	// MatchToken requires the item name, optionally pluralised with "s" or
	// "es", to end at a word boundary and lets longer item names claim their
	// text before shorter ones are tried.
	MatchToken MatchMode = "token"

	// MatchSubstring matches the item name anywhere after the quantity, even
	// inside a longer word or a longer item name.
	MatchSubstring MatchMode = "substring"
)

// ParseMatchMode validates a match mode name.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(s) {
	case MatchToken, MatchSubstring:
		return MatchMode(s), nil
	default:
		return "", fmt.Errorf("invalid match mode: %s (must be token or substring)", s)
	}
}

// Extractor matches message text against a menu.
type Extractor struct {
	mode MatchMode

	// patterns caches compiled expressions by lowercased item name.
	patterns sync.Map
}

// New creates an extractor using the given match mode.
func New(mode MatchMode) *Extractor {
	if mode == "" {
		mode = MatchToken
	}
	return &Extractor{mode: mode}
}

// Mode returns the match mode in use.
func (e *Extractor) Mode() MatchMode {
	return e.mode
}

// Extract returns one line per menu item found in text. The result is empty,
// never nil, when nothing matched.
func (e *Extractor) Extract(text string, menu []model.MenuItem) []model.OrderLine {
	lowered := strings.ToLower(text)

	var quantities map[int]int
	if e.mode == MatchSubstring {
		quantities = e.matchSubstrings(lowered, menu)
	} else {
		quantities = e.matchTokens(lowered, menu)
	}

	lines := make([]model.OrderLine, 0, len(quantities))
	for i, item := range menu {
		qty, ok := quantities[i]
		if !ok || qty <= 0 {
			continue
		}
		lines = append(lines, model.NewOrderLine(item, qty))
	}

	return lines
}

// pattern returns the compiled expression for name in the extractor's mode.
// Group 1 is the quantity; in token mode group 2 spans the name and suffix.
func (e *Extractor) pattern(name string) *regexp.Regexp {
	key := strings.ToLower(name)
	if re, ok := e.patterns.Load(key); ok {
		return re.(*regexp.Regexp)
	}

	quoted := regexp.QuoteMeta(key)
	var re *regexp.Regexp
	if e.mode == MatchSubstring {
		re = regexp.MustCompile(`(\d+)\s*` + quoted)
	} else {
		re = regexp.MustCompile(`(\d+)\s*(` + quoted + `(?:e?s)?)(?:[^\p{L}\p{N}]|$)`)
	}

	actual, _ := e.patterns.LoadOrStore(key, re)
	return actual.(*regexp.Regexp)
}

// matchSubstrings returns the first quantity found for each menu index.
func (e *Extractor) matchSubstrings(text string, menu []model.MenuItem) map[int]int {
	quantities := make(map[int]int)
	for i, item := range menu {
		m := e.pattern(item.Name).FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if qty, ok := parseQuantity(m[1]); ok {
			quantities[i] = qty
		}
	}
	return quantities
}

type span struct {
	start, end int
}

func (s span) overlaps(o span) bool {
	return s.start < o.end && o.start < s.end
}

// matchTokens tries longer names first. A match claims its text span so that
// a shorter name never matches inside text already taken by a longer one.
func (e *Extractor) matchTokens(text string, menu []model.MenuItem) map[int]int {
	order := make([]int, len(menu))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return len(menu[order[a]].Name) > len(menu[order[b]].Name)
	})

	quantities := make(map[int]int)
	var claimed []span

	for _, i := range order {
		re := e.pattern(menu[i].Name)

	matches:
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			candidate := span{start: m[0], end: m[5]}
			for _, c := range claimed {
				if candidate.overlaps(c) {
					continue matches
				}
			}

			claimed = append(claimed, candidate)
			if qty, ok := parseQuantity(text[m[2]:m[3]]); ok {
				quantities[i] = qty
			}
			break
		}
	}

	return quantities
}

// parseQuantity rejects zero and values that do not fit in an int.
func parseQuantity(digits string) (int, bool) {
	qty, err := strconv.Atoi(digits)
	if err != nil || qty <= 0 {
		return 0, false
	}
	return qty, true
}
