// Package dedupe collapses records that share a natural key.
package dedupe

// LastWins returns items with every key kept only once, holding the value of
// its last occurrence. The surviving items keep the position of that last
// occurrence relative to each other. The second return value is the number
// of items dropped.
func LastWins[T any](items []T, key func(T) string) ([]T, int) {
	if len(items) == 0 {
		return nil, 0
	}

	last := make(map[string]int, len(items))
	for i, it := range items {
		last[key(it)] = i
	}
	if len(last) == len(items) {
		return append([]T(nil), items...), 0
	}

	out := make([]T, 0, len(last))
	for i, it := range items {
		if last[key(it)] == i {
			out = append(out, it)
		}
	}
	return out, len(items) - len(out)
}

// Key joins parts into a single composite key.
func Key(parts ...string) string {
	n := 0
	for _, p := range parts {
		n += len(p) + 1
	}
	b := make([]byte, 0, n)
	for i, p := range parts {
		if i > 0 {
			b = append(b, 0)
		}
		b = append(b, p...)
	}
	return string(b)
}
