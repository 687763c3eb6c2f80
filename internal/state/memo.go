package state

// memo caches a single derived value keyed by a comparable input tuple.
type memo[K comparable, V any] struct {
	key   K
	value V
	valid bool
}

func (m *memo[K, V]) get(key K, compute func() V) V {
	if m.valid && m.key == key {
		return m.value
	}
	m.key = key
	m.value = compute()
	m.valid = true
	return m.value
}

func (m *memo[K, V]) reset() {
	var zero V
	m.value = zero
	m.valid = false
}
