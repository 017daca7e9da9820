package domain

// FirstNonEmpty returns the first non-empty string, or "".
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// FirstSet returns the first non-nil pointer, or nil. Optional fields use it
// to let a proposed value win over the stored one.
func FirstSet[T any](ptrs ...*T) *T {
	for _, p := range ptrs {
		if p != nil {
			return p
		}
	}
	return nil
}

// ValueOr dereferences p, or returns fallback when p is nil.
func ValueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
