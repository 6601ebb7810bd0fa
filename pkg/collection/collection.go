// Package collection has generic slice helpers used when shaping responses.
//
//	names := collection.Map(user.Roles, func(r models.Role) string { return r.Name })
package collection

// Map transforms each element of s with fn. A nil s yields an empty, non-nil
// slice so JSON renders [] rather than null.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Unique drops repeated elements, keeping first occurrences in order.
func Unique[T comparable](s []T) []T {
	seen := make(map[T]struct{}, len(s))
	out := make([]T, 0, len(s))
	for _, v := range s {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
