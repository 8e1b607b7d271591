package utils

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// Rotate moves the first element to the back. The input is not modified.
func Rotate[T any](slice []T) []T {
	if len(slice) == 0 {
		return nil
	}
	rotated := make([]T, 0, len(slice))
	rotated = append(rotated, slice[1:]...)
	return append(rotated, slice[0])
}

// Filter returns the elements for which keep is true.
func Filter[T any](slice []T, keep func(T) bool) []T {
	var kept []T
	for _, v := range slice {
		if keep(v) {
			kept = append(kept, v)
		}
	}
	return kept
}
