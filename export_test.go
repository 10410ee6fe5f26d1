package repeated

// SuppressedLen returns the number of workers currently suppressed.
func SuppressedLen() int {
	return suppressed.Len()
}
