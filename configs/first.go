package configs

// First returns the value at path from the first file that defines it, or
// the zero value. File and decode errors are configuration mistakes and panic.
func First[T any](loader Loader, path string) (ret T) {
	for value := range All[T](loader, path) {
		return value
	}
	return
}
