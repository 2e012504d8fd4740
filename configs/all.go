package configs

import (
	"fmt"
	"iter"
)

// Each yields the value at path from every file that defines it, with the
// file or decode error of a file that fails. Iteration stops after an error.
func Each[T any](loader Loader, path string) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for value, err := range loader.IterCueValues(path) {
			var v T
			if err != nil {
				yield(v, err)
				return
			}
			if err := value.Decode(&v); err != nil {
				yield(v, fmt.Errorf("decode %s: %w", path, err))
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// All is Each for callers that treat errors as configuration mistakes. It panics on error.
func All[T any](loader Loader, path string) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v, err := range Each[T](loader, path) {
			if err != nil {
				panic(err)
			}
			if !yield(v) {
				return
			}
		}
	}
}
