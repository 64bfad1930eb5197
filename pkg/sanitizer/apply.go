package sanitizer

// Apply passes value through each transform, left to right.
func Apply[T any](value T, transforms ...func(T) T) T {
	for _, fn := range transforms {
		value = fn(value)
	}
	return value
}

// Compose returns Apply with the transforms fixed.
func Compose[T any](transforms ...func(T) T) func(T) T {
	return func(value T) T { return Apply(value, transforms...) }
}
