package utils

// Ptr returns a pointer to v. Optional generation parameters are pointers so
// that an explicit zero (temperature 0, minP 0) can be told apart from unset.
//
// Example:
//
//	config := ai.GenerationConfig{Temperature: utils.Ptr[float32](0)}
func Ptr[T any](v T) *T {
	return &v
}
