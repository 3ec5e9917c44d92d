package ptr

// Ptr возвращает указатель на копию значения
func Ptr[T any](v T) *T {
	return &v
}

// Value возвращает значение по указателю или нулевое значение типа для nil
func Value[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// ValueOr возвращает значение по указателю или def для nil
func ValueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
