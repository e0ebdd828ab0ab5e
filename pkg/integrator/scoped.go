package integrator

// scopedAssign overwrites a value and remembers the old one. It is meant to
// be used as
//
//	defer assign(&v.PdfRev, pdf).restore()
//
// so that every exit path puts the original value back.
type scopedAssign[T any] struct {
	target *T
	backup T
}

func assign[T any](target *T, value T) scopedAssign[T] {
	if target == nil {
		return scopedAssign[T]{}
	}
	s := scopedAssign[T]{target: target, backup: *target}
	*target = value
	return s
}

func (s scopedAssign[T]) restore() {
	if s.target != nil {
		*s.target = s.backup
	}
}
