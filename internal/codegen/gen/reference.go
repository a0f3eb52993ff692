package gen

// markReferenced computes the set of elements that end up in generated code.
// Message and interface flags were decided by the filters before prepare and
// force-gen fields mark themselves; here the flags are propagated to
// everything those elements use.
func (s *Schema) markReferenced() {
	for _, m := range s.AllMessages() {
		if m.referenced {
			m.setReferenced()
		}
	}

	for _, i := range s.AllInterfaces() {
		if i.referenced {
			i.setReferenced()
		}
	}

	for _, f := range s.AllFrames() {
		f.setReferenced()
	}

	s.gen.logger.Debug("Referenced set computed",
		"schema", s.Name(),
		"messages", countReferenced(s.AllMessages()),
		"fields", countReferenced(s.AllFields()))
}

type referencer interface {
	IsReferenced() bool
}

func countReferenced[T referencer](list []T) int {
	n := 0
	for _, e := range list {
		if e.IsReferenced() {
			n++
		}
	}
	return n
}
