package token

import "iter"

// Elements returns a lazy sequence over argv. Iteration stops after the
// first error, which is yielded with a zero Element.
func Elements(argv []string) iter.Seq2[Element, error] {
	return func(yield func(Element, error) bool) {
		it := NewIterator(argv)
		for {
			e, err := it.Next()
			if err != nil {
				yield(Element{}, err)
				return
			}
			if e.Kind == End {
				return
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

// Classify collects every element of argv.
func Classify(argv []string) ([]Element, error) {
	var out []Element
	for e, err := range Elements(argv) {
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, nil
}
