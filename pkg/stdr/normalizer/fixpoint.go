package normalizer

// Fixpoint applies pass until it reports no change and returns how many
// applications changed the tree. The first error stops the loop.
func Fixpoint(pass func() (bool, error)) (int, error) {
	iterations := 0
	for {
		changed, err := pass()
		if err != nil {
			return iterations, err
		}
		if !changed {
			return iterations, nil
		}
		iterations++
	}
}
