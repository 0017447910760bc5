package questiongen

// OptionCount is the number of answer options every question carries.
const OptionCount = 5

// Question is a single five-option exam question, immutable once it has
// been handed to a session.
type Question struct {
	// Category is the exam subject, e.g. "Therapeutic Intervention".
	// May be empty when the model omitted it.
	Category string `json:"category"`

	// Prompt is the question text shown to the user.
	Prompt string `json:"question"`

	// Options holds exactly OptionCount answer texts.
	Options []string `json:"options"`

	// CorrectIndex is the 0-based index of the correct option.
	CorrectIndex int `json:"answer"`

	// Explanation is shown after the user answers. May be empty.
	Explanation string `json:"explanation"`
}

// Valid reports whether q satisfies the question invariants.
func (q Question) Valid() bool {
	return q.Prompt != "" && len(q.Options) == OptionCount &&
		q.CorrectIndex >= 0 && q.CorrectIndex < OptionCount
}

// Categories are the exam subjects a batch is spread across.
var Categories = []string{
	"Physical Therapy Foundations",
	"Diagnosis and Evaluation",
	"Therapeutic Intervention",
	"Medical Law and Regulations",
	"Clinical Practice",
}
