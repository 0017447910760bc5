package questiongen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an item writer for the national physical therapist licensing exam.

Rules:
- Write questions with real discriminating power; aim for a pass rate around 40%.
- Every question is multiple choice with exactly 5 options and exactly one correct option.
- Distractors should reflect common misconceptions, not random values.
- Spread the questions evenly across the listed subjects.
- The explanation should state why the correct option is right in one or two sentences.
- Respond with a JSON array only. No prose, no Markdown code fences.`

// buildUserMessage asks for count questions in the batch wire format.
func buildUserMessage(count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write %d multiple-choice questions covering these subjects:\n", count)
	for i, c := range Categories {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c)
	}

	b.WriteString(`
Return a JSON array where every element looks like:
{
  "category": "<one of the subjects above>",
  "question": "<question text>",
  "options": ["<option 1>", "<option 2>", "<option 3>", "<option 4>", "<option 5>"],
  "answer": <number of the correct option, 1 to 5>,
  "explanation": "<why the answer is correct>"
}`)

	return b.String()
}
