package authoring

import (
	"github.com/SAP-F-2025/assessment-authoring/internal/models"
)

// DecodeEditable turns a canonical assessment (stored or generated) back into
// editable state so it can go through the same edit, validate and encode
// loop. Encode(DecodeEditable(a)) reproduces a's options for every type.
//
// DragAndDrop items whose category is neither of the first two seen are
// filed under the second category.
func DecodeEditable(a models.Assessment) EditableState {
	out := EditableState{
		AssessmentName: a.SlideName,
		ViewID:         a.ViewID,
		Type:           a.Type,
		QuestionText:   a.Text,
		Explanation:    a.Explanation,
		Options:        []string{},
		CorrectAnswers: []int{},
	}

	v, err := lookup(a.Type)
	if err != nil {
		return out
	}
	v.decode(a, &out)

	return out
}

func decodeChoices(a models.Assessment, out *EditableState) {
	for i, o := range a.Options {
		out.Options = append(out.Options, o.Text)
		if o.IsCorrect {
			out.CorrectAnswers = append(out.CorrectAnswers, i)
		}
	}
}

func decodeTrueOrFalse(a models.Assessment, out *EditableState) {
	out.Options = []string{"True", "False"}
	for _, o := range a.Options {
		if !o.IsCorrect {
			continue
		}
		switch o.Text {
		case "True":
			out.CorrectAnswers = append(out.CorrectAnswers, 0)
		case "False":
			out.CorrectAnswers = append(out.CorrectAnswers, 1)
		}
	}
}

func decodeMatchTheWords(a models.Assessment, out *EditableState) {
	for _, o := range sortedByCorrectOrder(a.Options) {
		out.Options = append(out.Options, o.Text, o.Match)
	}
}

func decodeOrderList(a models.Assessment, out *EditableState) {
	for _, o := range sortedByCorrectOrder(a.Options) {
		out.Options = append(out.Options, o.Text)
	}
}

func decodeNumerical(a models.Assessment, out *EditableState) {
	value := ""
	if len(a.Options) > 0 {
		value = a.Options[0].Text
	}
	out.Options = []string{value}
	out.CorrectAnswers = []int{0}
	if a.Extras != nil {
		extras := *a.Extras
		out.Extras = &extras
	} else {
		out.Extras = defaultExtras(models.Numerical)
	}
}

func decodeFillInBlank(a models.Assessment, out *EditableState) {
	for _, o := range a.Options {
		out.Options = append(out.Options, o.Text)
	}
}

func decodeDragAndDrop(a models.Assessment, out *EditableState) {
	var names []string
	var first, second []string
	for _, o := range sortedByCorrectOrder(a.Options) {
		switch {
		case len(names) == 0 || o.Match == names[0]:
			if len(names) == 0 {
				names = append(names, o.Match)
			}
			first = append(first, o.Text)
		default:
			if len(names) == 1 {
				names = append(names, o.Match)
			}
			second = append(second, o.Text)
		}
	}

	cat1, cat2 := defaultCategory1, defaultCategory2
	if len(names) > 0 {
		cat1 = names[0]
	}
	if len(names) > 1 {
		cat2 = names[1]
	}

	out.Options = []string{cat1, cat2}
	for i := 0; i < max(len(first), len(second)); i++ {
		out.Options = append(out.Options, itemAt(first, i), itemAt(second, i))
	}
}

func itemAt(items []string, i int) string {
	if i < len(items) {
		return items[i]
	}
	return ""
}

func decodeOpenEnded(a models.Assessment, out *EditableState) {
	out.Options = []string{""}
	if len(a.Options) > 0 {
		out.Options[0] = a.Options[0].Text
	}
	if len(a.Rubric) > 0 {
		out.Rubric = EditableState{Rubric: a.Rubric}.Clone().Rubric
	}
}
