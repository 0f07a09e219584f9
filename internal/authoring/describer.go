package authoring

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/assessment-authoring/internal/models"
)

// Preview is a read-only description of a canonical assessment's answer.
// Only the sections relevant to Type are populated.
type Preview struct {
	Type        models.AssessmentType `json:"type"`
	Question    string                `json:"question"`
	Choices     []ChoicePreview       `json:"choices,omitempty"`
	Pairs       []PairPreview         `json:"pairs,omitempty"`
	Groups      []GroupPreview        `json:"groups,omitempty"`
	Sequence    []SequenceStep        `json:"sequence,omitempty"`
	Segments    []Segment             `json:"segments,omitempty"`
	Distractors []string              `json:"distractors,omitempty"`
	Answer      string                `json:"answer,omitempty"`
	Sample      string                `json:"sampleAnswer,omitempty"`
	Rubric      []CriterionPreview    `json:"rubric,omitempty"`
	Explanation string                `json:"explanation,omitempty"`
}

type ChoicePreview struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type PairPreview struct {
	Text  string `json:"text"`
	Match string `json:"match"`
}

type GroupPreview struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

type SequenceStep struct {
	Position int    `json:"position"`
	Text     string `json:"text"`
}

// Segment is a piece of a FillInBlank sentence; Blank segments carry the
// expected answer without brackets.
type Segment struct {
	Text  string `json:"text"`
	Blank bool   `json:"blank"`
}

type CriterionPreview struct {
	Criterion string         `json:"criterion"`
	Levels    []LevelPreview `json:"levels"`
}

type LevelPreview struct {
	Name        string  `json:"name"`
	Points      float64 `json:"points"`
	Description string  `json:"description"`
}

var operatorPhrases = map[models.NumericOperator]string{
	models.OperatorEq:  "equals",
	models.OperatorNeq: "not equal to",
	models.OperatorLt:  "less than",
	models.OperatorGt:  "greater than",
	models.OperatorLte: "less than or equal to",
	models.OperatorGte: "greater than or equal to",
}

// OperatorPhrase returns the human phrase for op, "equals" when unknown.
func OperatorPhrase(op models.NumericOperator) string {
	if phrase, ok := operatorPhrases[op]; ok {
		return phrase
	}
	return operatorPhrases[models.OperatorEq]
}

// Describe builds the preview of a, independent of how a was produced.
// Unknown types fall back to the choice listing.
func Describe(a models.Assessment) Preview {
	p := Preview{
		Type:        a.Type,
		Question:    a.Text,
		Explanation: a.Explanation,
	}

	describe := describeChoices
	if v, err := lookup(a.Type); err == nil {
		describe = v.describe
	}
	describe(a, &p)

	return p
}

func describeChoices(a models.Assessment, p *Preview) {
	p.Choices = make([]ChoicePreview, len(a.Options))
	for i, o := range a.Options {
		p.Choices[i] = ChoicePreview{Text: o.Text, IsCorrect: o.IsCorrect}
	}
}

func describeMatchTheWords(a models.Assessment, p *Preview) {
	p.Pairs = make([]PairPreview, len(a.Options))
	for i, o := range a.Options {
		p.Pairs[i] = PairPreview{Text: o.Text, Match: o.Match}
	}
}

// describeDragAndDrop groups items by category in order of first appearance.
func describeDragAndDrop(a models.Assessment, p *Preview) {
	index := map[string]int{}
	for _, o := range a.Options {
		i, ok := index[o.Match]
		if !ok {
			i = len(p.Groups)
			index[o.Match] = i
			p.Groups = append(p.Groups, GroupPreview{Category: o.Match})
		}
		p.Groups[i].Items = append(p.Groups[i].Items, o.Text)
	}
}

func describeOrderList(a models.Assessment, p *Preview) {
	ordered := sortedByCorrectOrder(a.Options)
	p.Sequence = make([]SequenceStep, len(ordered))
	for i, o := range ordered {
		p.Sequence[i] = SequenceStep{Position: i + 1, Text: o.Text}
	}
}

func sortedByCorrectOrder(options []models.Option) []models.Option {
	ordered := make([]models.Option, len(options))
	copy(ordered, options)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CorrectOrder < ordered[j].CorrectOrder
	})
	return ordered
}

func describeFillInBlank(a models.Assessment, p *Preview) {
	p.Segments = splitBlanks(a.Text)
	p.Distractors = make([]string, 0, len(a.Options))
	for _, o := range a.Options {
		p.Distractors = append(p.Distractors, o.Text)
	}
}

func splitBlanks(text string) []Segment {
	var segments []Segment
	last := 0
	for _, loc := range blankPattern.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}
		segments = append(segments, Segment{Text: text[loc[0]+1 : loc[1]-1], Blank: true})
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

func describeNumerical(a models.Assessment, p *Preview) {
	value := ""
	if len(a.Options) > 0 {
		value = a.Options[0].Text
	}
	p.Answer = NumericalPhrase(value, a.Extras)
}

// NumericalPhrase renders prefix + value + suffix, followed by the operator
// phrase in parentheses unless the operator is eq.
func NumericalPhrase(value string, extras *models.NumericalExtras) string {
	op := models.OperatorEq
	var prefix, suffix string
	if extras != nil {
		if extras.Operator != "" {
			op = extras.Operator
		}
		prefix, suffix = extras.Text, extras.Text2
	}

	phrase := prefix + value + suffix
	if op != models.OperatorEq {
		phrase += " (" + OperatorPhrase(op) + ")"
	}
	return phrase
}

func describeOpenEnded(a models.Assessment, p *Preview) {
	if len(a.Options) > 0 {
		p.Sample = a.Options[0].Text
	}
	for _, c := range a.Rubric {
		cp := CriterionPreview{Criterion: c.Criterion, Levels: make([]LevelPreview, len(c.Levels))}
		for i, l := range c.Levels {
			cp.Levels[i] = LevelPreview{Name: l.Name, Points: l.Value, Description: l.Description}
		}
		p.Rubric = append(p.Rubric, cp)
	}
}

// Lines renders the preview as plain text, one line per entry.
func (p Preview) Lines() []string {
	lines := []string{p.Question}

	for _, c := range p.Choices {
		mark := "[ ]"
		if c.IsCorrect {
			mark = "[x]"
		}
		lines = append(lines, mark+" "+c.Text)
	}
	for _, pair := range p.Pairs {
		lines = append(lines, pair.Text+" → "+pair.Match)
	}
	for _, g := range p.Groups {
		lines = append(lines, g.Category+": "+strings.Join(g.Items, ", "))
	}
	for _, s := range p.Sequence {
		lines = append(lines, strconv.Itoa(s.Position)+". "+s.Text)
	}
	if len(p.Segments) > 0 {
		// the question line is replaced by the sentence with marked blanks
		var sb strings.Builder
		for _, s := range p.Segments {
			if s.Blank {
				sb.WriteString("__" + s.Text + "__")
				continue
			}
			sb.WriteString(s.Text)
		}
		lines[0] = sb.String()
	}
	if len(p.Distractors) > 0 {
		lines = append(lines, "Distractors: "+strings.Join(p.Distractors, ", "))
	}
	if p.Answer != "" {
		lines = append(lines, "Answer: "+p.Answer)
	}
	if p.Sample != "" {
		lines = append(lines, "Sample answer: "+p.Sample)
	}
	for _, c := range p.Rubric {
		lines = append(lines, "Criterion: "+c.Criterion)
		for _, l := range c.Levels {
			lines = append(lines, fmt.Sprintf("  %s (%s pts): %s", l.Name, strconv.FormatFloat(l.Points, 'f', -1, 64), l.Description))
		}
	}
	if p.Explanation != "" {
		lines = append(lines, "Explanation: "+p.Explanation)
	}

	return lines
}

// String joins Lines with newlines.
func (p Preview) String() string {
	return strings.Join(p.Lines(), "\n")
}
