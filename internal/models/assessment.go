package models

import (
	"time"

	"gorm.io/datatypes"
)

type AssessmentType string

const (
	SingleChoice   AssessmentType = "SingleChoice"
	MultipleChoice AssessmentType = "MultipleChoice"
	TrueOrFalse    AssessmentType = "TrueOrFalse"
	MatchTheWords  AssessmentType = "MatchTheWords"
	OrderList      AssessmentType = "OrderList"
	Numerical      AssessmentType = "Numerical"
	FillInBlank    AssessmentType = "FillInBlank"
	DragAndDrop    AssessmentType = "DragAndDrop"
	OpenEnded      AssessmentType = "OpenEnded"
)

// AssessmentTypes lists every variant in registry order.
var AssessmentTypes = []AssessmentType{
	SingleChoice,
	MultipleChoice,
	TrueOrFalse,
	MatchTheWords,
	OrderList,
	Numerical,
	FillInBlank,
	DragAndDrop,
	OpenEnded,
}

// IsValid reports whether t is one of the nine known variants.
func (t AssessmentType) IsValid() bool {
	for _, known := range AssessmentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ButtonLabel is the only submit label the authoring UI ever attaches.
const ButtonLabel = "Submit"

// Assessment is the canonical, persistable question record.
type Assessment struct {
	ID          uint           `json:"id,omitempty" gorm:"primaryKey"`
	Type        AssessmentType `json:"type" gorm:"not null;size:32;index"`
	Text        string         `json:"text" gorm:"type:text;not null"`
	Explanation string         `json:"explanation,omitempty" gorm:"type:text"`

	// Options semantics depend on Type, see Option.
	Options datatypes.JSONSlice[Option] `json:"options" gorm:"type:jsonb"`

	// Extras is only populated for Numerical.
	Extras *NumericalExtras `json:"extras,omitempty" gorm:"type:jsonb;serializer:json"`

	// Rubric is only meaningful for OpenEnded and is carried as-is.
	Rubric []RubricCriterion `json:"rubric,omitempty" gorm:"type:jsonb;serializer:json"`

	// Context
	ViewID      string `json:"view_id" gorm:"not null;size:255;index"`
	SlideName   string `json:"slideName" gorm:"size:255"`
	ButtonLabel string `json:"buttonLabel" gorm:"size:32;default:Submit"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// Option is one entry of Assessment.Options.
//
// IsCorrect and CorrectOrder are interpreted per type: for choice variants
// IsCorrect marks the answer; for OrderList and MatchTheWords it is always true
// and CorrectOrder carries the sequence or pair index; for FillInBlank every
// option is a distractor.
type Option struct {
	Text         string `json:"text"`
	IsCorrect    bool   `json:"isCorrect"`
	CorrectOrder int    `json:"correctOrder"`
	Match        string `json:"match"`
}

type NumericOperator string

const (
	OperatorEq  NumericOperator = "eq"
	OperatorNeq NumericOperator = "neq"
	OperatorLt  NumericOperator = "lt"
	OperatorGt  NumericOperator = "gt"
	OperatorLte NumericOperator = "lte"
	OperatorGte NumericOperator = "gte"
)

// NumericOperators lists the comparison operators accepted for Numerical.
var NumericOperators = []NumericOperator{OperatorEq, OperatorNeq, OperatorLt, OperatorGt, OperatorLte, OperatorGte}

// NumericalExtras configures how a Numerical answer is compared and shown.
type NumericalExtras struct {
	Operator NumericOperator `json:"operator"`
	Text     string          `json:"text,omitempty"`  // prefix
	Text2    string          `json:"text2,omitempty"` // suffix
}

type RubricCriterion struct {
	Criterion string        `json:"criterion"`
	Levels    []RubricLevel `json:"levels"`
}

type RubricLevel struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}
