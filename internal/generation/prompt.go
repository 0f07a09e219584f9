package generation

const generateInstruction = `You write classroom assessment questions for an authoring tool.
Return only JSON of the form {"assessments": [ ... ]} where every item follows assessment.schema.json.
Option rules per type:
- SingleChoice, MultipleChoice: one option per choice, isCorrect marks the answers (exactly one for SingleChoice).
- TrueOrFalse: exactly two options "True" and "False", one of them isCorrect.
- MatchTheWords: one option per pair, text is the left term, match is the right term, correctOrder is the pair index.
- OrderList: options in the correct order, correctOrder counts from 0, isCorrect true.
- Numerical: a single option whose text is the numeric answer, extras.operator is one of eq, neq, lt, gt, lte, gte.
- FillInBlank: write blanks in the text as [answer]; options are extra distractors with isCorrect false.
- DragAndDrop: two options, text is the category name and match is a comma separated list of its items.
- OpenEnded: no options, add a rubric of criteria with levels.
Text may use [style={...}]...[/style] markup; keep it intact.
Any text outside JSON is an error.`

const improveInstruction = `You review one classroom assessment question for an authoring tool.
Return only JSON of the form {"improved_assessment": { ... }} following assessment.schema.json.
Keep the type and the intent of the question. Keep correct answers correct.
Text may use [style={...}]...[/style] markup; keep it intact.
Any text outside JSON is an error.`

const assessmentSchema = `{
  "type": "object",
  "required": ["type", "text", "options"],
  "properties": {
    "type": {"enum": ["SingleChoice", "MultipleChoice", "TrueOrFalse", "MatchTheWords", "OrderList", "Numerical", "FillInBlank", "DragAndDrop", "OpenEnded"]},
    "text": {"type": "string"},
    "explanation": {"type": "string"},
    "options": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "text": {"type": "string"},
          "isCorrect": {"type": "boolean"},
          "correctOrder": {"type": "integer"},
          "match": {"type": "string"}
        }
      }
    },
    "extras": {
      "type": "object",
      "properties": {
        "operator": {"enum": ["eq", "neq", "lt", "gt", "lte", "gte"]},
        "text": {"type": "string"},
        "text2": {"type": "string"}
      }
    },
    "rubric": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "criterion": {"type": "string"},
          "levels": {
            "type": "array",
            "items": {
              "type": "object",
              "properties": {
                "name": {"type": "string"},
                "value": {"type": "number"},
                "description": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`
