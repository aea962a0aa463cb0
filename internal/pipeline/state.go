// Package pipeline implements the two-stage research/writer chain and
// the state carrier threaded through it.
package pipeline

import "encoding/json"

// State keys for inter-stage communication. Each stage writes the keys
// it owns before returning; user_query is never modified by the stages.
const (
	// KeyUserQuery is the original query, set by the front end.
	KeyUserQuery = "user_query"

	// KeyResearchData is the ResearchData produced by the research stage.
	KeyResearchData = "research_data"

	// KeyFinalReport is the prose report produced by the writer stage.
	KeyFinalReport = "final_report"
)

// State is the mutable key/value mapping accumulated across a pipeline
// run. It is created by the front end for a single query and not shared
// across runs.
type State map[string]interface{}

// NewState creates a State carrying the user query.
func NewState(query string) State {
	return State{KeyUserQuery: query}
}

// UserQuery returns the query, or the empty string when absent. The
// stages accept the empty string and embed an empty query segment.
func (s State) UserQuery() string {
	q, _ := s[KeyUserQuery].(string)
	return q
}

// SetResearchData stores the research stage output.
func (s State) SetResearchData(rd ResearchData) {
	s[KeyResearchData] = rd
}

// ResearchData returns the research stage output. The second return is
// false when the research stage has not run.
func (s State) ResearchData() (ResearchData, bool) {
	rd, ok := s[KeyResearchData].(ResearchData)
	return rd, ok
}

// SetFinalReport stores the writer stage output.
func (s State) SetFinalReport(report string) {
	s[KeyFinalReport] = report
}

// FinalReport returns the report text, or the empty string when the
// writer stage has not run.
func (s State) FinalReport() string {
	r, _ := s[KeyFinalReport].(string)
	return r
}

// ResearchData is the output of the research stage: either a decoded
// fact map, or the raw model output when decoding failed. The explicit
// variant forces downstream code to branch instead of type-asserting.
type ResearchData struct {
	facts  map[string]interface{}
	raw    string
	parsed bool
}

// ParsedFacts wraps a successfully decoded fact map.
func ParsedFacts(facts map[string]interface{}) ResearchData {
	return ResearchData{facts: facts, parsed: true}
}

// UnparsedText wraps raw model output that failed to decode. The text is
// preserved verbatim.
func UnparsedText(raw string) ResearchData {
	return ResearchData{raw: raw}
}

// IsParsed reports whether the research output decoded as JSON.
func (r ResearchData) IsParsed() bool {
	return r.parsed
}

// Facts returns the decoded fact map, nil for unparsed data.
func (r ResearchData) Facts() map[string]interface{} {
	return r.facts
}

// Raw returns the undecoded model output, empty for parsed data.
func (r ResearchData) Raw() string {
	return r.raw
}

// Text renders the research data as text: parsed facts as indented JSON,
// unparsed output verbatim. This is what the writer stage embeds in its
// prompt, so the model always receives text.
func (r ResearchData) Text() string {
	if !r.parsed {
		return r.raw
	}
	data, err := json.MarshalIndent(r.facts, "", "  ")
	if err != nil {
		// A map decoded from JSON always re-encodes; guard anyway.
		return ""
	}
	return string(data)
}
