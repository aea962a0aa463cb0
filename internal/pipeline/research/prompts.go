// Package research implements the fact-extraction stage of the pipeline.
package research

import "fmt"

// PromptTemplate is the instruction template for the research stage. The
// field list is advisory to the model; nothing validates the response
// against it.
const PromptTemplate = `You are an insurance research expert.

Analyze the following query and extract:

- insurance_type
- available_policy_types
- network_hospitals
- claim_process
- claim_rejection_reasons
- exclusions
- comparison_points

Return ONLY valid JSON.
No explanation, no markdown, no extra text.
Just a pure JSON object.

Query:
%s
`

// BuildPrompt embeds the user query into the extraction template. An
// empty query produces an empty query segment, not an error.
func BuildPrompt(query string) string {
	return fmt.Sprintf(PromptTemplate, query)
}
