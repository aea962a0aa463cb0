// Package writer implements the report-composition stage of the pipeline.
package writer

import "fmt"

// PromptTemplate is the instruction template for the writer stage. The
// six numbered sections are requested, not enforced; the response is
// stored as-is.
const PromptTemplate = `You are a professional insurance advisor.

Using the research data below, create a clear and structured
insurance comparison report.

Include:

1. Policy types explanation
2. Hospital network info
3. Claim process
4. Claim rejection reasons
5. Exclusions explanation
6. Policy comparison

Write professionally in paragraphs.

Research Data:
%s
`

// BuildPrompt embeds the serialized research data into the report
// template.
func BuildPrompt(researchText string) string {
	return fmt.Sprintf(PromptTemplate, researchText)
}
