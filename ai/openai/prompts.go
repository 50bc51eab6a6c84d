package openai

import "fmt"

const extractionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "extracted_content": {
      "type": "string"
    },
    "confidence": {
      "type": "number",
      "minimum": 0,
      "maximum": 1
    }
  },
  "required": ["extracted_content", "confidence"],
  "additionalProperties": false
}`

const extractionPromptTemplate = `You answer questions from a single excerpt of a larger document. Extract
every piece of content from the excerpt that is relevant to the user's question and return it as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- "extracted_content" must quote or closely paraphrase material that actually appears in the excerpt. Do not hallucinate.
- "confidence" is a number from 0.0 (nothing relevant in the excerpt) to 1.0 (the excerpt fully answers the question).
- If the excerpt contains nothing relevant, return {"extracted_content": "", "confidence": 0.0}.
- Partial or indirect matches get intermediate confidence; rate how well the extracted content alone answers the question.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Question: "What is the notice period for termination?"
Excerpt: "...Either party may terminate this agreement with ninety (90) days written notice..."
Output:
{"extracted_content": "Either party may terminate this agreement with ninety (90) days written notice.", "confidence": 0.92}

Example (irrelevant excerpt):
Question: "What is the notice period for termination?"
Excerpt: "...The annual company picnic will be held in June..."
Output:
{"extracted_content": "", "confidence": 0.0}`

// buildSystemPrompt creates the extraction system prompt with the response schema embedded.
func buildSystemPrompt() string {
	return fmt.Sprintf(extractionPromptTemplate, extractionResponseSchema)
}

// buildUserPrompt pairs the query with the segment content.
func buildUserPrompt(query, content string) string {
	return fmt.Sprintf("Question: %q\n\nExcerpt:\n%s", query, content)
}
