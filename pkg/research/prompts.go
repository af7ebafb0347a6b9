package research

import (
	"fmt"
	"strings"
)

const decisionInstruction = `Based on the conversation history and your knowledge, provide an initial concise answer to the question below.
If the question involves current office holders (such as a chief minister, president, prime minister or governor), recent events, or any information that changes frequently, you MUST request a web search so the answer is accurate and current. In that case set "should_research" to true and give a precise "search_query".
Only set "should_research" to false when you are confident your knowledge is sufficient for a stable fact.
Respond with ONLY a JSON object of the form:
{"answer": "string", "should_research": true, "search_query": "string, empty when no research is needed"}`

const refineInstruction = `Use the web search results below to write the final answer to the original question.
Rules:
1. When the search results contradict the initial answer or your prior knowledge, the search results win.
2. Synthesize the facts in your own words. Do not quote or list the snippets.
3. Answer the question directly and concisely.
4. Do not mention the search, the results, knowledge cutoffs, or suggest consulting other sources.
5. Do not state facts that are not supported by the results or the initial answer.`

func decisionPrompt(question string) string {
	var b strings.Builder
	b.WriteString(decisionInstruction)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(strings.TrimSpace(question))
	return b.String()
}

func refinePrompt(question, draft, research string) string {
	return fmt.Sprintf("%s\n\nOriginal question: %s\n\nInitial answer: %s\n\nWeb search results:\n%s\n\nFinal answer:",
		refineInstruction, strings.TrimSpace(question), strings.TrimSpace(draft), strings.TrimSpace(research))
}
