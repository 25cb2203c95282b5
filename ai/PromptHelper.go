package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"erpchat/models"
)

var (
	sqlFenceStart  = regexp.MustCompile("(?i)^\\s*```sql\\s*")
	sqlFenceEnd    = regexp.MustCompile("\\s*```$")
	jsonFenceStart = regexp.MustCompile("```json\\s*")
	anyFence       = regexp.MustCompile("```[A-Za-z]*")
)

// BuildTableSelectionMessages asks the model which tables a question needs. The index
// document describes the available tables and is used as the system prompt.
func BuildTableSelectionMessages(tableIndex, userInput string) []Message {
	return []Message{
		{Role: RoleSystem, Content: tableIndex},
		{Role: RoleUser, Content: userInput},
	}
}

// BuildSQLMessages constructs the SQL generation request: preamble and table
// documentation as the system prompt, earlier turns of the conversation, then the
// question with the optional failure suffix.
func BuildSQLMessages(preamble, tableDocs string, history []Message, userInput, suffix string) []Message {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: RoleSystem, Content: preamble + tableDocs})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleUser, Content: userInput + suffix})
	return messages
}

// BuildRetrySuffix is appended to the question when the previous query failed.
func BuildRetrySuffix(errMsg string) string {
	return ".\nThe above query failed with the error: " + errMsg + "\nPlease try again with a different query."
}

// BuildSummaryPrompt asks for a plain-text answer to userInput from the JSON result rows.
func BuildSummaryPrompt(userInput, resultJSON string) string {
	var promptBuilder strings.Builder
	promptBuilder.WriteString(fmt.Sprintf("given this prompt : \"%s\" the response JSON is : %s convert the response ", userInput, resultJSON))
	promptBuilder.WriteString("to a plain text response that is easy to understand for a user. ")
	promptBuilder.WriteString("The response should not contain any JSON or code blocks. Do not add any additional information or context. ")
	promptBuilder.WriteString("The response should be concise and to the point.")
	return promptBuilder.String()
}

// HistoryMessages turns earlier entries of one conversation into alternating
// user and assistant turns.
func HistoryMessages(entries []models.ChatMessage, chatID string) []Message {
	var out []Message
	for _, e := range entries {
		if e.ChatID != chatID {
			continue
		}
		out = append(out,
			Message{Role: RoleUser, Content: e.UserRequest},
			Message{Role: RoleAssistant, Content: e.FinalTextResponse},
		)
	}
	return out
}

// ExtractSelectStatement removes a ```sql fence around the generated query.
func ExtractSelectStatement(input string) string {
	input = sqlFenceStart.ReplaceAllString(input, "")
	input = sqlFenceEnd.ReplaceAllString(input, "")
	return strings.TrimSpace(input)
}

// StripJSONFence removes the first ```json marker and the first remaining ``` marker.
func StripJSONFence(input string) string {
	if loc := jsonFenceStart.FindStringIndex(input); loc != nil {
		input = input[:loc[0]] + input[loc[1]:]
	}
	if i := strings.Index(input, "```"); i >= 0 {
		input = input[:i] + input[i+3:]
	}
	return strings.TrimSpace(input)
}

// StripCodeFences removes every fence marker, keeping the fenced text.
func StripCodeFences(input string) string {
	return strings.TrimSpace(anyFence.ReplaceAllString(input, ""))
}

// ParseTableNames reads the model's table selection. Anything other than a JSON array
// of strings yields an empty list.
func ParseTableNames(response string) []string {
	var names []string
	if err := json.Unmarshal([]byte(StripJSONFence(response)), &names); err != nil {
		return []string{}
	}
	if names == nil {
		return []string{}
	}
	return names
}
