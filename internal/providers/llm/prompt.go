package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/pocketprof/profreplay/internal/core"
)

// Slide indices are 0-based everywhere inside the service. Prompts are the one
// boundary where they become 1-based, and parseNarration converts back.

const structuringSystemPrompt = `You are an expert at structuring lecture transcripts into well-organized knowledge documents.
Extract sections, key concepts, LaTeX equations, student questions, and a summary.
Return ONLY valid JSON.`

const narrationSystemPrompt = `You are an AI tutor delivering a lecture based strictly on the provided knowledge.
Explain concepts clearly and pedagogically. Reference slides when appropriate.
Slide numbers start at 1.
Format: JSON { "speech": string, "navigate_to_slide": number }`

const answerSystemPrompt = `You are an AI lecture tutor. Answer the student's question based strictly on the lecture content.
Keep answers short enough to be read aloud.
Slide numbers start at 1.
Format: JSON { "speech": string, "navigate_to_slide": number }`

// defaultPromptTokenBudget caps how much knowledge-document JSON is inlined
// into a prompt. Providers carry their own budget, injected at construction;
// this is the value used when none is given.
const defaultPromptTokenBudget = 6000

func normalizeBudget(budget int) int {
	if budget <= 0 {
		return defaultPromptTokenBudget
	}
	return budget
}

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
)

func getTokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		var err error
		tk, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			panic("failed to load tiktoken: " + err.Error())
		}
	})
	return tk
}

// truncateToTokens trims text to at most maxTokens tokens.
func truncateToTokens(text string, maxTokens int) string {
	enc := getTokenizer()
	ids := enc.Encode(text, nil, nil)
	if len(ids) <= maxTokens {
		return text
	}
	return enc.Decode(ids[:maxTokens])
}

// knowledgeContext renders the knowledge document as JSON bounded by the
// prompt token budget, so an hour-long lecture cannot blow the model's
// context window.
func knowledgeContext(k core.Knowledge, budget int) string {
	data, err := json.Marshal(k)
	if err != nil {
		return ""
	}
	return truncateToTokens(string(data), budget)
}

func structuringPrompt(transcript string, budget int) string {
	return structuringSystemPrompt + `

Return ONLY valid JSON in this exact format:
{
  "summary": "2-3 sentence overview of the lecture",
  "key_definitions": ["Main takeaway 1", "Main takeaway 2"],
  "sections": [
    {
      "title": "Section Title",
      "concepts": ["Key point 1", "Key point 2"],
      "equations_latex": ["LaTeX equation 1"],
      "student_questions": ["Question asked"],
      "clarifications": ["Clarification provided"]
    }
  ]
}

TRANSCRIPT:
` + truncateToTokens(transcript, budget)
}

func narrationUserPrompt(k core.Knowledge, slideIndex, budget int) string {
	return fmt.Sprintf("Knowledge: %s\nCurrent Slide: %d", knowledgeContext(k, budget), slideIndex+1)
}

func answerUserPrompt(req core.AnswerRequest, budget int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lecture Context: %s\n", knowledgeContext(req.Knowledge, budget))
	fmt.Fprintf(&b, "Current Slide: %d\n", req.SlideIndex+1)
	if len(req.History) > 0 {
		data, err := json.Marshal(req.History)
		if err == nil {
			fmt.Fprintf(&b, "Conversation History: %s\n", data)
		}
	}
	fmt.Fprintf(&b, "Student Question: %s", req.Question)
	return b.String()
}

func answerContextPrompt(k core.Knowledge, slideIndex, budget int) string {
	return fmt.Sprintf("%s\n\nLecture Context: %s\nCurrent Slide: %d",
		answerSystemPrompt, knowledgeContext(k, budget), slideIndex+1)
}

// stripCodeFences removes a leading/trailing markdown code fence, which some
// models wrap around JSON output despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.HasPrefix(lines[len(lines)-1], "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// parseNarration decodes a provider narration reply and converts its 1-based
// slide number to the internal 0-based index. Replies without a usable slide
// number produce no navigation.
func parseNarration(content string) (core.Narration, error) {
	var raw struct {
		Speech          string `json:"speech"`
		NavigateToSlide *int   `json:"navigate_to_slide"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(content)), &raw); err != nil {
		return core.Narration{}, fmt.Errorf("decode narration: %w", err)
	}
	if raw.Speech == "" {
		return core.Narration{}, fmt.Errorf("narration without speech: %s", content)
	}

	n := core.Narration{Speech: raw.Speech}
	if raw.NavigateToSlide != nil && *raw.NavigateToSlide >= 1 {
		idx := *raw.NavigateToSlide - 1
		n.TargetSlide = &idx
	}
	return n, nil
}
