// Package intake suggests a service category from the customer's free-text
// problem description using Gemini, so the booking form can preselect a
// service before the customer submits.
package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	serviceModel "repair-booking/models/service"
)

// ErrNotConfigured is returned when no Gemini API key is available; the
// booking form then simply skips the suggestion step.
var ErrNotConfigured = errors.New("GEMINI_API_KEY not configured")

// Suggestion is the structured result extracted from the description
type Suggestion struct {
	ServiceName  string `json:"service_name"`
	CategoryName string `json:"category_name"`
	Summary      string `json:"summary"`
}

// Analyzer calls Gemini with the configured service catalog as context
type Analyzer struct {
	catalog []serviceModel.Service
}

func NewAnalyzer(catalog []serviceModel.Service) *Analyzer {
	return &Analyzer{catalog: catalog}
}

// Suggest asks Gemini to map the description onto one catalog entry.
func (an *Analyzer) Suggest(ctx context.Context, description string) (*Suggestion, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	prompt := fmt.Sprintf(`A customer of a repair-service company described their problem:

%q

Pick the single best matching service from this catalog and return ONLY valid JSON.

Catalog (name | category):
%s

Required JSON format:
{
"service_name": string,    // exactly one name from the catalog
"category_name": string,   // the category of that service
"summary": string          // one-sentence restatement of the problem
}`, description, an.catalogLines())

	content := &genai.Content{
		Parts: []*genai.Part{
			{Text: prompt},
		},
	}

	result, err := client.Models.GenerateContent(
		ctx,
		"gemini-2.5-flash-lite",
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.1)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate suggestion: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated")
	}
	responseText := result.Candidates[0].Content.Parts[0].Text
	if responseText == "" {
		return nil, fmt.Errorf("empty response")
	}

	var suggestion Suggestion
	if err := json.Unmarshal([]byte(extractJSONFromMarkdown(responseText)), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w, response: %s", err, responseText)
	}
	return &suggestion, nil
}

func (an *Analyzer) catalogLines() string {
	var b strings.Builder
	for _, s := range an.catalog {
		fmt.Fprintf(&b, "- %s | %s\n", s.Name, s.CategoryName)
	}
	return b.String()
}

// extractJSONFromMarkdown strips the ```json fences Gemini sometimes adds
func extractJSONFromMarkdown(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") && strings.HasSuffix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 1 {
			return strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	return text
}
