package models

// PromptMessage is one prior conversation turn replayed to the
// completion service. Role follows the completion API's vocabulary
// ("user" / "assistant"), not the UI's.
type PromptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CreateDesignRequest is the body of POST /create-design. The backend is
// stateless: all continuity (previous design, message history) arrives
// with every request.
type CreateDesignRequest struct {
	Text             string          `json:"text"`
	TemplateID       string          `json:"template,omitempty"`
	PreviousDesign   string          `json:"previousDesign,omitempty"`
	ReferenceImage   string          `json:"referenceImage,omitempty"`
	PreviousMessages []PromptMessage `json:"previousMessages,omitempty"`
}

// DesignChoices is best-effort metadata extracted from a generation.
// Fields may be empty — advisory only, never required for correctness.
type DesignChoices struct {
	Layout   string `json:"layout"`
	Colors   string `json:"colors"`
	Features string `json:"features"`
}

// GenerationResult is the backend's response to one generation request.
type GenerationResult struct {
	AIResponse    string        `json:"aiResponse"`
	HTML          string        `json:"html"`
	ImageURL      string        `json:"imageUrl"`
	DesignChoices DesignChoices `json:"designChoices"`
}
