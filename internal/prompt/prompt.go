// Package prompt assembles the system and user prompts sent to the
// completion service. It is deterministic and does no IO: given the
// same session state and utterance it always produces the same strings.
package prompt

import (
	"fmt"
	"strings"

	"uigen/internal/engine"
	"uigen/internal/models"
)

// Markers the system prompt instructs the model to emit. The
// post-processing pipeline owns and consumes the same constants.
const (
	ResponseMarker   = engine.ResponseMarker
	StyleMarker      = engine.StyleMarker
	PlaceholderToken = engine.PlaceholderToken
)

// Input carries everything the builder needs for one generation turn.
// Conversation history is not part of the prompt text; it is replayed
// to the completion service as discrete turns.
type Input struct {
	UserText     string
	Template     *models.Template
	PreviousHTML string
}

// Build produces the (system, user) prompt pair. The system prompt
// enumerates rules in a fixed order: content, styling, structure,
// response style. When PreviousHTML is set, an explicit
// preserve-structure instruction plus the previous document is appended
// — this is what makes follow-up edits incremental instead of
// regenerating from scratch.
func Build(in Input) (system, user string) {
	var sb strings.Builder

	sb.WriteString(`You are an expert web designer who creates beautiful, modern web pages using HTML and TailwindCSS utility classes.

Content rules:
- Write real, specific copy for the user's request. Never use generic placeholder text like "Lorem ipsum", "Your text here", or "Insert content".
- Where an image belongs, emit a descriptive HTML comment followed by an <img> tag with src="` + PlaceholderToken + `". Example:
  <!-- photo of the team at work --><img src="` + PlaceholderToken + `" alt="team at work">
`)

	if in.Template != nil {
		t := in.Template
		fmt.Fprintf(&sb, `
Styling rules:
- Use EXACTLY these three colors for themed elements: primary %s, secondary %s, accent %s. No other theme colors.
- Use this font stack and nothing else: %s.
`, t.Style.Primary(), t.Style.Secondary(), t.Style.Accent(), strings.Join(t.Style.Fonts, ", "))

		fmt.Fprintf(&sb, `
Structural rules:
- Implement ALL of these sections, in this exact order: %s.
- Each section gets a semantic container (<section>, <header>, <footer>) with an id matching the section name.
`, strings.Join(t.Sections, ", "))
	} else {
		sb.WriteString(`
Styling rules:
- Pick a cohesive palette of at most three colors and a single font stack.

Structural rules:
- Use semantic HTML sections appropriate to the request.
`)
	}

	sb.WriteString(`
Response style:
- Start your output with a single comment of the form <!-- ` + ResponseMarker + `: short, friendly summary of what you built or changed -->. Plain text only inside the comment, no markup.
- If you need custom CSS beyond Tailwind utilities, put it in one block marked <!-- ` + StyleMarker + ` --> immediately followed by a <style> element.
- After the marker comment, output ONLY the HTML. No markdown code fences, no prose outside comments.
`)

	if in.PreviousHTML != "" {
		sb.WriteString(`
This is an edit of an existing design. Preserve the current structure, sections, and content — change ONLY what the user asks for. The current design follows:

`)
		sb.WriteString(in.PreviousHTML)
		sb.WriteString("\n")
	}

	return sb.String(), buildUser(in)
}

// buildUser restates the request plus the template's machine-readable
// facts so the completion service cannot silently drop a constraint.
func buildUser(in Input) string {
	var sb strings.Builder

	if in.PreviousHTML != "" {
		sb.WriteString("Requested change: ")
	} else {
		sb.WriteString("Request: ")
	}
	sb.WriteString(strings.TrimSpace(in.UserText))
	sb.WriteString("\n")

	if t := in.Template; t != nil {
		fmt.Fprintf(&sb, `
Template: %s (%s)
Colors: %s
Fonts: %s
Required sections (in order): %s
`,
			t.Name, t.Category,
			strings.Join(t.Style.Colors, ", "),
			strings.Join(t.Style.Fonts, ", "),
			strings.Join(t.Sections, ", "))
	}

	return sb.String()
}
