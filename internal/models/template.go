// Package models defines the shared domain types for the UI generator:
// design templates, chat messages, and the generation request/response
// shapes exchanged between the client session and the backend.
package models

// Template is a design preset that constrains generated pages: a fixed
// 3-color palette, a font stack, the required sections in order, and
// stock images used when the generator emits image placeholders.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`

	// Sections lists the required page sections in the order they must
	// appear in generated output.
	Sections []string `json:"sections"`

	Style TemplateStyle `json:"style"`

	// PreviewImage is shown in the template selector and doubles as the
	// last-resort fallback for unresolved image placeholders.
	PreviewImage string `json:"previewImage"`

	Images TemplateImages `json:"images"`
}

// TemplateStyle holds the visual tokens injected into generated pages.
// Colors is always exactly three entries: primary, secondary, accent —
// position is semantic.
type TemplateStyle struct {
	Colors []string `json:"colors"`
	Fonts  []string `json:"fonts"`
}

// TemplateImages maps semantic slots to stock image URLs. Slots holding
// a list are cycled through by the placeholder resolver.
type TemplateImages struct {
	Hero     string   `json:"hero"`
	About    string   `json:"about"`
	Features []string `json:"features"`
	Team     []string `json:"team"`
	Services []string `json:"services"`
	Projects []string `json:"projects"`
}

// Primary, Secondary and Accent return the positional colors, empty when
// the palette is incomplete.
func (s TemplateStyle) Primary() string   { return s.colorAt(0) }
func (s TemplateStyle) Secondary() string { return s.colorAt(1) }
func (s TemplateStyle) Accent() string    { return s.colorAt(2) }

func (s TemplateStyle) colorAt(i int) string {
	if i < len(s.Colors) {
		return s.Colors[i]
	}
	return ""
}
