// Package engine turns raw completion output into a safe, complete,
// renderable HTML document. The pipeline runs a fixed sequence of
// transformations — de-fencing, response-text extraction, image
// placeholder resolution, placeholder sweep, style-block extraction,
// document shell wrap, verification — where each step's output is the
// next step's input. Placeholder resolution is idempotent: a second
// run over its own output finds nothing left to replace.
package engine

import (
	"errors"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"

	"uigen/internal/models"
)

// Sentinel markers of the generation contract. The prompt builder
// instructs the model to emit these; the pipeline consumes them. None
// may survive into the final document.
const (
	// PlaceholderToken is the fixed src value marking an image stub.
	PlaceholderToken = "IMAGE_PLACEHOLDER"

	// ResponseMarker opens the comment carrying the human-readable
	// summary: <!-- AI_RESPONSE: ... -->.
	ResponseMarker = "AI_RESPONSE"

	// StyleMarker precedes a <style> block destined for the document
	// shell's style section: <!-- AI_STYLES --><style>...</style>.
	StyleMarker = "AI_STYLES"
)

// ErrNoContent is returned when the completion service produced no text
// at all. The pipeline never proceeds on an empty payload.
var ErrNoContent = errors.New("engine: no content in completion response")

// fallbackResponse is used when neither the marker comment nor a
// markup-free line yields a summary.
const fallbackResponse = "Here's your design! Let me know what you'd like to change."

// defaultImageURL backs placeholder resolution when no template is
// bound and a match has no usable slot.
const defaultImageURL = "https://placehold.co/1200x800/1e293b/f8fafc?text=Generated+Image"

// Result is the outcome of one pipeline run.
type Result struct {
	// HTML is the complete, placeholder-free document.
	HTML string

	// AIResponse is the human-readable summary. Always non-empty and
	// never contains markup.
	AIResponse string

	// ImageURL is a representative preview: the first resolved image,
	// else the template preview.
	ImageURL string

	// DesignChoices is advisory metadata; fields may be empty.
	DesignChoices models.DesignChoices
}

// Pipeline post-processes completion output for one template binding.
// A Pipeline is cheap to construct per request and is not safe for
// concurrent use (the placeholder resolver carries a shared index).
type Pipeline struct {
	tmpl     *models.Template
	imageIdx int
	firstImg string
}

// New creates a pipeline bound to a template. tmpl may be nil; all
// image resolution then degrades to the fixed default image.
func New(tmpl *models.Template) *Pipeline {
	return &Pipeline{tmpl: tmpl}
}

// Process runs the full pipeline over raw completion output.
func (p *Pipeline) Process(raw string) (*Result, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrNoContent
	}

	payload := stripFences(raw)

	aiResponse, payload := extractResponseText(payload, raw)

	payload = p.resolvePlaceholders(payload)
	payload = p.sweepPlaceholders(payload)

	css, payload := extractStyleBlock(payload)

	doc := p.wrapDocument(payload, css)
	doc = p.verify(doc)

	return &Result{
		HTML:          doc,
		AIResponse:    aiResponse,
		ImageURL:      p.previewImage(),
		DesignChoices: p.extractDesignChoices(doc),
	}, nil
}

// --- Step 1: de-fencing ---

// stripFences removes markdown code-fence markers wrapping the payload.
// Interior content is left byte-identical. Fences come off first: a
// payload can be fenced AND carry a full document marker, and slicing
// at the marker alone would leave the closing fence behind. After
// unfencing, leading commentary before a full document marker is
// dropped — models sometimes emit prose despite instructions.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the opening fence line (with or without a language tag).
		if nl := strings.Index(s, "\n"); nl != -1 {
			s = s[nl+1:]
		} else {
			return ""
		}

		// Drop the closing fence.
		if i := strings.LastIndex(s, "```"); i != -1 {
			s = s[:i]
		}
		s = strings.TrimSuffix(s, "\n")
	}

	if i := strings.Index(s, "<!DOCTYPE html>"); i > 0 {
		return s[i:]
	}
	return s
}

// --- Step 2: response-text extraction ---

var responseMarkerRe = regexp.MustCompile(`(?s)<!--\s*` + ResponseMarker + `:(.*?)-->`)

// extractResponseText pulls the human-readable summary out of the
// payload. The marker comment is the canonical source; the first
// markup-free line of the raw output is a legacy fallback; the generic
// string is the last resort. The returned text never contains angle
// brackets, and the marker comment is removed from the payload.
func extractResponseText(payload, raw string) (text, remaining string) {
	if m := responseMarkerRe.FindStringSubmatchIndex(payload); m != nil {
		text = stripMarkup(payload[m[2]:m[3]])
		remaining = payload[:m[0]] + payload[m[1]:]
		if text != "" {
			return text, remaining
		}
		payload = remaining
	} else {
		remaining = payload
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.ContainsAny(line, "<>") || strings.HasPrefix(line, "```") {
			continue
		}
		return line, remaining
	}

	return fallbackResponse, remaining
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

// stripMarkup reduces a string to plain text: tags removed, entities
// decoded, leftover angle brackets dropped, whitespace collapsed.
func stripMarkup(s string) string {
	s = tagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	return strings.Join(strings.Fields(s), " ")
}

// --- Step 3: image placeholder resolution ---

// Two equivalent placeholder forms: a descriptive comment immediately
// followed by a stub <img>, or a bare <img> whose src is the token.
// Both regexes anchor on the token so already-resolved tags can never
// rematch.
var (
	commentPlaceholderRe = regexp.MustCompile(
		`<!--([^>]*?)-->\s*<img[^>]*?src=["']` + PlaceholderToken + `["'][^>]*?>`)
	barePlaceholderRe = regexp.MustCompile(
		`<img[^>]*?src=["']` + PlaceholderToken + `["'][^>]*?>`)
	altAttrRe = regexp.MustCompile(`alt=["']([^"']*)["']`)
)

// resolvePlaceholders replaces each placeholder span with a concrete
// <img> tag. The comment form runs first (its description drives slot
// selection); bare stubs fall back to their alt text.
func (p *Pipeline) resolvePlaceholders(s string) string {
	s = p.replaceMatches(s, commentPlaceholderRe, func(match, desc string) string {
		return desc
	})
	s = p.replaceMatches(s, barePlaceholderRe, func(match, _ string) string {
		if m := altAttrRe.FindStringSubmatch(match); m != nil {
			return m[1]
		}
		return ""
	})
	return s
}

// replaceMatches rewrites every regex match with a resolved <img> tag.
// Matches are scanned front to back so the shared image index advances
// in document order, then spliced back to front so earlier indices
// stay valid.
func (p *Pipeline) replaceMatches(s string, re *regexp.Regexp, descOf func(match, group string) string) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	replacements := make([]string, len(matches))
	for i, loc := range matches {
		match := s[loc[0]:loc[1]]
		var group string
		if len(loc) >= 4 && loc[2] != -1 {
			group = s[loc[2]:loc[3]]
		}
		desc := strings.TrimSpace(descOf(match, group))
		url := p.resolveImageURL(desc + " " + match)

		if p.firstImg == "" {
			p.firstImg = url
		}

		alt := desc
		if alt == "" {
			alt = "Generated image"
		}
		replacements[i] = fmt.Sprintf(
			`<img src=%q alt=%q class="w-full h-64 object-cover rounded-lg">`,
			url, html.EscapeString(alt))
	}

	result := []byte(s)
	for i := len(matches) - 1; i >= 0; i-- {
		loc := matches[i]
		result = append(result[:loc[0]], append([]byte(replacements[i]), result[loc[1]:]...)...)
	}
	return string(result)
}

// resolveImageURL picks a concrete URL for one placeholder. Priority:
// hero keyword, team, service, project (each cycling its slot by the
// shared index), then unassigned feature images by direct index, then
// the about image, then the template preview. The shared index
// advances once per resolved placeholder regardless of category, so
// repeats cycle distinct images where available.
func (p *Pipeline) resolveImageURL(desc string) string {
	defer func() { p.imageIdx++ }()

	if p.tmpl == nil {
		return defaultImageURL
	}

	d := strings.ToLower(desc)
	img := p.tmpl.Images

	switch {
	case strings.Contains(d, "hero") && img.Hero != "":
		return img.Hero
	case strings.Contains(d, "team") && len(img.Team) > 0:
		return img.Team[p.imageIdx%len(img.Team)]
	case strings.Contains(d, "service") && len(img.Services) > 0:
		return img.Services[p.imageIdx%len(img.Services)]
	case strings.Contains(d, "project") && len(img.Projects) > 0:
		return img.Projects[p.imageIdx%len(img.Projects)]
	case p.imageIdx < len(img.Features):
		return img.Features[p.imageIdx]
	case img.About != "":
		return img.About
	case p.tmpl.PreviewImage != "":
		return p.tmpl.PreviewImage
	}
	return defaultImageURL
}

// --- Step 4: placeholder sweep ---

// sweepPlaceholders replaces any literal token the resolver's regexes
// missed (malformed tags) with the template preview image. Safety net,
// not the primary mechanism.
func (p *Pipeline) sweepPlaceholders(s string) string {
	if !strings.Contains(s, PlaceholderToken) {
		return s
	}
	return strings.ReplaceAll(s, PlaceholderToken, p.previewImage())
}

// --- Step 5: style-block extraction ---

var styleBlockRe = regexp.MustCompile(
	`(?s)<!--\s*` + StyleMarker + `\s*-->\s*<style[^>]*>(.*?)</style>`)

// extractStyleBlock pulls out the marked CSS block so the shell wrap
// can splice it into the document's <style> section.
func extractStyleBlock(s string) (css, remaining string) {
	m := styleBlockRe.FindStringSubmatchIndex(s)
	if m == nil {
		return "", s
	}
	css = strings.TrimSpace(s[m[2]:m[3]])
	remaining = s[:m[0]] + s[m[1]:]
	return css, remaining
}

// --- Step 7: verification ---

var danglingMarkerRe = regexp.MustCompile(`(?s)<!--\s*(?:` + ResponseMarker + `|` + StyleMarker + `)[^>]*?-->`)

// verify guarantees no internal marker reaches the client. Finding one
// here means an earlier step missed it: log and strip rather than
// crash, degrading to the unresolved-but-wrapped document.
func (p *Pipeline) verify(doc string) string {
	if strings.Contains(doc, PlaceholderToken) {
		slog.Warn("post-processing left a placeholder token, sweeping", "template", p.templateID())
		doc = strings.ReplaceAll(doc, PlaceholderToken, p.previewImage())
	}
	if danglingMarkerRe.MatchString(doc) {
		slog.Warn("post-processing left a dangling marker, stripping", "template", p.templateID())
		doc = danglingMarkerRe.ReplaceAllString(doc, "")
	}
	return doc
}

// --- helpers ---

// previewImage is the fallback chain terminal: first resolved image,
// then template preview, then the fixed default.
func (p *Pipeline) previewImage() string {
	if p.firstImg != "" {
		return p.firstImg
	}
	if p.tmpl != nil && p.tmpl.PreviewImage != "" {
		return p.tmpl.PreviewImage
	}
	return defaultImageURL
}

func (p *Pipeline) templateID() string {
	if p.tmpl == nil {
		return ""
	}
	return p.tmpl.ID
}

// extractDesignChoices derives advisory metadata from the finished
// document. Best-effort only: empty fields are fine.
func (p *Pipeline) extractDesignChoices(doc string) models.DesignChoices {
	if p.tmpl == nil {
		return models.DesignChoices{}
	}

	lower := strings.ToLower(doc)
	var present []string
	for _, section := range p.tmpl.Sections {
		if strings.Contains(lower, strings.ToLower(section)) {
			present = append(present, section)
		}
	}

	return models.DesignChoices{
		Layout:   p.tmpl.Category,
		Colors:   strings.Join(p.tmpl.Style.Colors, ", "),
		Features: strings.Join(present, ", "),
	}
}
