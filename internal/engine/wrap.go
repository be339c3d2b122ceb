package engine

import (
	"net/url"
	"regexp"
	"strings"
	"text/template"
)

// Step 6: document shell wrap. Fragments become full documents with the
// runtime assets the generated markup depends on (Tailwind CDN, Font
// Awesome, Google Fonts, theme config). Payloads that already are full
// documents are never double-wrapped; they only get head tags they are
// missing.

// shellTmpl is text/template, not html/template: Body and ExtraCSS are
// raw markup produced by earlier pipeline steps, escaping them would
// destroy the document.
var shellTmpl = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<script src="https://cdn.tailwindcss.com"></script>
<link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.5.1/css/all.min.css">
{{- if .FontLink}}
<link rel="stylesheet" href="{{.FontLink}}">
{{- end}}
<script>
tailwind.config = {
  theme: {
    extend: {
      colors: {
        primary: "{{.Primary}}",
        secondary: "{{.Secondary}}",
        accent: "{{.Accent}}"
      },
      fontFamily: {
        sans: [{{.FontListJS}}]
      }
    }
  }
}
</script>
<style>
body { font-family: {{.FontFamilyCSS}}; }
{{- if .ExtraCSS}}
{{.ExtraCSS}}
{{- end}}
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

type shellData struct {
	Title         string
	FontLink      string
	Primary       string
	Secondary     string
	Accent        string
	FontListJS    string
	FontFamilyCSS string
	ExtraCSS      string
	Body          string
}

// wrapDocument produces the final complete document. css is the
// extracted AI_STYLES content, spliced into the shell's style section
// (or into an existing document's head).
func (p *Pipeline) wrapDocument(payload, css string) string {
	if isFullDocument(payload) {
		return ensureHeadAssets(payload, css)
	}

	data := shellData{
		Title:         "Generated Design",
		Primary:       "#1e293b",
		Secondary:     "#0f766e",
		Accent:        "#f8fafc",
		FontListJS:    `"sans-serif"`,
		FontFamilyCSS: "sans-serif",
		ExtraCSS:      css,
		Body:          payload,
	}

	if t := p.tmpl; t != nil {
		data.Title = t.Name
		if v := t.Style.Primary(); v != "" {
			data.Primary = v
		}
		if v := t.Style.Secondary(); v != "" {
			data.Secondary = v
		}
		if v := t.Style.Accent(); v != "" {
			data.Accent = v
		}
		if len(t.Style.Fonts) > 0 {
			data.FontLink = googleFontsURL(t.Style.Fonts)
			data.FontListJS = fontListJS(t.Style.Fonts)
			data.FontFamilyCSS = fontFamilyCSS(t.Style.Fonts)
		}
	}

	var sb strings.Builder
	if err := shellTmpl.Execute(&sb, data); err != nil {
		// The template is static and the data plain strings; execution
		// cannot fail. Keep the payload renderable regardless.
		return "<!DOCTYPE html>\n<html>\n<body>\n" + payload + "\n</body>\n</html>"
	}
	return sb.String()
}

func isFullDocument(s string) bool {
	head := strings.ToLower(s)
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.Contains(head, "<!doctype") || strings.Contains(head, "<html")
}

var headOpenRe = regexp.MustCompile(`(?i)<head[^>]*>`)
var htmlOpenRe = regexp.MustCompile(`(?i)<html[^>]*>`)

// ensureHeadAssets inserts any missing head tags into a document the
// model emitted in full. Existing tags are left alone.
func ensureHeadAssets(doc string, css string) string {
	var missing []string
	lower := strings.ToLower(doc)

	if !strings.Contains(lower, "charset") {
		missing = append(missing, `<meta charset="UTF-8">`)
	}
	if !strings.Contains(lower, `name="viewport"`) {
		missing = append(missing, `<meta name="viewport" content="width=device-width, initial-scale=1.0">`)
	}
	if !strings.Contains(lower, "cdn.tailwindcss.com") {
		missing = append(missing, `<script src="https://cdn.tailwindcss.com"></script>`)
	}
	if css != "" {
		missing = append(missing, "<style>\n"+css+"\n</style>")
	}
	if len(missing) == 0 {
		return doc
	}

	insert := "\n" + strings.Join(missing, "\n")

	if m := headOpenRe.FindStringIndex(doc); m != nil {
		return doc[:m[1]] + insert + doc[m[1]:]
	}
	if m := htmlOpenRe.FindStringIndex(doc); m != nil {
		return doc[:m[1]] + "\n<head>" + insert + "\n</head>" + doc[m[1]:]
	}
	return "<head>" + insert + "\n</head>\n" + doc
}

// genericFamilies never go into a Google Fonts request.
var genericFamilies = map[string]bool{
	"sans-serif": true,
	"serif":      true,
	"monospace":  true,
	"system-ui":  true,
	"cursive":    true,
	"fantasy":    true,
}

// googleFontsURL builds one css2 request covering every named family.
func googleFontsURL(fonts []string) string {
	var params []string
	for _, f := range fonts {
		if genericFamilies[strings.ToLower(f)] {
			continue
		}
		family := url.QueryEscape(f)
		params = append(params, "family="+family+":wght@400;500;600;700")
	}
	if len(params) == 0 {
		return ""
	}
	return "https://fonts.googleapis.com/css2?" + strings.Join(params, "&") + "&display=swap"
}

// fontListJS renders the family list as a JS string array body for the
// tailwind.config fontFamily entry.
func fontListJS(fonts []string) string {
	quoted := make([]string, 0, len(fonts)+1)
	for _, f := range fonts {
		quoted = append(quoted, `"`+f+`"`)
	}
	if len(fonts) == 0 || !genericFamilies[strings.ToLower(fonts[len(fonts)-1])] {
		quoted = append(quoted, `"sans-serif"`)
	}
	return strings.Join(quoted, ", ")
}

// fontFamilyCSS renders the family list as a CSS font-family value,
// quoting names with spaces.
func fontFamilyCSS(fonts []string) string {
	parts := make([]string, 0, len(fonts)+1)
	for _, f := range fonts {
		if strings.ContainsAny(f, " ") && !genericFamilies[strings.ToLower(f)] {
			parts = append(parts, `'`+f+`'`)
		} else {
			parts = append(parts, f)
		}
	}
	if len(fonts) == 0 || !genericFamilies[strings.ToLower(fonts[len(fonts)-1])] {
		parts = append(parts, "sans-serif")
	}
	return strings.Join(parts, ", ")
}
