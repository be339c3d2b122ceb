// Package catalog holds the static registry of design templates. The
// catalog is defined at process start and never mutated; requests refer
// to templates by ID.
package catalog

import "uigen/internal/models"

var templates = []models.Template{
	{
		ID:          "modern-landing",
		Name:        "Modern Landing Page",
		Description: "A clean, modern landing page perfect for products or services",
		Category:    "landing",
		Sections:    []string{"hero", "features", "about", "cta"},
		Style: models.TemplateStyle{
			Colors: []string{"#1a365d", "#2563eb", "#f3f4f6"},
			Fonts:  []string{"Inter", "system-ui"},
		},
		PreviewImage: "https://images.unsplash.com/photo-1460925895917-afdab827c52f?w=1200&q=80",
		Images: models.TemplateImages{
			Hero:  "https://images.unsplash.com/photo-1551434678-e076c223a692?w=1600&q=80",
			About: "https://images.unsplash.com/photo-1522071820081-009f0129c71c?w=1200&q=80",
			Features: []string{
				"https://images.unsplash.com/photo-1551288049-bebda4e38f71?w=800&q=80",
				"https://images.unsplash.com/photo-1460925895917-afdab827c52f?w=800&q=80",
				"https://images.unsplash.com/photo-1504868584819-f8e8b4b6d7e3?w=800&q=80",
			},
		},
	},
	{
		ID:          "business",
		Name:        "Business Site",
		Description: "Professional business website with services and contact information",
		Category:    "business",
		Sections:    []string{"hero", "services", "team", "testimonials", "contact"},
		Style: models.TemplateStyle{
			Colors: []string{"#1e293b", "#0f766e", "#f8fafc"},
			Fonts:  []string{"Montserrat", "system-ui"},
		},
		PreviewImage: "https://images.unsplash.com/photo-1486406146926-c627a92ad1ab?w=1200&q=80",
		Images: models.TemplateImages{
			Hero:  "https://images.unsplash.com/photo-1497366216548-37526070297c?w=1600&q=80",
			About: "https://images.unsplash.com/photo-1556761175-5973dc0f32e7?w=1200&q=80",
			Features: []string{
				"https://images.unsplash.com/photo-1454165804606-c3d57bc86b40?w=800&q=80",
				"https://images.unsplash.com/photo-1521791136064-7986c2920216?w=800&q=80",
			},
			Team: []string{
				"https://images.unsplash.com/photo-1560250097-0b93528c311a?w=600&q=80",
				"https://images.unsplash.com/photo-1573496359142-b8d87734a5a2?w=600&q=80",
				"https://images.unsplash.com/photo-1519085360753-af0119f7cbe7?w=600&q=80",
			},
			Services: []string{
				"https://images.unsplash.com/photo-1507679799987-c73779587ccf?w=800&q=80",
				"https://images.unsplash.com/photo-1554224155-6726b3ff858f?w=800&q=80",
				"https://images.unsplash.com/photo-1553877522-43269d4ea984?w=800&q=80",
			},
		},
	},
	{
		ID:          "portfolio",
		Name:        "Portfolio",
		Description: "Showcase your work with this elegant portfolio template",
		Category:    "portfolio",
		Sections:    []string{"hero", "projects", "about", "skills", "contact"},
		Style: models.TemplateStyle{
			Colors: []string{"#18181b", "#6366f1", "#fafafa"},
			Fonts:  []string{"Poppins", "system-ui"},
		},
		PreviewImage: "https://images.unsplash.com/photo-1467232004584-a241de8bcf5d?w=1200&q=80",
		Images: models.TemplateImages{
			Hero:  "https://images.unsplash.com/photo-1498050108023-c5249f4df085?w=1600&q=80",
			About: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=1200&q=80",
			Projects: []string{
				"https://images.unsplash.com/photo-1517180102446-f3ece451e9d8?w=800&q=80",
				"https://images.unsplash.com/photo-1547658719-da2b51169166?w=800&q=80",
				"https://images.unsplash.com/photo-1559028012-481c04fa702d?w=800&q=80",
				"https://images.unsplash.com/photo-1581291518857-4e27b48ff24e?w=800&q=80",
			},
		},
	},
	{
		ID:          "blog",
		Name:        "Blog",
		Description: "Clean and readable blog layout for content creators",
		Category:    "blog",
		Sections:    []string{"hero", "featured-posts", "categories", "newsletter"},
		Style: models.TemplateStyle{
			Colors: []string{"#262626", "#ef4444", "#f5f5f5"},
			Fonts:  []string{"Merriweather", "system-ui"},
		},
		PreviewImage: "https://images.unsplash.com/photo-1499750310107-5fef28a66643?w=1200&q=80",
		Images: models.TemplateImages{
			Hero:  "https://images.unsplash.com/photo-1486312338219-ce68d2c6f44d?w=1600&q=80",
			About: "https://images.unsplash.com/photo-1455390582262-044cdead277a?w=1200&q=80",
			Features: []string{
				"https://images.unsplash.com/photo-1488190211105-8b0e65b80b4e?w=800&q=80",
				"https://images.unsplash.com/photo-1432821596592-e2c18b78144f?w=800&q=80",
				"https://images.unsplash.com/photo-1519337265831-281ec6cc8514?w=800&q=80",
			},
		},
	},
}

// All returns every registered template in declaration order.
func All() []models.Template {
	out := make([]models.Template, len(templates))
	copy(out, templates)
	return out
}

// ByID looks up a template by its stable ID. Returns nil when unknown.
func ByID(id string) *models.Template {
	for i := range templates {
		if templates[i].ID == id {
			t := templates[i]
			return &t
		}
	}
	return nil
}
