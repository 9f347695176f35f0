package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nnamdiokafor/foliobot/internal/models"
)

// The hybrid responder answers common questions from the profile alone, so
// greetings and "what are your skills" never cost a model call. Everything
// here is deterministic: identical profile + message always produces
// byte-identical output.

var greetings = map[string]bool{
	"hi": true, "hello": true, "hey": true, "yo": true, "hiya": true,
	"good morning": true, "good afternoon": true, "good evening": true,
	"howdy": true, "sup": true, "whats up": true, "hello there": true,
}

// keywordSection maps trigger substrings to one profile section. Order in
// the slice is the tie-break: the first section with any match wins.
type keywordSection struct {
	name     string
	keywords []string
}

var sections = []keywordSection{
	{"skills", []string{"skill", "tech stack", "technologies", "technology", "tools", "stack", "programming language"}},
	{"experience", []string{"experience", "work history", "career", "job", "employment", "worked at", "companies"}},
	{"projects", []string{"project", "portfolio", "built", "building", "made", "side project"}},
	{"articles", []string{"article", "blog", "post", "writing", "written", "publication"}},
	{"education", []string{"education", "degree", "university", "college", "studied", "school", "academic"}},
	{"contact", []string{"contact", "email", "reach", "hire", "linkedin", "github", "social"}},
	{"about", []string{"about you", "who are you", "tell me about", "yourself", "bio", "background"}},
}

func normalize(message string) string {
	lower := strings.ToLower(strings.TrimSpace(message))
	var b strings.Builder
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// TryLocal returns a formatted answer when the message matches a greeting or
// a keyword section, or nil to fall through to the model.
func TryLocal(message string, profile models.Profile) *string {
	norm := normalize(message)
	if norm == "" {
		return nil
	}

	if greetings[norm] {
		answer := fmt.Sprintf("Hey! I'm %s's assistant. Ask me about skills, projects, experience — anything on the résumé.", displayName(profile))
		return &answer
	}

	for _, section := range sections {
		for _, kw := range section.keywords {
			if strings.Contains(norm, kw) {
				answer := formatSection(section.name, profile)
				return &answer
			}
		}
	}
	return nil
}

func displayName(p models.Profile) string {
	if p.Name != "" {
		return p.Name
	}
	return "the site owner"
}

func formatSection(name string, p models.Profile) string {
	switch name {
	case "skills":
		return formatSkills(p)
	case "experience":
		return formatExperience(p)
	case "projects":
		return formatProjects(p)
	case "articles":
		return fmt.Sprintf("I don't keep articles in the résumé itself — check the blog links on %s's page, or ask me about projects instead.", displayName(p))
	case "education":
		return formatEducation(p)
	case "contact":
		return formatContact(p)
	default:
		return formatAbout(p)
	}
}

func formatSkills(p models.Profile) string {
	if len(p.Skills) == 0 {
		return fmt.Sprintf("%s hasn't listed any skills yet.", displayName(p))
	}
	grouped := map[string][]string{}
	for _, s := range p.Skills {
		cat := s.Category
		if cat == "" {
			cat = "General"
		}
		grouped[cat] = append(grouped[cat], s.Name)
	}
	order := make([]string, 0, len(grouped))
	for cat := range grouped {
		order = append(order, cat)
	}
	sort.Strings(order)

	var b strings.Builder
	fmt.Fprintf(&b, "Here's what %s works with:\n", displayName(p))
	for _, cat := range order {
		fmt.Fprintf(&b, "\n**%s**: %s", cat, strings.Join(grouped[cat], ", "))
	}
	return b.String()
}

func formatExperience(p models.Profile) string {
	if len(p.Experience) == 0 {
		return fmt.Sprintf("%s hasn't added work experience yet.", displayName(p))
	}
	shown := p.Experience
	if len(shown) > 3 {
		shown = shown[:3]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s's recent experience:\n", displayName(p))
	for _, e := range shown {
		fmt.Fprintf(&b, "\n**%s** at %s (%s)", e.Role, e.Company, e.Period)
		if e.Description != "" {
			fmt.Fprintf(&b, "\n%s", e.Description)
		}
	}
	if extra := len(p.Experience) - len(shown); extra > 0 {
		fmt.Fprintf(&b, "\n\n...and %d more earlier role(s). Ask if you want the full history!", extra)
	}
	return b.String()
}

func formatProjects(p models.Profile) string {
	if len(p.Projects) == 0 {
		return fmt.Sprintf("%s hasn't published any projects yet.", displayName(p))
	}
	block := models.ContentBlock{Type: models.BlockProjects}
	for _, proj := range p.Projects {
		block.Items = append(block.Items, models.BlockItem{
			Title:       proj.Name,
			Description: proj.Description,
			Link:        proj.Link,
			Tags:        proj.Technologies,
		})
	}
	return fmt.Sprintf("Here are %s's projects:\n\n%s", displayName(p), EncodeBlock(block))
}

func formatEducation(p models.Profile) string {
	if len(p.Education) == 0 {
		return fmt.Sprintf("%s hasn't listed education yet.", displayName(p))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s's education:\n", displayName(p))
	for _, e := range p.Education {
		fmt.Fprintf(&b, "\n**%s** — %s (%s)", e.Degree, e.Institution, e.Period)
	}
	return b.String()
}

func formatContact(p models.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You can reach %s here:\n", displayName(p))
	if p.Email != "" {
		fmt.Fprintf(&b, "\n**Email**: %s", p.Email)
	}
	platforms := make([]string, 0, len(p.SocialLinks))
	for platform := range p.SocialLinks {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)
	for _, platform := range platforms {
		fmt.Fprintf(&b, "\n**%s**: %s", titleCase(platform), p.SocialLinks[platform])
	}
	if p.Email == "" && len(p.SocialLinks) == 0 {
		return fmt.Sprintf("%s hasn't shared contact details yet.", displayName(p))
	}
	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatAbout(p models.Profile) string {
	var parts []string
	if p.Title != "" {
		parts = append(parts, fmt.Sprintf("%s — %s.", displayName(p), p.Title))
	}
	if p.Bio != "" {
		parts = append(parts, p.Bio)
	}
	if p.Tagline != "" {
		parts = append(parts, fmt.Sprintf("_%s_", p.Tagline))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("That's %s's site — but the profile is still being filled in.", displayName(p))
	}
	return strings.Join(parts, "\n\n")
}
