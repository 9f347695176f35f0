package models

// Profile is the owner's résumé data. Every slice and map field is kept
// non-nil by Normalize so prompt assembly never renders a null.
type Profile struct {
	Name           string            `json:"name"`
	Title          string            `json:"title"`
	Bio            string            `json:"bio"`
	Tagline        string            `json:"tagline"`
	Location       string            `json:"location"`
	Email          string            `json:"email"`
	AvatarURL      string            `json:"avatar_url"`
	SocialLinks    map[string]string `json:"social_links"`
	Skills         []Skill           `json:"skills"`
	Experience     []Experience      `json:"experience"`
	Education      []Education       `json:"education"`
	Projects       []Project         `json:"projects"`
	Certifications []string          `json:"certifications"`
	Languages      []string          `json:"languages"`
	Interests      []string          `json:"interests"`
	FunFacts       []string          `json:"fun_facts"`
	ResumeDraft    string            `json:"resume_draft,omitempty"`
}

type Skill struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Level    int    `json:"level"` // 0–100
}

type Experience struct {
	Company     string   `json:"company"`
	Role        string   `json:"role"`
	Period      string   `json:"period"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
}

type Education struct {
	Institution  string   `json:"institution"`
	Degree       string   `json:"degree"`
	Period       string   `json:"period"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Link         string   `json:"link"`
	Featured     bool     `json:"featured"`
}

// Normalize replaces nil collection fields with empty ones.
func (p *Profile) Normalize() {
	if p.SocialLinks == nil {
		p.SocialLinks = map[string]string{}
	}
	if p.Skills == nil {
		p.Skills = []Skill{}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.Projects == nil {
		p.Projects = []Project{}
	}
	if p.Certifications == nil {
		p.Certifications = []string{}
	}
	if p.Languages == nil {
		p.Languages = []string{}
	}
	if p.Interests == nil {
		p.Interests = []string{}
	}
	if p.FunFacts == nil {
		p.FunFacts = []string{}
	}
	for i := range p.Experience {
		if p.Experience[i].Highlights == nil {
			p.Experience[i].Highlights = []string{}
		}
	}
	for i := range p.Education {
		if p.Education[i].Achievements == nil {
			p.Education[i].Achievements = []string{}
		}
	}
	for i := range p.Projects {
		if p.Projects[i].Technologies == nil {
			p.Projects[i].Technologies = []string{}
		}
	}
}

// BotConfig controls the persona and the integration side-channels.
type BotConfig struct {
	Personality   Personality  `json:"personality"`
	SystemPrompt  string       `json:"system_prompt"`
	QuickReplies  []string     `json:"quick_replies"`
	BlockedTopics []string     `json:"blocked_topics"`
	Integrations  Integrations `json:"integrations"`
}

type Personality struct {
	Name            string `json:"name"`
	Tone            string `json:"tone"`
	Greeting        string `json:"greeting"`
	FallbackMessage string `json:"fallback_message"`
}

type Integrations struct {
	Playlists     PlaylistsIntegration `json:"playlists"`
	LatestThought ThoughtIntegration   `json:"latest_thought"`
	Blog          BlogIntegration      `json:"blog"`
}

type PlaylistsIntegration struct {
	Enabled   bool       `json:"enabled"`
	Playlists []Playlist `json:"playlists"`
}

type Playlist struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

type ThoughtIntegration struct {
	Enabled bool   `json:"enabled"`
	Text    string `json:"text"`
}

type BlogIntegration struct {
	Enabled bool   `json:"enabled"`
	FeedURL string `json:"feed_url"`
}

func (c *BotConfig) Normalize() {
	if c.QuickReplies == nil {
		c.QuickReplies = []string{}
	}
	if c.BlockedTopics == nil {
		c.BlockedTopics = []string{}
	}
	if c.Integrations.Playlists.Playlists == nil {
		c.Integrations.Playlists.Playlists = []Playlist{}
	}
}

// DefaultBotConfig is used when nothing has been saved yet.
func DefaultBotConfig() BotConfig {
	cfg := BotConfig{
		Personality: Personality{
			Name:            "Folio",
			Tone:            "friendly and professional",
			Greeting:        "Hi! Ask me anything about my work.",
			FallbackMessage: "I'm not sure about that one — try asking about my projects, skills or experience.",
		},
		QuickReplies: []string{
			"What do you do?",
			"Show me your projects",
			"How can I contact you?",
		},
	}
	cfg.Normalize()
	return cfg
}

// ChatTurn is one prior message replayed by the client. The server keeps no
// conversation state of its own.
type ChatTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ContentBlock is the typed payload embedded in a fenced block inside a
// response. It is rendered specially by the UI and never persisted.
type ContentBlock struct {
	Type  string      `json:"type"`
	Items []BlockItem `json:"items"`
}

type BlockItem struct {
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Description string   `json:"description,omitempty"`
	Link        string   `json:"link,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Block types the UI knows how to render.
const (
	BlockProjects   = "projects"
	BlockEducation  = "education"
	BlockExperience = "experience"
	BlockArticles   = "articles"
)

func ValidBlockType(t string) bool {
	switch t {
	case BlockProjects, BlockEducation, BlockExperience, BlockArticles:
		return true
	}
	return false
}
