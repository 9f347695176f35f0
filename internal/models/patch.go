package models

// Partial-update types for the admin dashboard. A nil pointer means "leave
// the stored value alone"; a non-nil slice or map replaces the stored value
// wholesale — list fields are never merged element-wise.

type ProfilePatch struct {
	Name           *string            `json:"name,omitempty"`
	Title          *string            `json:"title,omitempty"`
	Bio            *string            `json:"bio,omitempty"`
	Tagline        *string            `json:"tagline,omitempty"`
	Location       *string            `json:"location,omitempty"`
	Email          *string            `json:"email,omitempty"`
	AvatarURL      *string            `json:"avatar_url,omitempty"`
	SocialLinks    *map[string]string `json:"social_links,omitempty"`
	Skills         *[]Skill           `json:"skills,omitempty"`
	Experience     *[]Experience      `json:"experience,omitempty"`
	Education      *[]Education       `json:"education,omitempty"`
	Projects       *[]Project         `json:"projects,omitempty"`
	Certifications *[]string          `json:"certifications,omitempty"`
	Languages      *[]string          `json:"languages,omitempty"`
	Interests      *[]string          `json:"interests,omitempty"`
	FunFacts       *[]string          `json:"fun_facts,omitempty"`
	ResumeDraft    *string            `json:"resume_draft,omitempty"`
}

// Apply merges the patch onto p. Scalar fields overwrite when set;
// collection fields are replaced in full.
func (pp ProfilePatch) Apply(p *Profile) {
	setString(&p.Name, pp.Name)
	setString(&p.Title, pp.Title)
	setString(&p.Bio, pp.Bio)
	setString(&p.Tagline, pp.Tagline)
	setString(&p.Location, pp.Location)
	setString(&p.Email, pp.Email)
	setString(&p.AvatarURL, pp.AvatarURL)
	setString(&p.ResumeDraft, pp.ResumeDraft)
	if pp.SocialLinks != nil {
		p.SocialLinks = *pp.SocialLinks
	}
	if pp.Skills != nil {
		p.Skills = *pp.Skills
	}
	if pp.Experience != nil {
		p.Experience = *pp.Experience
	}
	if pp.Education != nil {
		p.Education = *pp.Education
	}
	if pp.Projects != nil {
		p.Projects = *pp.Projects
	}
	if pp.Certifications != nil {
		p.Certifications = *pp.Certifications
	}
	if pp.Languages != nil {
		p.Languages = *pp.Languages
	}
	if pp.Interests != nil {
		p.Interests = *pp.Interests
	}
	if pp.FunFacts != nil {
		p.FunFacts = *pp.FunFacts
	}
	p.Normalize()
}

type BotConfigPatch struct {
	Personality   *PersonalityPatch  `json:"personality,omitempty"`
	SystemPrompt  *string            `json:"system_prompt,omitempty"`
	QuickReplies  *[]string          `json:"quick_replies,omitempty"`
	BlockedTopics *[]string          `json:"blocked_topics,omitempty"`
	Integrations  *IntegrationsPatch `json:"integrations,omitempty"`
}

type PersonalityPatch struct {
	Name            *string `json:"name,omitempty"`
	Tone            *string `json:"tone,omitempty"`
	Greeting        *string `json:"greeting,omitempty"`
	FallbackMessage *string `json:"fallback_message,omitempty"`
}

type IntegrationsPatch struct {
	Playlists     *PlaylistsPatch `json:"playlists,omitempty"`
	LatestThought *ThoughtPatch   `json:"latest_thought,omitempty"`
	Blog          *BlogPatch      `json:"blog,omitempty"`
}

type PlaylistsPatch struct {
	Enabled   *bool       `json:"enabled,omitempty"`
	Playlists *[]Playlist `json:"playlists,omitempty"`
}

type ThoughtPatch struct {
	Enabled *bool   `json:"enabled,omitempty"`
	Text    *string `json:"text,omitempty"`
}

type BlogPatch struct {
	Enabled *bool   `json:"enabled,omitempty"`
	FeedURL *string `json:"feed_url,omitempty"`
}

// Apply merges the patch onto c, recursing into nested sections so a partial
// personality or integrations update leaves sibling fields intact.
func (cp BotConfigPatch) Apply(c *BotConfig) {
	if cp.Personality != nil {
		setString(&c.Personality.Name, cp.Personality.Name)
		setString(&c.Personality.Tone, cp.Personality.Tone)
		setString(&c.Personality.Greeting, cp.Personality.Greeting)
		setString(&c.Personality.FallbackMessage, cp.Personality.FallbackMessage)
	}
	setString(&c.SystemPrompt, cp.SystemPrompt)
	if cp.QuickReplies != nil {
		c.QuickReplies = *cp.QuickReplies
	}
	if cp.BlockedTopics != nil {
		c.BlockedTopics = *cp.BlockedTopics
	}
	if cp.Integrations != nil {
		if pl := cp.Integrations.Playlists; pl != nil {
			setBool(&c.Integrations.Playlists.Enabled, pl.Enabled)
			if pl.Playlists != nil {
				c.Integrations.Playlists.Playlists = *pl.Playlists
			}
		}
		if th := cp.Integrations.LatestThought; th != nil {
			setBool(&c.Integrations.LatestThought.Enabled, th.Enabled)
			setString(&c.Integrations.LatestThought.Text, th.Text)
		}
		if bl := cp.Integrations.Blog; bl != nil {
			setBool(&c.Integrations.Blog.Enabled, bl.Enabled)
			setString(&c.Integrations.Blog.FeedURL, bl.FeedURL)
		}
	}
	c.Normalize()
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
