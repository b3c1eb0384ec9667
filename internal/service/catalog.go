package service

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"skillstreak_backend/internal/model"

	"gopkg.in/yaml.v3"
)

// CatalogEntry 挑战模板，不含积分，积分由难度和当前规则决定
type CatalogEntry struct {
	ID          string           `yaml:"id" json:"id"`
	Title       string           `yaml:"title" json:"title"`
	Description string           `yaml:"description" json:"description"`
	Skill       string           `yaml:"-" json:"skill"`
	Difficulty  model.Difficulty `yaml:"difficulty" json:"difficulty"`
}

// Snapshot 生成写入每日记录的挑战副本
func (e CatalogEntry) Snapshot(rules Rules) model.Challenge {
	return model.Challenge{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Category:    e.Skill,
		Difficulty:  e.Difficulty,
		Points:      rules.PointsFor(e.Difficulty),
	}
}

// Catalog 只读的挑战目录
type Catalog struct {
	entries []CatalogEntry
}

func NewCatalog(entries []CatalogEntry) (*Catalog, error) {
	seen := make(map[string]bool, len(entries))
	copied := make([]CatalogEntry, 0, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("catalog entry %d: id is required", i)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("catalog entry %q: duplicate id", e.ID)
		}
		if e.Title == "" || e.Skill == "" {
			return nil, fmt.Errorf("catalog entry %q: title and skill are required", e.ID)
		}
		d, ok := model.ParseDifficulty(string(e.Difficulty))
		if !ok {
			return nil, fmt.Errorf("catalog entry %q: unknown difficulty %q", e.ID, e.Difficulty)
		}
		e.Difficulty = d
		seen[e.ID] = true
		copied = append(copied, e)
	}
	return &Catalog{entries: copied}, nil
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

func (c *Catalog) Entries() []CatalogEntry {
	out := make([]CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// BySkills 技能名大小写不敏感匹配
func (c *Catalog) BySkills(skills []string) []CatalogEntry {
	if len(skills) == 0 {
		return nil
	}
	want := make(map[string]bool, len(skills))
	for _, s := range skills {
		want[strings.ToLower(strings.TrimSpace(s))] = true
	}
	var out []CatalogEntry
	for _, e := range c.entries {
		if want[strings.ToLower(e.Skill)] {
			out = append(out, e)
		}
	}
	return out
}

type catalogFile struct {
	Skills map[string][]CatalogEntry `yaml:"skills"`
}

// LoadCatalogFile 读取 YAML 目录，技能按名称排序以保证顺序稳定
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	skills := make([]string, 0, len(f.Skills))
	for skill := range f.Skills {
		skills = append(skills, skill)
	}
	sort.Strings(skills)

	var entries []CatalogEntry
	for _, skill := range skills {
		for _, e := range f.Skills[skill] {
			e.Skill = skill
			entries = append(entries, e)
		}
	}
	return NewCatalog(entries)
}

func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultCatalogEntries)
	if err != nil {
		panic(err)
	}
	return c
}

var defaultCatalogEntries = []CatalogEntry{
	{ID: "compliment-stranger", Skill: "Communication", Title: "Spread Positivity", Description: "Compliment a stranger or coworker today", Difficulty: model.Easy},
	{ID: "genuine-question", Skill: "Communication", Title: "Active Listening", Description: "Ask someone a genuine question and actively listen to their answer", Difficulty: model.Medium},
	{ID: "new-conversation", Skill: "Communication", Title: "Break the Ice", Description: "Start a short conversation with someone you don't usually talk to", Difficulty: model.Medium},
	{ID: "share-opinion", Skill: "Communication", Title: "Speak Up", Description: "Share your opinion in a group discussion (even briefly)", Difficulty: model.Hard},
	{ID: "tell-story", Skill: "Communication", Title: "Engaging Storyteller", Description: "Tell a short story about your day to someone in a clear, engaging way", Difficulty: model.Medium},

	{ID: "offer-help", Skill: "Collaboration", Title: "Lend a Hand", Description: "Offer help to a peer or classmate with a small task", Difficulty: model.Easy},
	{ID: "share-resource", Skill: "Collaboration", Title: "Knowledge Sharing", Description: "Share a resource (article, tool, or tip) with a team member", Difficulty: model.Easy},
	{ID: "seek-input", Skill: "Collaboration", Title: "Collaborative Decision", Description: "Ask someone else for their input before making a decision", Difficulty: model.Medium},
	{ID: "volunteer-notes", Skill: "Collaboration", Title: "Team Support", Description: "In group work, volunteer to take notes or summarize decisions", Difficulty: model.Medium},
	{ID: "recognize-contribution", Skill: "Collaboration", Title: "Acknowledge Others", Description: "Recognize someone else's contribution in a group setting", Difficulty: model.Medium},

	{ID: "pause-react", Skill: "Emotional Intelligence", Title: "Mindful Response", Description: "Pause before reacting to a stressful situation today", Difficulty: model.Medium},
	{ID: "emotion-journal", Skill: "Emotional Intelligence", Title: "Emotion Awareness", Description: "Notice and write down one emotion you felt strongly and why", Difficulty: model.Easy},
	{ID: "check-feelings", Skill: "Emotional Intelligence", Title: "Empathetic Inquiry", Description: "Ask a friend or peer how they are feeling, and really listen", Difficulty: model.Medium},
	{ID: "rephrase-perspective", Skill: "Emotional Intelligence", Title: "Active Understanding", Description: "Practice rephrasing someone's perspective back to them (\"So you're saying...\")", Difficulty: model.Medium},
	{ID: "compliment-effort", Skill: "Emotional Intelligence", Title: "Meaningful Recognition", Description: "Compliment someone specifically on their effort, not just the outcome", Difficulty: model.Easy},

	{ID: "take-initiative-task", Skill: "Leadership", Title: "Take Initiative", Description: "Take initiative on a small task in a group (e.g., organizing notes, setting agenda)", Difficulty: model.Medium},
	{ID: "share-encouragement", Skill: "Leadership", Title: "Inspire Others", Description: "Share encouragement with someone who seems discouraged", Difficulty: model.Easy},
	{ID: "suggest-idea", Skill: "Leadership", Title: "Contribute Ideas", Description: "Suggest one idea in a group discussion", Difficulty: model.Medium},
	{ID: "delegate-small-task", Skill: "Leadership", Title: "Smart Delegation", Description: "Delegate one small task instead of trying to do it yourself", Difficulty: model.Hard},
	{ID: "acknowledge-strength", Skill: "Leadership", Title: "Public Recognition", Description: "Acknowledge someone's strength in front of others", Difficulty: model.Medium},

	{ID: "daily-journal", Skill: "Self-Awareness", Title: "Daily Reflection", Description: "Spend 5 minutes journaling about what went well today and what didn't", Difficulty: model.Easy},
	{ID: "identify-strength", Skill: "Self-Awareness", Title: "Strength Recognition", Description: "Identify one personal strength you used today", Difficulty: model.Easy},
	{ID: "improvement-area", Skill: "Self-Awareness", Title: "Growth Mindset", Description: "Identify one area where you could improve tomorrow", Difficulty: model.Easy},
	{ID: "seek-feedback", Skill: "Self-Awareness", Title: "Constructive Input", Description: "Ask a trusted friend to give you one piece of constructive feedback", Difficulty: model.Medium},
	{ID: "stress-trigger", Skill: "Self-Awareness", Title: "Trigger Awareness", Description: "Notice when you feel stressed and write down what triggered it", Difficulty: model.Medium},

	{ID: "new-method", Skill: "Adaptability", Title: "Try Something New", Description: "Try a new way of doing a familiar task", Difficulty: model.Easy},
	{ID: "accept-change", Skill: "Adaptability", Title: "Embrace Change", Description: "Accept a small change today without complaining", Difficulty: model.Medium},
	{ID: "learn-approach", Skill: "Adaptability", Title: "Learn from Others", Description: "Ask someone else how they usually solve a problem, and try their method", Difficulty: model.Medium},
	{ID: "break-routine", Skill: "Adaptability", Title: "Step Outside Routine", Description: "Do something outside your routine (e.g., sit in a different seat, take a new route)", Difficulty: model.Easy},
	{ID: "positive-outcome", Skill: "Adaptability", Title: "Find the Silver Lining", Description: "When plans change, write down one positive outcome that came from it", Difficulty: model.Medium},
}
