package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"cyberquest-api/models"
	"cyberquest-api/utils"
)

//go:embed data/quizzes.json
var quizzesJSON []byte

//go:embed data/badges.json
var badgesJSON []byte

//go:embed data/habits.json
var habitsJSON []byte

//go:embed data/tips.json
var tipsJSON []byte

// Catalog holds the read-only content definitions (quizzes, badges, habits,
// security tips) shipped with the binary. It is loaded once at startup and
// injected into everything that needs reference data.
type Catalog struct {
	quizzes []models.Quiz
	badges  []models.Badge
	habits  []models.Habit
	tips    []string

	quizIndex  map[string]*models.Quiz
	badgeIndex map[string]*models.Badge
	habitIndex map[string]*models.Habit
}

// Load decodes the embedded catalog data and builds lookup indexes
func Load() (*Catalog, error) {
	utils.LogStartup("Loading content catalog...")

	var quizzes struct {
		Quizzes []models.Quiz `json:"quizzes"`
	}
	if err := json.Unmarshal(quizzesJSON, &quizzes); err != nil {
		return nil, fmt.Errorf("failed to decode quizzes: %w", err)
	}

	var badges struct {
		Badges []models.Badge `json:"badges"`
	}
	if err := json.Unmarshal(badgesJSON, &badges); err != nil {
		return nil, fmt.Errorf("failed to decode badges: %w", err)
	}

	var habits struct {
		Habits []models.Habit `json:"habits"`
	}
	if err := json.Unmarshal(habitsJSON, &habits); err != nil {
		return nil, fmt.Errorf("failed to decode habits: %w", err)
	}

	var tips struct {
		Tips []string `json:"tips"`
	}
	if err := json.Unmarshal(tipsJSON, &tips); err != nil {
		return nil, fmt.Errorf("failed to decode tips: %w", err)
	}

	c := &Catalog{
		quizzes:    quizzes.Quizzes,
		badges:     badges.Badges,
		habits:     habits.Habits,
		tips:       tips.Tips,
		quizIndex:  make(map[string]*models.Quiz),
		badgeIndex: make(map[string]*models.Badge),
		habitIndex: make(map[string]*models.Habit),
	}

	for i := range c.quizzes {
		c.quizIndex[c.quizzes[i].ID] = &c.quizzes[i]
	}
	for i := range c.badges {
		c.badgeIndex[c.badges[i].ID] = &c.badges[i]
	}
	for i := range c.habits {
		c.habitIndex[c.habits[i].ID] = &c.habits[i]
	}

	utils.LogStartup("Catalog loaded: %d quizzes, %d badges, %d habits, %d tips",
		len(c.quizzes), len(c.badges), len(c.habits), len(c.tips))
	return c, nil
}

func (c *Catalog) Quizzes() []models.Quiz {
	return c.quizzes
}

func (c *Catalog) Quiz(id string) (*models.Quiz, bool) {
	quiz, ok := c.quizIndex[id]
	return quiz, ok
}

func (c *Catalog) QuizCount() int {
	return len(c.quizzes)
}

func (c *Catalog) QuizSummaries() []models.QuizSummary {
	summaries := make([]models.QuizSummary, 0, len(c.quizzes))
	for i := range c.quizzes {
		summaries = append(summaries, c.quizzes[i].Summary())
	}
	return summaries
}

func (c *Catalog) Badges() []models.Badge {
	return c.badges
}

func (c *Catalog) Badge(id string) (*models.Badge, bool) {
	badge, ok := c.badgeIndex[id]
	return badge, ok
}

func (c *Catalog) Habits() []models.Habit {
	return c.habits
}

func (c *Catalog) Habit(id string) (*models.Habit, bool) {
	habit, ok := c.habitIndex[id]
	return habit, ok
}

func (c *Catalog) HabitsByFrequency(frequency string) []models.Habit {
	var filtered []models.Habit
	for _, h := range c.habits {
		if h.Frequency == frequency {
			filtered = append(filtered, h)
		}
	}
	return filtered
}

// DefaultHabitMap builds the initial habit toggle state for a new profile:
// every catalog habit, all off
func (c *Catalog) DefaultHabitMap() map[string]bool {
	habits := make(map[string]bool, len(c.habits))
	for _, h := range c.habits {
		habits[h.ID] = false
	}
	return habits
}

func (c *Catalog) SecurityTips() []string {
	return c.tips
}

// TipOfTheDay picks a tip by day of year so every client shows the same tip
// on the same date
func (c *Catalog) TipOfTheDay(now time.Time) string {
	if len(c.tips) == 0 {
		return ""
	}
	return c.tips[now.YearDay()%len(c.tips)]
}
