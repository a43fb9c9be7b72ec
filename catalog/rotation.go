package catalog

import (
	"time"

	"cyberquest-api/models"
)

// The habit rotation must produce the same selection for every call within a
// calendar period, on every platform, with no scheduler behind it. It uses a
// small linear congruential generator over integer arithmetic only; the
// constants match the mobile client's shuffle so both sides agree on what
// "today's habits" means.
const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// RotationCounts configures how many habits of each frequency make up the
// daily view
type RotationCounts struct {
	Daily   int
	Monthly int
	Yearly  int
}

// DefaultRotationCounts is the 3+2+1 mix the app ships with
var DefaultRotationCounts = RotationCounts{Daily: 3, Monthly: 2, Yearly: 1}

type lcg struct {
	seed int64
}

func (r *lcg) next() int64 {
	r.seed = (r.seed*lcgMultiplier + lcgIncrement) % lcgModulus
	return r.seed
}

// intn maps the current state onto [0, n). Equivalent to
// floor(seed/modulus * n) but kept in integers so the result is identical
// across platforms.
func (r *lcg) intn(n int) int {
	return int(r.next() * int64(n) / lcgModulus)
}

// SelectForPeriod deterministically picks up to count habits from pool using a
// seeded Fisher-Yates shuffle. Identical (pool, seed, count) inputs yield an
// identical ordered selection.
func SelectForPeriod(pool []models.Habit, periodSeed int64, count int) []models.Habit {
	shuffled := make([]models.Habit, len(pool))
	copy(shuffled, pool)

	r := &lcg{seed: periodSeed}
	for i := len(shuffled) - 1; i > 0; i-- {
		j := r.intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}

// DailySeed derives the rotation seed for a calendar day
func DailySeed(t time.Time) int64 {
	return int64(t.Year())*10000 + int64(t.Month())*100 + int64(t.Day())
}

// MonthlySeed derives the rotation seed for a calendar month
func MonthlySeed(t time.Time) int64 {
	return int64(t.Year())*100 + int64(t.Month())
}

// YearlySeed derives the rotation seed for a calendar year
func YearlySeed(t time.Time) int64 {
	return int64(t.Year())
}

// DailyHabits returns the day's selection from the daily-frequency pool
func (c *Catalog) DailyHabits(t time.Time, count int) []models.Habit {
	return SelectForPeriod(c.HabitsByFrequency(models.FrequencyDaily), DailySeed(t), count)
}

// MonthlyHabits returns the month's selection from the monthly-frequency pool
func (c *Catalog) MonthlyHabits(t time.Time, count int) []models.Habit {
	return SelectForPeriod(c.HabitsByFrequency(models.FrequencyMonthly), MonthlySeed(t), count)
}

// YearlyHabits returns the year's selection from the yearly-frequency pool
func (c *Catalog) YearlyHabits(t time.Time, count int) []models.Habit {
	return SelectForPeriod(c.HabitsByFrequency(models.FrequencyYearly), YearlySeed(t), count)
}

// TodaysHabits concatenates the three per-frequency selections. The three
// draws are independent: each pool gets its own seed.
func (c *Catalog) TodaysHabits(t time.Time, counts RotationCounts) []models.Habit {
	habits := c.DailyHabits(t, counts.Daily)
	habits = append(habits, c.MonthlyHabits(t, counts.Monthly)...)
	habits = append(habits, c.YearlyHabits(t, counts.Yearly)...)
	return habits
}
