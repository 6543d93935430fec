// Package insights computes derived analytics over an organization snapshot:
// per-user productivity scores, workload risk flags, and a rolling 7-day
// completion trend. Everything here is a pure function of its inputs.
package insights

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/gofrs/uuid"

	"taskforge/backend/internal/models"
)

// MemberTasks is one user's slice of an organization snapshot.
type MemberTasks struct {
	UserID uuid.UUID
	Name   string
	Tasks  []models.Task
}

type ProductivityEntry struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Total     int       `json:"total"`
	Completed int       `json:"completed"`
	Score     int       `json:"score"`
}

// Productivity scores each user as round(100 * completed / total), 0 for
// users with no assigned tasks. The result is sorted by score descending;
// ties keep snapshot order.
func Productivity(users []MemberTasks) []ProductivityEntry {
	entries := make([]ProductivityEntry, 0, len(users))
	for _, u := range users {
		total := len(u.Tasks)
		completed := 0
		for _, t := range u.Tasks {
			if t.Status == models.StatusCompleted {
				completed++
			}
		}
		score := 0
		if total > 0 {
			score = int(math.Round(float64(completed) / float64(total) * 100))
		}
		entries = append(entries, ProductivityEntry{
			ID:        u.UserID,
			Name:      u.Name,
			Total:     total,
			Completed: completed,
			Score:     score,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}

type RiskType string

const (
	RiskBurnout    RiskType = "Burnout Risk"
	RiskBottleneck RiskType = "Bottleneck"
)

type RiskEntry struct {
	Type    RiskType `json:"type"`
	User    string   `json:"user"`
	Details string   `json:"details"`
}

const (
	burnoutActiveThreshold  = 5
	bottleneckLateThreshold = 2
)

// Risks flags users with more than 5 active tasks (burnout) or more than 2
// overdue active tasks (bottleneck). Due dates compare by calendar day
// against referenceTime. A user can trigger zero, one, or both flags; flags
// are emitted in snapshot order, burnout before bottleneck per user.
func Risks(users []MemberTasks, referenceTime time.Time) []RiskEntry {
	today := truncateDay(referenceTime)

	risks := []RiskEntry{}
	for _, u := range users {
		active := 0
		late := 0
		for _, t := range u.Tasks {
			if t.Status == models.StatusCompleted {
				continue
			}
			active++
			if t.DueDate != nil && truncateDay(*t.DueDate).Before(today) {
				late++
			}
		}

		if active > burnoutActiveThreshold {
			risks = append(risks, RiskEntry{
				Type:    RiskBurnout,
				User:    u.Name,
				Details: fmt.Sprintf("%d active tasks", active),
			})
		}
		if late > bottleneckLateThreshold {
			risks = append(risks, RiskEntry{
				Type:    RiskBottleneck,
				User:    u.Name,
				Details: fmt.Sprintf("%d overdue tasks", late),
			})
		}
	}
	return risks
}

type TrendPoint struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
	Date  string `json:"date"`
}

// Trend buckets completion timestamps into the 7 calendar days ending at
// referenceTime, oldest day first. A completion belongs to a day when it
// falls inside [00:00:00, 24:00:00) local time.
func Trend(completions []time.Time, referenceTime time.Time) []TrendPoint {
	trend := make([]TrendPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		start := truncateDay(referenceTime.AddDate(0, 0, -i))
		end := start.AddDate(0, 0, 1)

		count := 0
		for _, c := range completions {
			if !c.Before(start) && c.Before(end) {
				count++
			}
		}

		trend = append(trend, TrendPoint{
			Day:   start.Format("Mon"),
			Count: count,
			Date:  start.Format("2006-01-02"),
		})
	}
	return trend
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
