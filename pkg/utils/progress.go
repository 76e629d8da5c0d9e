package utils

import "github.com/command-deck/command-deck-backend/app/models"

// Progress returns the difficulty-weighted completion percentage in [0,100].
// Unknown difficulties (0) contribute no weight. An empty task list or a
// zero total weight yields 0.
func Progress(tasks []models.Task) float64 {
	var total, completed int
	for _, t := range tasks {
		total += t.Difficulty
		if t.Completed {
			completed += t.Difficulty
		}
	}
	if total == 0 {
		return 0
	}
	return 100 * float64(completed) / float64(total)
}

// IsCompleted reports whether every task's difficulty contributes to the
// completed sum. Missions with no tasks are never completed.
func IsCompleted(tasks []models.Task) bool {
	if len(tasks) == 0 {
		return false
	}
	var total, completed int
	for _, t := range tasks {
		total += t.Difficulty
		if t.Completed {
			completed += t.Difficulty
		}
	}
	return completed == total
}

// Aggregate reduces a mission collection to dashboard counts. A nil slice is
// treated as empty.
func Aggregate(missions []models.Mission) models.MissionSummary {
	s := models.MissionSummary{}
	for _, m := range missions {
		s.TotalMissions++
		if IsCompleted(m.Tasks) {
			s.CompletedMissions++
		}
		s.TotalObjectives += len(m.Tasks)
	}
	return s
}
