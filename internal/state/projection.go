package state

import (
	"strings"

	"github.com/rescueworks/rescuetui/internal/rescue"
)

// StatusAll is the status filter sentinel that matches every pet.
const StatusAll = "all"

// statusFilterCycle is the order the dashboard steps through with one key.
var statusFilterCycle = []string{
	StatusAll,
	rescue.PetAvailable,
	rescue.PetInFoster,
	rescue.PetPending,
	rescue.PetAdopted,
}

// NextStatusFilter returns the filter after current in the cycle.
func NextStatusFilter(current string) string {
	for i, s := range statusFilterCycle {
		if s == current {
			return statusFilterCycle[(i+1)%len(statusFilterCycle)]
		}
	}
	return StatusAll
}

// FilterPets keeps pets whose name or species contains search
// (case-insensitive) and whose status equals status, unless status is
// StatusAll. An empty search matches everything.
func FilterPets(pets []rescue.Pet, search, status string) []rescue.Pet {
	if len(pets) == 0 {
		return nil
	}
	needle := strings.ToLower(search)
	out := make([]rescue.Pet, 0, len(pets))
	for _, pet := range pets {
		if !matchesText(pet, needle) {
			continue
		}
		if status != StatusAll && status != "" && pet.Status != status {
			continue
		}
		out = append(out, pet)
	}
	return out
}

func matchesText(pet rescue.Pet, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(pet.Name), needle) ||
		strings.Contains(strings.ToLower(pet.Species), needle)
}

// Stats are the dashboard's headline counters.
type Stats struct {
	TotalDonations      float64
	AvailablePets       int
	PendingApplications int
	UrgentTasks         int
}

// ComputeStats derives the dashboard counters from fetched snapshots.
func ComputeStats(donations rescue.DonationsSummary, byStatus []rescue.StatusCount, apps []rescue.Application, tasks []rescue.Task) Stats {
	stats := Stats{TotalDonations: donations.Total()}
	for _, bucket := range byStatus {
		if bucket.Status == rescue.PetAvailable {
			stats.AvailablePets = bucket.Count
			break
		}
	}
	for _, app := range apps {
		if app.Status == rescue.ApplicationSubmitted || app.Status == rescue.ApplicationUnderReview {
			stats.PendingApplications++
		}
	}
	for _, task := range tasks {
		if task.Priority == rescue.PriorityUrgent && task.Status != rescue.TaskCompleted {
			stats.UrgentTasks++
		}
	}
	return stats
}
