package memory

import (
	"time"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/matchup"
)

const SeedSeason = 2025

// SeedMatchups is a demo week one slate so a fresh memory-backed instance
// has something to pick against.
func SeedMatchups() []matchup.Matchup {
	kickoff := time.Date(SeedSeason, time.August, 30, 19, 30, 0, 0, time.UTC)
	return []matchup.Matchup{
		{
			ID:        "2025-w1-uga-clem",
			Season:    SeedSeason,
			Week:      1,
			HomeTeam:  "Georgia",
			AwayTeam:  "Clemson",
			Spread:    -13.5,
			KickoffAt: kickoff,
			Status:    matchup.StatusScheduled,
			UpdatedAt: kickoff.Add(-7 * 24 * time.Hour),
		},
		{
			ID:        "2025-w1-bama-wisc",
			Season:    SeedSeason,
			Week:      1,
			HomeTeam:  "Alabama",
			AwayTeam:  "Wisconsin",
			Spread:    -16,
			KickoffAt: kickoff.Add(3 * time.Hour),
			Status:    matchup.StatusScheduled,
			UpdatedAt: kickoff.Add(-7 * 24 * time.Hour),
		},
		{
			ID:        "2025-w1-osu-texas",
			Season:    SeedSeason,
			Week:      1,
			HomeTeam:  "Ohio State",
			AwayTeam:  "Texas",
			Spread:    -2.5,
			KickoffAt: kickoff.Add(24 * time.Hour),
			Status:    matchup.StatusScheduled,
			UpdatedAt: kickoff.Add(-7 * 24 * time.Hour),
		},
		{
			ID:        "2025-w1-lsu-usc",
			Season:    SeedSeason,
			Week:      1,
			HomeTeam:  "LSU",
			AwayTeam:  "USC",
			Spread:    3,
			KickoffAt: kickoff.Add(26 * time.Hour),
			Status:    matchup.StatusScheduled,
			UpdatedAt: kickoff.Add(-7 * 24 * time.Hour),
		},
		{
			ID:        "2025-w1-mich-fsu",
			Season:    SeedSeason,
			Week:      1,
			HomeTeam:  "Michigan",
			AwayTeam:  "Florida State",
			Spread:    -6.5,
			KickoffAt: kickoff.Add(27 * time.Hour),
			Status:    matchup.StatusScheduled,
			UpdatedAt: kickoff.Add(-7 * 24 * time.Hour),
		},
		{
			ID:        "2025-w1-nd-tamu",
			Season:    SeedSeason,
			Week:      1,
			HomeTeam:  "Notre Dame",
			AwayTeam:  "Texas A&M",
			Spread:    -4,
			KickoffAt: kickoff.Add(28 * time.Hour),
			Status:    matchup.StatusScheduled,
			UpdatedAt: kickoff.Add(-7 * 24 * time.Hour),
		},
	}
}
