package services

import (
	"context"
	"fmt"

	"maha-evoting/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// DashboardService computes the read-only analytics projection over the
// election and voter collections. Stateless; everything is recomputed
// on read, and empty collections yield zeroed aggregates.
type DashboardService struct {
	db *gorm.DB
	// turnoutBaseline normalizes per-region turnout percentages.
	turnoutBaseline int64
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB, turnoutBaseline int64) *DashboardService {
	if turnoutBaseline <= 0 {
		turnoutBaseline = 100000
	}
	return &DashboardService{db: db, turnoutBaseline: turnoutBaseline}
}

// PartyShare represents one party's slice of the total vote
type PartyShare struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// RegionTurnout represents normalized turnout for one region
type RegionTurnout struct {
	Name    string `json:"name"`
	Turnout int64  `json:"turnout"`
}

// RegionOverview represents a per-election region card
type RegionOverview struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Turnout     int64  `json:"turnout"`
	Winner      string `json:"winner"`
}

// OverviewData represents the admin dashboard payload
type OverviewData struct {
	ActiveElections    int64 `json:"active_elections"`
	UpcomingElections  int64 `json:"upcoming_elections"`
	CompletedElections int64 `json:"completed_elections"`
	TotalVotes         int64 `json:"total_votes"`

	VoteShare       []PartyShare     `json:"vote_share"`
	TurnoutByRegion []RegionTurnout  `json:"turnout_by_region"`
	Regions         []RegionOverview `json:"regions"`
}

// Overview computes the admin dashboard aggregates. The stored status
// field is authoritative for the per-status counts; dates are never
// consulted here.
func (s *DashboardService) Overview(ctx context.Context) (*OverviewData, error) {
	data := &OverviewData{
		VoteShare:       []PartyShare{},
		TurnoutByRegion: []RegionTurnout{},
		Regions:         []RegionOverview{},
	}

	s.db.WithContext(ctx).Model(&models.Election{}).
		Where("status = ?", models.ElectionActive).Count(&data.ActiveElections)
	s.db.WithContext(ctx).Model(&models.Election{}).
		Where("status = ?", models.ElectionUpcoming).Count(&data.UpcomingElections)
	s.db.WithContext(ctx).Model(&models.Election{}).
		Where("status = ?", models.ElectionCompleted).Count(&data.CompletedElections)

	var elections []*models.Election
	if err := s.db.WithContext(ctx).
		Preload("Candidates", func(db *gorm.DB) *gorm.DB {
			return db.Order("candidates.position ASC")
		}).
		Find(&elections).Error; err != nil {
		return nil, err
	}

	shareByParty := map[string]int64{}
	partyOrder := []string{}

	for _, election := range elections {
		var electionVotes int64
		for _, candidate := range election.Candidates {
			electionVotes += candidate.Votes
			if _, seen := shareByParty[candidate.Party]; !seen {
				partyOrder = append(partyOrder, candidate.Party)
			}
			shareByParty[candidate.Party] += candidate.Votes
		}
		data.TotalVotes += electionVotes

		data.TurnoutByRegion = append(data.TurnoutByRegion, RegionTurnout{
			Name:    election.Region,
			Turnout: s.normalizeTurnout(electionVotes),
		})

		winner := "TBD"
		if election.Winner != nil {
			winner = *election.Winner
		} else if electionVotes > 0 {
			// Undeclared but already polling: show the leading party.
			winner = pickWinner(election.Candidates).Party
		}

		data.Regions = append(data.Regions, RegionOverview{
			ID:          election.ID,
			Name:        election.Region,
			Description: fmt.Sprintf("%s constituency election", election.Title),
			Turnout:     s.normalizeTurnout(electionVotes),
			Winner:      winner,
		})
	}

	for _, party := range partyOrder {
		data.VoteShare = append(data.VoteShare, PartyShare{
			Name:  party,
			Value: shareByParty[party],
		})
	}

	return data, nil
}

// normalizeTurnout converts a raw vote count to a percentage of the
// configured baseline, capped at 100.
func (s *DashboardService) normalizeTurnout(votes int64) int64 {
	if votes <= 0 {
		return 0
	}
	turnout := votes * 100 / s.turnoutBaseline
	if turnout > 100 {
		turnout = 100
	}
	return turnout
}

// DeclaredResults returns completed elections with winners, newest first.
func (s *DashboardService) DeclaredResults(ctx context.Context) ([]*models.Election, error) {
	var elections []*models.Election
	err := s.db.WithContext(ctx).
		Preload("Candidates", func(db *gorm.DB) *gorm.DB {
			return db.Order("candidates.position ASC")
		}).
		Where("status = ?", models.ElectionCompleted).
		Order("created_at DESC").
		Find(&elections).Error
	return elections, err
}
