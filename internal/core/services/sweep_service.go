package services

import (
	"context"
	"log"
	"time"

	"maha-evoting/internal/adapters/persistence/models"
	"maha-evoting/internal/adapters/persistence/repositories"
	"maha-evoting/internal/core/domain"

	"github.com/robfig/cron/v3"
)

// sweepCaller is the system principal for scheduled transitions.
var sweepCaller = domain.Caller{
	SubjectID: "system:sweep",
	Role:      domain.RoleAdmin,
	Name:      "Election Sweep",
}

// SweepService moves elections through date-driven transitions on a
// schedule: upcoming elections whose window has opened become active,
// and active elections whose window has closed get their results
// declared. The stored status stays the single source of truth; read
// paths never recompute status from dates.
type SweepService struct {
	electionRepo repositories.ElectionRepository
	electionSvc  *ElectionService
	cron         *cron.Cron
	spec         string
}

// NewSweepService creates a new sweep service
func NewSweepService(electionRepo repositories.ElectionRepository, electionSvc *ElectionService, spec string) *SweepService {
	return &SweepService{
		electionRepo: electionRepo,
		electionSvc:  electionSvc,
		cron:         cron.New(),
		spec:         spec,
	}
}

// Start schedules the sweep
func (s *SweepService) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce(context.Background())
	}); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("🚀 Election sweep started [%s]", s.spec)
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish
func (s *SweepService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Election sweep stopped")
}

// RunOnce executes a single sweep pass. Exported so tests and admin
// tooling can trigger it directly.
func (s *SweepService) RunOnce(ctx context.Context) {
	now := time.Now()
	s.activateDue(ctx, now)
	s.declareExpired(ctx, now)
}

func (s *SweepService) activateDue(ctx context.Context, now time.Time) {
	due, err := s.electionRepo.FindDueUpcoming(ctx, now)
	if err != nil {
		log.Printf("❌ Sweep: listing due elections failed: %v", err)
		return
	}

	for _, election := range due {
		// Skip contests whose whole window already passed without ever
		// being activated; declaring them makes no sense.
		if election.EndDate.Before(now) && len(election.Candidates) == 0 {
			continue
		}
		if err := s.electionRepo.UpdateFields(ctx, election.ID, map[string]interface{}{
			"status": models.ElectionActive,
		}); err != nil {
			log.Printf("❌ Sweep: activating election %d failed: %v", election.ID, err)
			continue
		}
		log.Printf("✅ Sweep: election %q (%d) activated", election.Title, election.ID)
	}
}

func (s *SweepService) declareExpired(ctx context.Context, now time.Time) {
	expired, err := s.electionRepo.FindExpiredActive(ctx, now)
	if err != nil {
		log.Printf("❌ Sweep: listing expired elections failed: %v", err)
		return
	}

	for _, election := range expired {
		if len(election.Candidates) == 0 {
			// Nothing to declare; leave it for an admin to resolve.
			continue
		}
		out, err := s.electionSvc.DeclareResult(ctx, sweepCaller, election.ID)
		if err != nil {
			log.Printf("❌ Sweep: declaring election %d failed: %v", election.ID, err)
			continue
		}
		log.Printf("✅ Sweep: election %q (%d) completed, winner %s",
			election.Title, election.ID, out.Winner.Name)
	}
}
