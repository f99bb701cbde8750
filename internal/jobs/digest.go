// Package jobs runs the scheduled background work of the API server.
package jobs

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/terraincognita07/vitalink/internal/metrics"
	"github.com/terraincognita07/vitalink/internal/services"
)

type DigestSource interface {
	AdherenceDigest() ([]services.AdherenceSummary, error)
}

// DoctorDigest groups the patients of one doctor that missed a dose in the
// trailing week.
type DoctorDigest struct {
	DoctorID uint
	Patients []services.AdherenceSummary
}

type DigestReport struct {
	RanAt                    time.Time
	PatientsWithRecentMissed int
	Doctors                  []DoctorDigest
}

// AdherenceDigestJob logs, once per doctor per day, which assigned patients
// have recent missed doses.
type AdherenceDigestJob struct {
	source    DigestSource
	logger    zerolog.Logger
	location *time.Location
	now      func() time.Time

	mu          sync.Mutex
	sentDigests map[string]time.Time
}

func NewAdherenceDigestJob(source DigestSource, logger zerolog.Logger, location *time.Location) *AdherenceDigestJob {
	if location == nil {
		location = time.UTC
	}
	return &AdherenceDigestJob{
		source:      source,
		logger:      logger.With().Str("component", "adherence_digest").Logger(),
		location:    location,
		now:         time.Now,
		sentDigests: make(map[string]time.Time),
	}
}

func (job *AdherenceDigestJob) WithClock(now func() time.Time) *AdherenceDigestJob {
	if now != nil {
		job.now = now
	}
	return job
}

func (job *AdherenceDigestJob) Run() (DigestReport, error) {
	summaries, err := job.source.AdherenceDigest()
	if err != nil {
		return DigestReport{}, err
	}

	now := job.now().In(job.location)
	today := now.Format("2006-01-02")
	report := DigestReport{
		RanAt:                    now,
		PatientsWithRecentMissed: len(summaries),
		Doctors:                  groupByDoctor(summaries),
	}

	for _, digest := range report.Doctors {
		key := fmt.Sprintf("digest:%d:%s", digest.DoctorID, today)
		if !job.shouldSend(key, now) {
			continue
		}
		for _, patient := range digest.Patients {
			job.logger.Warn().
				Uint("doctor_user_id", digest.DoctorID).
				Uint("patient_id", patient.PatientID).
				Str("patient_name", patient.PatientName).
				Strs("recent_missed", services.FormatDates(patient.RecentMissed)).
				Int("older_missed", patient.OlderMissed).
				Msg("patient missed recent doses")
		}
	}

	metrics.PatientsWithRecentMissed.Set(float64(report.PatientsWithRecentMissed))
	metrics.DigestLastRun.Set(float64(now.Unix()))
	job.logger.Info().
		Int("patients_with_recent_missed", report.PatientsWithRecentMissed).
		Int("doctors", len(report.Doctors)).
		Msg("adherence digest completed")

	return report, nil
}

func (job *AdherenceDigestJob) shouldSend(key string, now time.Time) bool {
	job.mu.Lock()
	defer job.mu.Unlock()

	if sentAt, ok := job.sentDigests[key]; ok && sameDay(sentAt, now) {
		return false
	}

	job.sentDigests[key] = now
	if len(job.sentDigests) > 500 {
		job.sentDigests = map[string]time.Time{key: now}
	}
	return true
}

// groupByDoctor orders doctors by id; unassigned patients fall under id 0.
func groupByDoctor(summaries []services.AdherenceSummary) []DoctorDigest {
	byDoctor := make(map[uint][]services.AdherenceSummary)
	for _, summary := range summaries {
		byDoctor[summary.AssignedDoctorID] = append(byDoctor[summary.AssignedDoctorID], summary)
	}

	digests := make([]DoctorDigest, 0, len(byDoctor))
	for doctorID, patients := range byDoctor {
		digests = append(digests, DoctorDigest{DoctorID: doctorID, Patients: patients})
	}
	sort.Slice(digests, func(i, j int) bool {
		return digests[i].DoctorID < digests[j].DoctorID
	})
	return digests
}

func sameDay(a time.Time, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
