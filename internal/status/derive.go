// Package status computes the displayed pipeline stage of a project from
// its optimization records and the viewer's history. The status is derived
// on every display, never stored. This is the single source of truth for a
// rule that was previously copy-pasted across display call sites.
package status

import (
	"time"

	"salescockpit/internal/models"
)

// DerivedStatus is the computed pipeline stage of a project.
type DerivedStatus string

// Pipeline stages, ordered Neu < Offen < Pruefung < Validierung < Abgeschlossen.
const (
	Neu           DerivedStatus = "Neu"
	Offen         DerivedStatus = "Offen"
	Pruefung      DerivedStatus = "Prüfung"
	Validierung   DerivedStatus = "Validierung"
	Abgeschlossen DerivedStatus = "Abgeschlossen"
)

// Lifecycle states of a candidate product attached to a project. Distinct
// from the project's DerivedStatus.
const (
	LifecycleIdentified = "Identifiziert"
	LifecycleProposed   = "Vorgeschlagen"
	LifecycleAccepted   = "Akzeptiert"
	LifecycleRegistered = "Registriert"
	LifecycleRejected   = "Abgelehnt"
)

// How long a never-viewed project counts as new.
const freshnessWindow = 7 * 24 * time.Hour

var statusRank = map[DerivedStatus]int{
	Neu:           0,
	Offen:         1,
	Pruefung:      2,
	Validierung:   3,
	Abgeschlossen: 4,
}

// Rank returns the position of s in the pipeline order, or -1 for an
// unknown status.
func Rank(s DerivedStatus) int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return -1
}

// Derive computes the project's current pipeline stage. The rules run
// top-to-bottom and short-circuit; their order is load-bearing — a project
// with one Identifiziert and one Vorgeschlagen candidate lands on Prüfung,
// not Validierung, because the Identifiziert rule runs first.
func Derive(meta models.ProjectMeta, records []models.OptimizationRecord) DerivedStatus {
	return DeriveAt(meta, records, time.Now())
}

// DeriveAt is Derive with an explicit evaluation time for the freshness
// window.
func DeriveAt(meta models.ProjectMeta, records []models.OptimizationRecord, now time.Time) DerivedStatus {
	// 1. Manual override: the highest manually-set status wins. Neu is
	// skipped — a project can never be manually forced back to new.
	if manual, ok := highestManualStatus(records); ok {
		return manual
	}

	// 2. Freshness: never viewed and created within the window.
	if !meta.Viewed && now.Sub(meta.CreatedAt) < freshnessWindow {
		return Neu
	}

	// 3. No optimization records at all.
	if len(records) == 0 {
		return Offen
	}

	// 4. Records exist but none carries a candidate product.
	candidates := candidateStatuses(records)
	if !hasCandidates(records) {
		return Offen
	}

	// 5. Candidates present, no lifecycle status set on any of them.
	if len(candidates) == 0 {
		return Pruefung
	}

	// 6. Any candidate still Identifiziert.
	for _, s := range candidates {
		if s == LifecycleIdentified {
			return Pruefung
		}
	}

	// 7. Any candidate Vorgeschlagen.
	for _, s := range candidates {
		if s == LifecycleProposed {
			return Validierung
		}
	}

	// 8. Every candidate Akzeptiert or Registriert.
	done := true
	for _, s := range candidates {
		if s != LifecycleAccepted && s != LifecycleRegistered {
			done = false
			break
		}
	}
	if done {
		return Abgeschlossen
	}

	// 9. Fallback.
	return Offen
}

// highestManualStatus collects manually-set overall statuses other than Neu
// and returns the highest-ranked one.
func highestManualStatus(records []models.OptimizationRecord) (DerivedStatus, bool) {
	best := DerivedStatus("")
	found := false
	for _, rec := range records {
		s := DerivedStatus(rec.OptimizationStatus)
		if s == "" || s == Neu {
			continue
		}
		if _, known := statusRank[s]; !known {
			continue
		}
		if !found || statusRank[s] > statusRank[best] {
			best = s
			found = true
		}
	}
	return best, found
}

// hasCandidates reports whether any record names a cross-sell or
// alternative product.
func hasCandidates(records []models.OptimizationRecord) bool {
	for _, rec := range records {
		if rec.CrossSellProduct != "" || rec.AlternativeProduct != "" {
			return true
		}
	}
	return false
}

// candidateStatuses returns the non-empty lifecycle statuses of all
// candidates across all records.
func candidateStatuses(records []models.OptimizationRecord) []string {
	var statuses []string
	for _, rec := range records {
		if rec.CrossSellProduct != "" && rec.CrossSellStatus != "" {
			statuses = append(statuses, rec.CrossSellStatus)
		}
		if rec.AlternativeProduct != "" && rec.AlternativeStatus != "" {
			statuses = append(statuses, rec.AlternativeStatus)
		}
	}
	return statuses
}
