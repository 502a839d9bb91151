package model

import "testing"

func TestValidIncidentTransition(t *testing.T) {
	allowed := map[[2]string]bool{
		{IncidentReported, IncidentUnderReview}:    true,
		{IncidentReported, IncidentClosed}:         true,
		{IncidentUnderReview, IncidentActioned}:    true,
		{IncidentUnderReview, IncidentClosed}:      true,
		{IncidentActioned, IncidentClosed}:         true,
		{IncidentReported, IncidentActioned}:       false,
		{IncidentActioned, IncidentUnderReview}:    false,
		{IncidentClosed, IncidentReported}:         false,
		{IncidentClosed, IncidentClosed}:           false,
		{IncidentUnderReview, IncidentUnderReview}: false,
	}
	for pair, want := range allowed {
		if got := ValidIncidentTransition(pair[0], pair[1]); got != want {
			t.Errorf("ValidIncidentTransition(%q, %q) = %v, want %v", pair[0], pair[1], got, want)
		}
	}
}

func TestValidCaseTransition(t *testing.T) {
	allowed := map[[2]string]bool{
		{CaseOpen, CaseInProgress}:     true,
		{CaseOpen, CaseResolved}:       true,
		{CaseInProgress, CaseResolved}: true,
		{CaseInProgress, CaseOpen}:     false,
		{CaseResolved, CaseInProgress}: false,
		{CaseResolved, CaseOpen}:       false,
		{CaseOpen, CaseOpen}:           false,
	}
	for pair, want := range allowed {
		if got := ValidCaseTransition(pair[0], pair[1]); got != want {
			t.Errorf("ValidCaseTransition(%q, %q) = %v, want %v", pair[0], pair[1], got, want)
		}
	}
}
