// Package triage holds the symptom-scoring and medication-interaction
// heuristics. Both are deliberately simple keyword rules; they advise, they
// do not diagnose.
package triage

import "strings"

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

type Profile struct {
	Age        int    `json:"age"`
	Conditions string `json:"conditions"`
}

type Assessment struct {
	Urgency         Urgency `json:"urgency"`
	SuggestedClinic string  `json:"suggested_clinic"`
	EstimatedWait   string  `json:"estimated_wait"`
}

var symptomWeights = map[string]int{
	"chest pain":  3,
	"breathless":  2,
	"bleeding":    2,
	"faint":       2,
	"fever":       1,
	"cough":       1,
	"dehydration": 2,
}

// Assess scores free-text symptoms against the keyword table, bumping the
// score for elderly and pregnant patients.
func Assess(symptoms string, profile Profile) Assessment {
	text := strings.ToLower(symptoms)

	score := 0
	for keyword, weight := range symptomWeights {
		if strings.Contains(text, keyword) {
			score += weight
		}
	}
	if profile.Age >= 65 {
		score++
	}
	if strings.Contains(strings.ToLower(profile.Conditions), "pregnan") {
		score++
	}

	urgency := UrgencyLow
	switch {
	case score >= 4:
		urgency = UrgencyHigh
	case score >= 2:
		urgency = UrgencyMedium
	}

	clinic := "General"
	if strings.Contains(text, "chest") {
		clinic = "Emergency / GP"
	} else if strings.Contains(text, "cough") {
		clinic = "GP / Respiratory"
	}

	wait := "60-120 min"
	switch urgency {
	case UrgencyHigh:
		wait = "10-20 min"
	case UrgencyMedium:
		wait = "30-60 min"
	}

	return Assessment{Urgency: urgency, SuggestedClinic: clinic, EstimatedWait: wait}
}

type Interaction struct {
	Drugs      []string `json:"drugs"`
	Risk       string   `json:"risk"`
	Effect     string   `json:"effect"`
	Suggestion string   `json:"suggestion"`
}

type MedCheckResult struct {
	Safe                bool          `json:"safe"`
	Interactions        []Interaction `json:"interactions"`
	SouthAfricaSpecific bool          `json:"south_africa_specific"`
}

var nsaids = map[string]bool{"ibuprofen": true, "aspirin": true, "naproxen": true}

// CheckMedication screens a new medication against the patient's current
// list and conditions using the known interaction table.
func CheckMedication(currentMeds []string, newMed string, conditions []string) MedCheckResult {
	lowerMeds := make(map[string]bool, len(currentMeds))
	for _, m := range currentMeds {
		lowerMeds[strings.ToLower(strings.TrimSpace(m))] = true
	}
	lowerNew := strings.ToLower(strings.TrimSpace(newMed))

	var interactions []Interaction

	if lowerMeds["warfarin"] && nsaids[lowerNew] {
		interactions = append(interactions, Interaction{
			Drugs:      []string{"Warfarin", newMed},
			Risk:       "high",
			Effect:     "Increased bleeding risk",
			Suggestion: "Consider paracetamol (acetaminophen) and consult your clinician.",
		})
	}

	hasAsthma := false
	for _, c := range conditions {
		if strings.Contains(strings.ToLower(c), "asthma") {
			hasAsthma = true
			break
		}
	}
	if hasAsthma && strings.Contains(lowerNew, "propranolol") {
		interactions = append(interactions, Interaction{
			Drugs:      []string{newMed},
			Risk:       "medium",
			Effect:     "May worsen bronchospasm in asthma",
			Suggestion: "Ask about cardioselective alternatives or non-pharmacological options.",
		})
	}

	return MedCheckResult{
		Safe:                len(interactions) == 0,
		Interactions:        interactions,
		SouthAfricaSpecific: true,
	}
}
