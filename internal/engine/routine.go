package engine

// routine is the fixed 11-day cycle. It is never modified at runtime.
var routine = []RoutineStep{
	{DayNumber: "1", Description: "Exfoliation", TargetTypes: []ProductType{TypeAcid, TypeCleanser}, Color: "#FF9500"},
	{DayNumber: "2", Description: "Recovery", TargetTypes: []ProductType{TypeRecovery}, Color: "#00D2BE"},
	{DayNumber: "3", Description: "Recovery", TargetTypes: []ProductType{TypeRecovery}, Color: "#00D2BE"},
	{DayNumber: "4", Description: "Exfoliation", TargetTypes: []ProductType{TypeAcid}, Color: "#FF9500"},
	{DayNumber: "5", Description: "Recovery", TargetTypes: []ProductType{TypeRecovery}, Color: "#00D2BE"},
	{DayNumber: "6", Description: "Retinol", TargetTypes: []ProductType{TypeRetinol}, Color: "#AF52DE"},
	{DayNumber: "7", Description: "Recovery", TargetTypes: []ProductType{TypeRecovery}, Color: "#00D2BE"},
	{DayNumber: "8", Description: "Recovery", TargetTypes: []ProductType{TypeRecovery}, Color: "#00D2BE"},
	{DayNumber: "9", Description: "Exfoliation", TargetTypes: []ProductType{TypeAcid}, Color: "#FF9500"},
	{DayNumber: "10", Description: "Recovery", TargetTypes: []ProductType{TypeRecovery}, Color: "#00D2BE"},
	{DayNumber: "11", Description: "Peeling", TargetTypes: []ProductType{TypePeeling}, Color: "#FF3B30"},
}

// StepCount returns the cycle length
func StepCount() int {
	return len(routine)
}

// Routine returns a copy of the full cycle in order
func Routine() []RoutineStep {
	steps := make([]RoutineStep, len(routine))
	for i, s := range routine {
		steps[i] = copyStep(s)
	}
	return steps
}

// StepForOffset returns the step active daysPassed days after the start date.
// Negative offsets (start date in the future) map to the first step.
func StepForOffset(daysPassed int) RoutineStep {
	index := 0
	if daysPassed > 0 {
		index = daysPassed % len(routine)
	}
	return copyStep(routine[index])
}

func copyStep(s RoutineStep) RoutineStep {
	s.TargetTypes = append([]ProductType(nil), s.TargetTypes...)
	return s
}
