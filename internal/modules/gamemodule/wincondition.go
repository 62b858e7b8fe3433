package gamemodule

// ConditionType classifies what a win condition counts
type ConditionType string

const (
	ConditionGenre    ConditionType = "genre"
	ConditionActor    ConditionType = "actor"
	ConditionDirector ConditionType = "director"
	ConditionWriter   ConditionType = "writer"
)

// WinCondition is one player's target: play TargetCount movies matching
// the condition value. Progress only ever increases. Not safe for
// unsynchronized concurrent use; the owning session serializes access.
type WinCondition struct {
	Type         ConditionType `json:"type"`
	Value        string        `json:"value"`
	TargetCount  int           `json:"target_count"`
	CurrentCount int           `json:"current_count"`
}

// NewWinCondition creates a win condition with the given target.
func NewWinCondition(conditionType ConditionType, value string, targetCount int) *WinCondition {
	if targetCount < 1 {
		targetCount = 1
	}
	return &WinCondition{
		Type:        conditionType,
		Value:       value,
		TargetCount: targetCount,
	}
}

// IncrementProgress records one more matching movie.
func (w *WinCondition) IncrementProgress() {
	w.CurrentCount++
}

// IsAchieved reports whether the target has been reached.
func (w *WinCondition) IsAchieved() bool {
	return w.CurrentCount >= w.TargetCount
}
