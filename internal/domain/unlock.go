package domain

// NextLevel decides whether completing completedLevel moves a user forward
// from currentLevel. It advances by exactly one level and only when the
// completed level is at or ahead of the current one, so completion checks
// that fire late for an already-passed level never regress or double-advance.
func NextLevel(currentLevel, completedLevel int) (int, bool) {
	if completedLevel < currentLevel {
		return currentLevel, false
	}
	return completedLevel + 1, true
}
