// Package points holds the fixed championship point tables.
package points

import "github.com/okian/podium/internal/domain/model"

// Point tables indexed by finishing position - 1.
var (
	grandPrixTable = [...]int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}
	sprintTable    = [...]int{8, 7, 6, 5, 4, 3, 2, 1}
)

// FastestLapBonus is awarded on top of finishing points when eligible.
const FastestLapBonus = 1

// FastestLapCutoff is the worst position still eligible for the fastest-lap bonus.
const FastestLapCutoff = 10

// ForPosition returns the base points for a finishing position in an event
// of the given kind. Positions outside the table score 0.
func ForPosition(position int, kind model.EventKind) int {
	table := grandPrixTable[:]
	if kind == model.Sprint {
		table = sprintTable[:]
	}
	if position < 1 || position > len(table) {
		return 0
	}
	return table[position-1]
}

// Paying returns how many positions score in an event of the given kind.
func Paying(kind model.EventKind) int {
	if kind == model.Sprint {
		return len(sprintTable)
	}
	return len(grandPrixTable)
}
