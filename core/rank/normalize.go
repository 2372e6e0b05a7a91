package rank

import "fmt"

// ToSortedList converts a ranking map to its descending sorted list form.
func ToSortedList(ranking RankingMap) RankingList {
	list := make(RankingList, 0, len(ranking))
	for variable, score := range ranking {
		list = append(list, Score{Variable: variable, Value: score})
	}
	sortScores(list)
	return list
}

// SuppressAndRenormalize restricts a ranking to the given variable subset
// and rescales the kept scores so they sum to 1 again. It is used to strip
// dummy nodes out of a backward-transformed ranking while preserving the
// relative proportions among the real variables. Every requested variable
// must be present in the ranking.
func SuppressAndRenormalize(ranking RankingMap, keep []string) (RankingList, error) {
	kept := make(RankingMap, len(keep))
	total := 0.0
	for _, variable := range keep {
		score, ok := ranking[variable]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingVariable, variable)
		}
		kept[variable] = score
		total += score
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: kept scores sum to zero", ErrDegenerateInput)
	}
	list := make(RankingList, 0, len(kept))
	for variable, score := range kept {
		list = append(list, Score{Variable: variable, Value: score / total})
	}
	sortScores(list)
	return list, nil
}
