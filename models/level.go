package models

import "fmt"

// CompetitionLevel represents one tier of the competition ladder,
// corresponding to the ENUM in the database.
type CompetitionLevel string

const (
	LevelSubCounty CompetitionLevel = "sub_county"
	LevelCounty    CompetitionLevel = "county"
	LevelRegional  CompetitionLevel = "regional"
	LevelNational  CompetitionLevel = "national"
)

// levelOrder fixes the ladder: projects only ever move up this list.
var levelOrder = []CompetitionLevel{
	LevelSubCounty,
	LevelCounty,
	LevelRegional,
	LevelNational,
}

// LevelRank returns the position of a level on the ladder (0-based).
// Unknown levels rank below Sub-County.
func LevelRank(l CompetitionLevel) int {
	for i, lvl := range levelOrder {
		if lvl == l {
			return i
		}
	}
	return -1
}

// NextLevel returns the level one step up the ladder. ok is false for
// National, which has no next level.
func NextLevel(l CompetitionLevel) (next CompetitionLevel, ok bool) {
	rank := LevelRank(l)
	if rank < 0 || rank >= len(levelOrder)-1 {
		return "", false
	}
	return levelOrder[rank+1], true
}

// ParseLevel validates a level received from the outside (URL, JSON).
func ParseLevel(s string) (CompetitionLevel, error) {
	l := CompetitionLevel(s)
	if LevelRank(l) < 0 {
		return "", fmt.Errorf("unknown competition level %q", s)
	}
	return l, nil
}

func (l CompetitionLevel) String() string { return string(l) }
