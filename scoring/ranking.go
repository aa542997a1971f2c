package scoring

import (
	"cmp"
	"slices"

	"github.com/Omondi01/sciencefair-system/models"
)

// RankedProject is one fully judged project with its category rank and
// the points it earns for its school and geographic entities.
type RankedProject struct {
	Project      models.Project `json:"project"`
	ScoreA       float64        `json:"score_a"`
	ScoreBC      float64        `json:"score_bc"`
	TotalScore   float64        `json:"total_score"`
	CategoryRank int            `json:"category_rank"`
	Points       int            `json:"points"`
}

// RankedEntity is one school/geographic entity with its summed points.
// Parent groups counties under their region, sub-counties under their
// county and zones under their sub-county for hierarchical display.
type RankedEntity struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
	Rank   int    `json:"rank"`
	Parent string `json:"parent,omitempty"`
}

// RankingData is the full leaderboard for one level: per-category project
// ranks plus the school and geographic rollups.
type RankingData struct {
	Level      models.CompetitionLevel    `json:"level"`
	Categories map[string][]RankedProject `json:"categories"`

	Schools []RankedEntity `json:"schools"`
	Regions []RankedEntity `json:"regions"`

	CountiesByRegion    map[string][]RankedEntity `json:"counties_by_region"`
	SubCountiesByCounty map[string][]RankedEntity `json:"sub_counties_by_county"`
	ZonesBySubCounty    map[string][]RankedEntity `json:"zones_by_sub_county"`
}

// pointsForRank awards 4/3/2/1 points to the top four of a category and
// nothing below.
func pointsForRank(rank int) int {
	if rank <= 4 {
		return 5 - rank
	}
	return 0
}

// Rank computes the leaderboard for the given projects at a level.
// Projects that are not fully judged are excluded entirely, even when
// one of their sections carries a complete two-judge score.
//
// Ranks use the index-based competition rule: a score tying the
// preceding project inherits its rank, and the next distinct score takes
// index+1 (so ranks after a tie block may skip values). Downstream
// consumers depend on this exact behavior; do not swap in dense ranking.
func Rank(snap *Snapshot, projects []models.Project, level models.CompetitionLevel) RankingData {
	data := RankingData{
		Level:               level,
		Categories:          make(map[string][]RankedProject),
		CountiesByRegion:    make(map[string][]RankedEntity),
		SubCountiesByCounty: make(map[string][]RankedEntity),
		ZonesBySubCounty:    make(map[string][]RankedEntity),
	}

	for i := range projects {
		p := projects[i]
		score := snap.ComputeScores(p.ID, level)
		if !score.IsFullyJudged {
			continue
		}
		data.Categories[p.Category] = append(data.Categories[p.Category], RankedProject{
			Project:    p,
			ScoreA:     *score.ScoreA,
			ScoreBC:    *score.ScoreBC,
			TotalScore: score.Total,
		})
	}

	for category, ranked := range data.Categories {
		slices.SortStableFunc(ranked, func(a, b RankedProject) int {
			if c := cmp.Compare(b.TotalScore, a.TotalScore); c != 0 {
				return c
			}
			return cmp.Compare(a.Project.ID, b.Project.ID)
		})
		for i := range ranked {
			if i > 0 && ranked[i].TotalScore == ranked[i-1].TotalScore {
				ranked[i].CategoryRank = ranked[i-1].CategoryRank
			} else {
				ranked[i].CategoryRank = i + 1
			}
			ranked[i].Points = pointsForRank(ranked[i].CategoryRank)
		}
		data.Categories[category] = ranked
	}

	schools := newTally()
	regions := newTally()
	counties := newTally()
	subCounties := newTally()
	zones := newTally()
	for _, ranked := range data.Categories {
		for i := range ranked {
			p := &ranked[i].Project
			pts := ranked[i].Points
			schools.add(p.School, "", pts)
			regions.add(p.Region, "", pts)
			counties.add(p.County, p.Region, pts)
			subCounties.add(p.SubCounty, p.County, pts)
			zones.add(p.Zone, p.SubCounty, pts)
		}
	}

	data.Schools = schools.ranked()
	data.Regions = regions.ranked()
	data.CountiesByRegion = groupByParent(counties.ranked())
	data.SubCountiesByCounty = groupByParent(subCounties.ranked())
	data.ZonesBySubCounty = groupByParent(zones.ranked())
	return data
}

// tally accumulates points per entity name, remembering each entity's
// immediate parent for grouped display.
type tally struct {
	points  map[string]int
	parents map[string]string
}

func newTally() *tally {
	return &tally{points: make(map[string]int), parents: make(map[string]string)}
}

// add skips entities with no name: a project registered without a zone
// simply contributes nothing to zone standings.
func (t *tally) add(name, parent string, points int) {
	if name == "" {
		return
	}
	t.points[name] += points
	if parent != "" {
		t.parents[name] = parent
	}
}

// ranked returns the entities sorted by points descending (name ascending
// on equal points, for deterministic output) with ranks assigned under
// the same index-based tie rule as category ranking.
func (t *tally) ranked() []RankedEntity {
	entities := make([]RankedEntity, 0, len(t.points))
	for name, points := range t.points {
		entities = append(entities, RankedEntity{
			Name:   name,
			Points: points,
			Parent: t.parents[name],
		})
	}
	slices.SortFunc(entities, func(a, b RankedEntity) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	for i := range entities {
		if i > 0 && entities[i].Points == entities[i-1].Points {
			entities[i].Rank = entities[i-1].Rank
		} else {
			entities[i].Rank = i + 1
		}
	}
	return entities
}

func groupByParent(entities []RankedEntity) map[string][]RankedEntity {
	grouped := make(map[string][]RankedEntity)
	for _, e := range entities {
		grouped[e.Parent] = append(grouped[e.Parent], e)
	}
	return grouped
}
