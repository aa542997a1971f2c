package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Omondi01/sciencefair-system/models"
)

func TestRank_CategoryTieTakesIndexRank(t *testing.T) {
	level := models.LevelSubCounty

	// Five fully judged Physics projects with totals 90, 85, 85, 70, 60.
	// Part A carries the whole difference; Part B & C is a flat 0-spread.
	totals := []float64{90, 85, 85, 70, 60}
	var projects []models.Project
	var assignments []models.JudgeAssignment
	for i, total := range totals {
		id := i + 1
		p := project(id, "Physics", level)
		p.School = ""
		projects = append(projects, p)
		assignments = append(assignments, fullyJudged(id, level, total-30, 30)...)
	}

	snap := snapshotOf(assignments, projects...)
	data := Rank(snap, projects, level)

	ranked := data.Categories["Physics"]
	require.Len(t, ranked, 5)

	gotRanks := make([]int, len(ranked))
	gotPoints := make([]int, len(ranked))
	for i, rp := range ranked {
		gotRanks[i] = rp.CategoryRank
		gotPoints[i] = rp.Points
	}

	// The tie at 85 shares rank 2 and the next distinct score takes the
	// index-based rank 4, not 3.
	assert.Equal(t, []int{1, 2, 2, 4, 5}, gotRanks)
	assert.Equal(t, []int{4, 3, 3, 1, 0}, gotPoints)
}

func TestRank_ExcludesPartiallyJudgedProjects(t *testing.T) {
	level := models.LevelSubCounty

	judged := project(1, "Chemistry", level)
	partial := project(2, "Chemistry", level)

	assignments := fullyJudged(1, level, 60, 30)
	// Project 2: Part B & C fully judged by two judges, Part A never judged.
	assignments = append(assignments,
		completed(2, 1, models.SectionPartBC, 95, level),
		completed(2, 2, models.SectionPartBC, 95, level),
	)

	snap := snapshotOf(assignments, judged, partial)
	data := Rank(snap, []models.Project{judged, partial}, level)

	require.Len(t, data.Categories["Chemistry"], 1)
	assert.Equal(t, 1, data.Categories["Chemistry"][0].Project.ID)
}

func TestRank_Idempotent(t *testing.T) {
	level := models.LevelCounty

	var projects []models.Project
	var assignments []models.JudgeAssignment
	for id := 1; id <= 6; id++ {
		category := "Physics"
		if id%2 == 0 {
			category = "Biology"
		}
		projects = append(projects, project(id, category, level))
		assignments = append(assignments, fullyJudged(id, level, float64(50+id*3), 30)...)
	}

	snap := snapshotOf(assignments, projects...)
	first := Rank(snap, projects, level)
	second := Rank(snap, projects, level)

	assert.Equal(t, first, second)
}

func TestRank_EntityRollups(t *testing.T) {
	level := models.LevelSubCounty

	mk := func(id int, category, school, region, county, subCounty, zone string, total float64) (models.Project, []models.JudgeAssignment) {
		p := project(id, category, level)
		p.School = school
		p.Region = region
		p.County = county
		p.SubCounty = subCounty
		p.Zone = zone
		return p, fullyJudged(id, level, total-30, 30)
	}

	// Two categories; each category's rank 1 earns 4 points, rank 2 earns 3.
	p1, a1 := mk(1, "Physics", "Obambo Secondary", "Nyanza", "Kisumu", "Kisumu East", "Kajulu", 90)
	p2, a2 := mk(2, "Physics", "Ahero Girls", "Nyanza", "Kisumu", "Nyando", "Awasi", 80)
	p3, a3 := mk(3, "Biology", "Obambo Secondary", "Nyanza", "Kisumu", "Kisumu East", "Kajulu", 85)
	p4, a4 := mk(4, "Biology", "Moi Forces", "Rift Valley", "Nakuru", "Nakuru West", "", 70)

	projects := []models.Project{p1, p2, p3, p4}
	var assignments []models.JudgeAssignment
	for _, batch := range [][]models.JudgeAssignment{a1, a2, a3, a4} {
		assignments = append(assignments, batch...)
	}

	snap := snapshotOf(assignments, projects...)
	data := Rank(snap, projects, level)

	// Schools: Obambo 4+4=8, Ahero 3, Moi Forces 3 (tie shares rank 2).
	require.Len(t, data.Schools, 3)
	assert.Equal(t, RankedEntity{Name: "Obambo Secondary", Points: 8, Rank: 1}, data.Schools[0])
	assert.Equal(t, 2, data.Schools[1].Rank)
	assert.Equal(t, 2, data.Schools[2].Rank)

	// Regions are a flat list; counties group under their region.
	require.Len(t, data.Regions, 2)
	assert.Equal(t, "Nyanza", data.Regions[0].Name)
	assert.Equal(t, 11, data.Regions[0].Points)

	counties := data.CountiesByRegion["Nyanza"]
	require.Len(t, counties, 1)
	assert.Equal(t, "Kisumu", counties[0].Name)
	assert.Equal(t, 11, counties[0].Points)

	subCounties := data.SubCountiesByCounty["Kisumu"]
	require.Len(t, subCounties, 2)
	assert.Equal(t, "Kisumu East", subCounties[0].Name)

	// Project 4 has no zone, so it contributes to no zone standing.
	for parent, zones := range data.ZonesBySubCounty {
		for _, z := range zones {
			assert.NotEmpty(t, z.Name, "zone under %s", parent)
		}
	}
	assert.NotContains(t, data.ZonesBySubCounty, "Nakuru West")
}
