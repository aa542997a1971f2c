package scoring

// RoboticsCategory uses its own rubric, with a different Part B / Part C
// criterion split than every other category.
const RoboticsCategory = "Robotics"

// standardPartBCriteria lists the Part B (oral presentation) criterion
// ids of the standard rubric; every other criterion in a Part B & C
// breakdown counts toward Part C (scientific thought).
var standardPartBCriteria = map[string]bool{
	"oral_presentation":    true,
	"communication":        true,
	"knowledge_of_project": true,
}

// roboticsPartBCriteria is the Part B partition of the Robotics rubric.
var roboticsPartBCriteria = map[string]bool{
	"robot_design":     true,
	"demonstration":    true,
	"team_interaction": true,
}
