package recommend

import "github.com/iWorld-y/progress_insight/app/insight/pkg/profile"

// CategoryHome 在家进行的活动，不做场馆匹配
const CategoryHome = "Home"

// Template 活动模板
type Template struct {
	Name          string
	Category      string
	Targets       []string
	Frequency     string
	EstimatedCost string
	// Stages 适用阶段，为空表示所有阶段
	Stages []profile.Stage
}

func (t Template) targets(attr string) bool {
	key := profile.Key(attr)
	for _, a := range t.Targets {
		if profile.Key(a) == key {
			return true
		}
	}
	return false
}

func (t Template) eligible(stage profile.Stage) bool {
	if len(t.Stages) == 0 || stage == profile.StageGeneral {
		return true
	}
	for _, s := range t.Stages {
		if s == stage {
			return true
		}
	}
	return false
}

var schoolAge = []profile.Stage{profile.StagePrimary, profile.StageMiddle, profile.StageDiploma}

// DefaultCatalog 默认活动目录，顺序决定同一特质下的选择顺序
var DefaultCatalog = []Template{
	{Name: "Junior Robotics Club", Category: "STEM", Targets: []string{"Inquirer", "Thinker"}, Frequency: "Weekly", EstimatedCost: "$40-80/month", Stages: schoolAge},
	{Name: "Science Museum Visits", Category: "STEM", Targets: []string{"Inquirer", "Knowledgeable"}, Frequency: "Monthly", EstimatedCost: "$10-20/visit"},
	{Name: "Chess Club", Category: "Games", Targets: []string{"Thinker", "Reflective"}, Frequency: "Weekly", EstimatedCost: "$20-40/month", Stages: schoolAge},
	{Name: "Drama and Public Speaking", Category: "Arts", Targets: []string{"Communicator", "Risk-taker"}, Frequency: "Weekly", EstimatedCost: "$50-100/month"},
	{Name: "Library Reading Program", Category: "Literacy", Targets: []string{"Knowledgeable", "Communicator", "Reflective"}, Frequency: "Weekly", EstimatedCost: "Free"},
	{Name: "Team Sports League", Category: "Sports", Targets: []string{"Balanced", "Caring", "Principled"}, Frequency: "Twice weekly", EstimatedCost: "$30-60/month"},
	{Name: "Community Volunteering", Category: "Community", Targets: []string{"Caring", "Principled", "Open-minded"}, Frequency: "Twice a month", EstimatedCost: "Free", Stages: schoolAge},
	{Name: "Nature Exploration Program", Category: "Outdoors", Targets: []string{"Inquirer", "Risk-taker", "Balanced"}, Frequency: "Weekly", EstimatedCost: "$15-30/session"},
	{Name: "Music Lessons", Category: "Music", Targets: []string{"Balanced", "Reflective"}, Frequency: "Weekly", EstimatedCost: "$60-120/month"},
	{Name: "Language Exchange Club", Category: "Languages", Targets: []string{"Open-minded", "Communicator"}, Frequency: "Weekly", EstimatedCost: "$20-50/month", Stages: schoolAge},
	{Name: "Cultural Workshop Visits", Category: "Culture", Targets: []string{"Open-minded", "Knowledgeable"}, Frequency: "Monthly", EstimatedCost: "$0-20/visit"},
	{Name: "Martial Arts Classes", Category: "Martial Arts", Targets: []string{"Principled", "Balanced", "Risk-taker"}, Frequency: "Twice weekly", EstimatedCost: "$60-100/month"},
	{Name: "Swimming Lessons", Category: "Aquatics", Targets: []string{"Risk-taker", "Balanced"}, Frequency: "Weekly", EstimatedCost: "$40-80/month"},
	{Name: "Family Reflection Journal", Category: CategoryHome, Targets: []string{"Reflective", "Communicator"}, Frequency: "Daily", EstimatedCost: "Free"},
	{Name: "Kitchen Science Experiments", Category: CategoryHome, Targets: []string{"Inquirer", "Thinker"}, Frequency: "Weekly", EstimatedCost: "Under $10", Stages: []profile.Stage{profile.StageEarlyYears, profile.StagePrimary}},
	{Name: "Kindness Projects at Home", Category: CategoryHome, Targets: []string{"Caring", "Principled"}, Frequency: "Weekly", EstimatedCost: "Free"},
}
