// Package planner 将推荐转换为面向家长的行动项。
package planner

import (
	"fmt"
	"strings"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
)

// categoryTips 各类别的分步建议
var categoryTips = map[string][]string{
	"STEM": {
		"Ask your child to predict what will happen before each experiment or build.",
		"Afterwards, talk through what surprised them and why.",
	},
	"Games": {
		"Play a short game together each week and let your child explain one move they chose.",
	},
	"Arts": {
		"Invite your child to rehearse in front of family before each session.",
		"Praise effort and courage rather than polish.",
	},
	"Literacy": {
		"Let your child choose the books, then ask them to retell one favourite part.",
		"Keep a shared list of new words they discover.",
	},
	"Sports": {
		"Talk about fair play and teamwork after each match, win or lose.",
		"Balance training days with rest and unstructured play.",
	},
	"Community": {
		"Choose a cause together that your child cares about.",
		"Reflect afterwards on who was helped and how it felt.",
	},
	"Outdoors": {
		"Bring a small notebook so your child can record questions about what they see.",
	},
	"Music": {
		"Set a short, regular practice time rather than long irregular sessions.",
		"Ask your child how the music makes them feel.",
	},
	"Languages": {
		"Learn a few phrases alongside your child and use them at home.",
	},
	"Culture": {
		"Before each visit, look up one fact about the culture together.",
		"Discuss what is similar and different to your own traditions.",
	},
	"Martial Arts": {
		"Ask your child about the rules and values their instructor emphasises.",
	},
	"Aquatics": {
		"Celebrate each new skill, however small, to build confidence in the water.",
	},
	"Home": {
		"Pick a consistent time of day so the activity becomes a routine.",
		"Join in yourself and share your own thinking out loud.",
	},
}

var defaultTips = []string{
	"Start small and agree on a regular time with your child.",
	"Check in after each session about what they enjoyed and found hard.",
}

var verbs = map[model.Priority]string{
	model.PriorityHigh:   "Build",
	model.PriorityMedium: "Strengthen",
	model.PriorityLow:    "Sustain",
}

// Plan 生成家长行动项；与 currentActivities 同名（忽略大小写与首尾空白）的推荐被排除
func Plan(recs []model.Recommendation, currentActivities []string) []model.ParentAction {
	underway := make(map[string]struct{}, len(currentActivities))
	for _, a := range currentActivities {
		underway[normalize(a)] = struct{}{}
	}

	actions := make([]model.ParentAction, 0, len(recs))
	for _, rec := range recs {
		if _, ok := underway[normalize(rec.Name)]; ok {
			continue
		}
		actions = append(actions, action(rec))
	}
	return actions
}

func action(rec model.Recommendation) model.ParentAction {
	target := strings.Join(rec.TargetAttributes, ", ")
	if target == "" {
		target = rec.Category
	}
	verb := verbs[rec.Priority]
	if verb == "" {
		verb = "Support"
	}

	desc := fmt.Sprintf("%s %s through %s.", verb, target, rec.Name)
	if rec.WhyRecommended != "" {
		desc += " " + rec.WhyRecommended
	}

	return model.ParentAction{
		Title:       fmt.Sprintf("%s %s", verb, target),
		Category:    rec.Category,
		TargetArea:  target,
		Priority:    rec.Priority,
		Description: desc,
		Activities: []model.ActionActivity{
			{Activity: rec.Name, Tips: tips(rec)},
		},
	}
}

func tips(rec model.Recommendation) []string {
	var out []string
	if len(rec.Venues) > 0 {
		v := rec.Venues[0]
		tip := fmt.Sprintf("Visit %s, %.1f %s away", v.Name, v.Distance.Value, v.Distance.Unit)
		if v.Address != "" {
			tip += " at " + v.Address
		}
		out = append(out, tip+".")
	}
	if rec.Frequency != "" {
		schedule := fmt.Sprintf("Plan for %s sessions", strings.ToLower(rec.Frequency))
		if rec.EstimatedCost != "" {
			schedule += fmt.Sprintf(" (estimated cost: %s)", rec.EstimatedCost)
		}
		out = append(out, schedule+".")
	}
	if t, ok := categoryTips[rec.Category]; ok {
		out = append(out, t...)
	} else {
		out = append(out, defaultTips...)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
