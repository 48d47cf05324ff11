// Package report summarizes the personas of a project.
package report

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/persona-lab/persona-backend/internal/personas/domain"
)

type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Report struct {
	Total      int     `json:"total"`
	Base       int     `json:"base"`
	Generated  int     `json:"generated"`
	AverageAge float64 `json:"averageAge"`
	// AgeGroups are decades ("30-39") in ascending order.
	AgeGroups   []Bucket `json:"ageGroups"`
	Occupations []Bucket `json:"occupations"`
	Locations   []Bucket `json:"locations"`
}

// Build computes the report for c. Personas without an age are left out of
// the age statistics; blank occupations and locations are not counted.
func Build(c domain.Collection) Report {
	all := c.All()
	r := Report{
		Total:     len(all),
		Base:      len(c.Base),
		Generated: len(c.Generated),
	}

	decades := map[int]int{}
	occupations := map[string]int{}
	locations := map[string]int{}
	ageSum, aged := 0, 0

	for _, p := range all {
		if p.Age > 0 {
			ageSum += int(p.Age)
			aged++
			decades[int(p.Age)/10*10]++
		}
		if o := strings.TrimSpace(p.Occupation); o != "" {
			occupations[o]++
		}
		if l := strings.TrimSpace(p.Location); l != "" {
			locations[l]++
		}
	}

	if aged > 0 {
		r.AverageAge = math.Round(float64(ageSum)/float64(aged)*10) / 10
	}

	starts := make([]int, 0, len(decades))
	for d := range decades {
		starts = append(starts, d)
	}
	slices.Sort(starts)
	r.AgeGroups = make([]Bucket, 0, len(starts))
	for _, d := range starts {
		r.AgeGroups = append(r.AgeGroups, Bucket{Label: fmt.Sprintf("%d-%d", d, d+9), Count: decades[d]})
	}

	r.Occupations = ranked(occupations)
	r.Locations = ranked(locations)
	return r
}

func ranked(counts map[string]int) []Bucket {
	out := make([]Bucket, 0, len(counts))
	for label, n := range counts {
		out = append(out, Bucket{Label: label, Count: n})
	}
	slices.SortFunc(out, func(a, b Bucket) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}
