// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Extraction is the structured record extracted from one paper, stored on
// disk as PMC<id>_kg.json and loaded into the triple store by populate.
type Extraction struct {
	Publication *Publication `json:"publication,omitempty" yaml:"publication,omitempty"`
	Authors     []string     `json:"authors,omitempty" yaml:"authors,omitempty"`
	Subjects    *Subjects    `json:"subjects,omitempty" yaml:"subjects,omitempty"`
	Methods     *Methods     `json:"methods,omitempty" yaml:"methods,omitempty"`
	Treatments  []Treatment  `json:"treatments,omitempty" yaml:"treatments,omitempty"`
	Results     []Finding    `json:"results,omitempty" yaml:"results,omitempty"`
}

// Publication holds bibliographic metadata.
type Publication struct {
	PMCID   string `json:"pmc_id" yaml:"pmc_id"`
	Title   string `json:"title" yaml:"title"`
	Year    Year   `json:"year" yaml:"year"`
	Journal string `json:"journal" yaml:"journal"`
}

// Subjects lists the organisms and tissues a paper studies.
type Subjects struct {
	Species []string `json:"species,omitempty" yaml:"species,omitempty"`
	Tissues []string `json:"tissues,omitempty" yaml:"tissues,omitempty"`
}

// Methods lists experimental platforms and assays.
type Methods struct {
	Platforms []string `json:"platforms,omitempty" yaml:"platforms,omitempty"`
	Assays    []string `json:"assays,omitempty" yaml:"assays,omitempty"`
}

// Treatment is an experimental treatment applied in the study.
type Treatment struct {
	Agent    string `json:"agent" yaml:"agent"`
	Dose     string `json:"dose" yaml:"dose"`
	Duration string `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// Finding is a measured result reported by the study.
type Finding struct {
	Target    string `json:"target" yaml:"target"`
	Effect    string `json:"effect" yaml:"effect"`
	Magnitude string `json:"magnitude,omitempty" yaml:"magnitude,omitempty"`
}
