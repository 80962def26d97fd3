package site

import (
	"time"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/navigation"
	"git.home.luguber.info/inful/sitegen/internal/openmfe"
	"git.home.luguber.info/inful/sitegen/internal/pages"
	"git.home.luguber.info/inful/sitegen/internal/specification"
)

// BuildState carries data between stages of a single build.
type BuildState struct {
	ID     string
	Config *config.Config
	Report *Report

	Pages         []*pages.Page
	Navigation    navigation.Tree
	Specification specification.Document
	Manifest      *openmfe.Manifest
}

// Outcome is the final status of a build.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Report summarizes a build.
type Report struct {
	ID             string
	Start          time.Time
	End            time.Time
	Outcome        Outcome
	StageDurations map[StageName]time.Duration
	// Pages is the number of rendered pages.
	Pages int
	// Outputs lists written files relative to the output directory.
	Outputs  []string
	Warnings []string
}

func newReport(id string, start time.Time) *Report {
	return &Report{
		ID:             id,
		Start:          start,
		StageDurations: make(map[StageName]time.Duration),
	}
}

// Duration is the wall time of the build.
func (r *Report) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

func (r *Report) addOutput(rel string) {
	r.Outputs = append(r.Outputs, rel)
}

func (r *Report) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
