package dtos

import (
	"time"

	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
	"github.com/andrescamacho/groundworks-go/internal/domain/work"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

// JobDTO describes a queued or current job as the UI sees it
type JobDTO struct {
	Ref           string  `json:"ref"`
	Name          string  `json:"name"`
	Valid         bool    `json:"valid"`
	Kind          string  `json:"kind,omitempty"`
	StageIndex    int     `json:"stage_index"`
	StageCount    int     `json:"stage_count"`
	StageFraction float64 `json:"stage_fraction"`
	FractionDone  float64 `json:"fraction_done"`
	Mass          float64 `json:"mass"`
	Distance      float64 `json:"distance"`
	DeployState   string  `json:"deploy_state,omitempty"`
}

// WorkshopStatusDTO is a read model of one workshop
type WorkshopStatusDTO struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Status          string          `json:"status"`
	Kinds           []string        `json:"kinds"`
	Workforce       float64         `json:"workforce"`
	MaxWorkforce    float64         `json:"max_workforce"`
	Position        shared.Position `json:"position"`
	Current         *JobDTO         `json:"current,omitempty"`
	Queue           []JobDTO        `json:"queue"`
	ETA             float64         `json:"eta"`
	ETAText         string          `json:"eta_text"`
	StageETA        float64         `json:"stage_eta"`
	EndTimeEstimate *time.Time      `json:"end_time_estimate,omitempty"`
}

// NewWorkshopStatusDTO builds the read model, resolving every ref through hosts
func NewWorkshopStatusDTO(w *workshop.Workshop, hosts workshop.HostResolver) WorkshopStatusDTO {
	dto := WorkshopStatusDTO{
		ID:           w.ID(),
		Name:         w.Name(),
		Status:       string(w.Status()),
		Workforce:    w.Workforce(),
		MaxWorkforce: w.MaxWorkforce(),
		Position:     w.Position(),
		Queue:        make([]JobDTO, 0),
		ETA:          w.ETA(),
		ETAText:      workshop.FormatETA(w.ETA()),
		StageETA:     w.StageETA(),
	}
	for _, k := range w.Kinds() {
		dto.Kinds = append(dto.Kinds, k.String())
	}
	if end := w.EndTimeEstimate(); !end.IsZero() {
		dto.EndTimeEstimate = &end
	}
	if ref, ok := w.Current(); ok {
		job := newJobDTO(w, ref, hosts)
		dto.Current = &job
	}
	for _, ref := range w.Queue() {
		dto.Queue = append(dto.Queue, newJobDTO(w, ref, hosts))
	}
	return dto
}

func newJobDTO(w *workshop.Workshop, ref workshop.JobRef, hosts workshop.HostResolver) JobDTO {
	dto := JobDTO{Ref: string(ref), Name: string(ref)}
	host, ok := hosts.Resolve(string(ref))
	if !ok || !host.Recheck() || host.Job() == nil {
		return dto
	}
	job := host.Job()
	dto.Name = host.Name()
	dto.Valid = w.CanWork(host)
	dto.StageIndex = job.CurrentStageIndex()
	dto.StageCount = job.StageCount()
	dto.StageFraction = job.StageFraction(job.CurrentStageIndex())
	dto.FractionDone = job.FractionDone()
	dto.Mass = job.ParameterValue(work.ParamMass)
	dto.Distance = w.Position().DistanceTo(host.Position())
	dto.DeployState = string(host.DeployState())
	if !job.Complete() {
		dto.Kind = job.CurrentKind().String()
	}
	return dto
}
