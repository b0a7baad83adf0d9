package constants

// Stage is one discrete step of the analysis pipeline.
type Stage string

const (
	StageQueued       Stage = "queued"
	StageContext      Stage = "assembling context"
	StageSpecialists  Stage = "running specialists"
	StageStrategy     Stage = "generating strategy"
	StagePrognosis    Stage = "generating prognosis"
	StageCompile      Stage = "compiling result"
	StageContinuation Stage = "drafting continuation"
	StageDone         Stage = "done"
)

// Progress bounds per stage. The orchestrator writes the upper bound after a
// stage completes, so pollers only ever observe these values in order.
const (
	ProgressQueued      = 0
	ProgressContext     = 20
	ProgressSpecialists = 60
	ProgressStrategy    = 75
	ProgressPrognosis   = 90
	ProgressDone        = 100
)
