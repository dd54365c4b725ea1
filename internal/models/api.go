package models

type StartPipelineRequest struct {
	JobTitle string `json:"job_title"`
	Company  string `json:"company"`
	JD       string `json:"jd"`
}

type StartPipelineResponse struct {
	PipelineID string    `json:"pipeline_id"`
	Pipeline   *Pipeline `json:"pipeline"`
}

type PipelineStatusResponse struct {
	Pipeline *Pipeline `json:"pipeline"`
}

type AnswerRequest struct {
	QuestionID string `json:"question_id"`
	Transcript string `json:"transcript"`
}

type ToneRequest struct {
	Transcript string      `json:"transcript"`
	Metrics    ToneMetrics `json:"metrics"`
}

type AdvancePhaseRequest struct {
	Phase string `json:"phase"`
}

type TranscribeResponse struct {
	Transcript string `json:"transcript"`
}
