package site

// StageName identifies a pipeline stage for reports, logs and metrics.
type StageName = string

const (
	StageSyncDocs        StageName = "sync_docs"
	StageLoadInputs      StageName = "load_inputs"
	StagePrepareMarkdown StageName = "prepare_markdown"
	StageRenderMarkdown  StageName = "render_markdown"
	StagePostProcess     StageName = "post_process"
	StageAssemble        StageName = "assemble"
	StageWriteOutput     StageName = "write_output"
)
