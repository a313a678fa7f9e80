package metrics

// PipelineUsage captures per-request pipeline counters.
type PipelineUsage struct {
	ModelCalls       int  `json:"modelCalls"`
	ChunksPlanned    int  `json:"chunksPlanned,omitempty"`
	ChunksSummarized int  `json:"chunksSummarized"`
	ChunksSkipped    int  `json:"chunksSkipped,omitempty"`
	ReducePass       bool `json:"reducePass,omitempty"`
}
