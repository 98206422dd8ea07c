package qa_engine

// EngineConfig tunes the answering pipeline.
//
// MinSentenceLen:      shortest fragment kept, in characters, after trimming.
// MaxSentences:        only the first N candidate sentences are sent to the model.
// ConfidenceThreshold: candidates must score strictly above this.
// TopN:                how many answers survive ranking.
// Concurrency:         parallel model calls per request (1 = sequential).
type EngineConfig struct {
	MinSentenceLen      int
	MaxSentences        int
	ConfidenceThreshold float64
	TopN                int
	Concurrency         int
}

// DefaultEngineConfig returns the stock pipeline settings.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MinSentenceLen:      30,
		MaxSentences:        15,
		ConfidenceThreshold: 0.2,
		TopN:                3,
		Concurrency:         1,
	}
}

func (c *EngineConfig) defaults() {
	d := DefaultEngineConfig()
	if c.MinSentenceLen < 0 {
		c.MinSentenceLen = d.MinSentenceLen
	}
	if c.MaxSentences <= 0 {
		c.MaxSentences = d.MaxSentences
	}
	if c.TopN <= 0 {
		c.TopN = d.TopN
	}
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
}
