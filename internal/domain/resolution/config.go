package resolution

import "time"

// DefaultApology is returned when every retrieval and fallback stage fails.
const DefaultApology = "Sorry, I can't help you with that. Try asking me something else."

// DefaultGenerativePrompt asks the backend for a single casual sentence
// derived from the best-matching FAQ's answer. The {answer} placeholder is
// substituted by the backend with the matched object's answer property.
const DefaultGenerativePrompt = "Use <{answer}> to try to answer <{question}>. " +
	"The response should be a single sentence, friendly and casual."

// Config holds runtime knobs for the resolution pipeline.
type Config struct {
	// Family selects the active vectorizer backend's classes.
	Family ModelFamily
	// CertaintyThreshold gates the semantic candidate; below it the
	// fallback chain is consulted.
	CertaintyThreshold float64
	// CallTimeout bounds each individual backend call.
	CallTimeout time.Duration
	// RunTimeout bounds one whole resolution run.
	RunTimeout time.Duration
	// RetrievalLimit is the per-class nearest-neighbor result cap.
	RetrievalLimit int
	Apology        string
	// GenerativePrompt is the template handed to Generate.
	GenerativePrompt string
}

func (c Config) withDefaults() Config {
	if c.Family == "" {
		c.Family = FamilyOpenAI
	}
	if c.CertaintyThreshold <= 0 {
		c.CertaintyThreshold = 0.7
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 15 * time.Second
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = 2 * time.Minute
	}
	if c.RetrievalLimit <= 0 {
		c.RetrievalLimit = 1
	}
	if c.Apology == "" {
		c.Apology = DefaultApology
	}
	if c.GenerativePrompt == "" {
		c.GenerativePrompt = DefaultGenerativePrompt
	}
	return c
}
