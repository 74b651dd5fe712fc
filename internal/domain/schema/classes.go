package schema

import "github.com/yanqian/faq-chatbot/internal/domain/resolution"

const (
	vectorizerHuggingFace = "text2vec-huggingface"
	vectorizerOpenAI      = "text2vec-openai"
)

func boolPtr(v bool) *bool { return &v }

func qandaProperties(inverted bool) []Property {
	answer := Property{
		Name:        "answer",
		DataType:    "text",
		Description: "The answer",
	}
	if inverted {
		// Inverted classes match on question similarity only; the answer
		// never leaks into the search index.
		answer.IndexSearchable = boolPtr(false)
	}
	return []Property{
		{
			Name:        "question",
			DataType:    "text",
			Description: "The question",
		},
		answer,
	}
}

// ClassesFor returns the class definitions created for a model family,
// primary first.
func ClassesFor(family resolution.ModelFamily) []Class {
	switch family {
	case resolution.FamilyHuggingFace:
		moduleConfig := map[string]any{
			vectorizerHuggingFace: map[string]any{
				"model": "sentence-transformers/all-MiniLM-L6-v2",
				"options": map[string]any{
					"waitForModel": true,
				},
			},
		}
		return []Class{
			{
				Name:         family.PrimaryClass(),
				Description:  "FAQ entries vectorized with the Text2Vec HuggingFace module",
				Vectorizer:   vectorizerHuggingFace,
				Properties:   qandaProperties(false),
				ModuleConfig: moduleConfig,
			},
			{
				Name:         family.InvertedClass(),
				Description:  "FAQ entries searchable by question only, Text2Vec HuggingFace module",
				Vectorizer:   vectorizerHuggingFace,
				Properties:   qandaProperties(true),
				ModuleConfig: moduleConfig,
			},
		}
	case resolution.FamilyOpenAI:
		return []Class{
			{
				Name:        family.PrimaryClass(),
				Description: "FAQ entries vectorized with the Text2Vec OpenAI module",
				Vectorizer:  vectorizerOpenAI,
				Properties:  qandaProperties(false),
				ModuleConfig: map[string]any{
					"generative-openai": map[string]any{
						"model": "gpt-3.5-turbo",
					},
				},
			},
			{
				Name:        family.InvertedClass(),
				Description: "FAQ entries searchable by question only, Text2Vec OpenAI module",
				Vectorizer:  vectorizerOpenAI,
				Properties:  qandaProperties(true),
				ModuleConfig: map[string]any{
					vectorizerOpenAI: map[string]any{
						"model":        "babbage",
						"modelVersion": "001",
						"type":         "text",
					},
				},
			},
		}
	default:
		return nil
	}
}
