package resolution

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReconcilePicksHighestCertainty(t *testing.T) {
	reconciler := NewReconciler(0.7)
	verdict := reconciler.Reconcile([]RetrievalHit{
		{Class: "OpenAI", Question: "q1", Answer: "first", Certainty: 0.81},
		{Class: "OpenAIInverted", Question: "q2", Answer: "second", Certainty: 0.93},
	})

	require.True(t, verdict.Found)
	require.True(t, verdict.Accepted)
	require.Equal(t, "second", verdict.Candidate.Text)
	require.Equal(t, SourceSemantic, verdict.Candidate.Source)
	require.NotNil(t, verdict.Candidate.Certainty)
	require.Equal(t, 0.93, *verdict.Candidate.Certainty)
}

func TestReconcileTieKeepsInputOrder(t *testing.T) {
	reconciler := NewReconciler(0.5)
	verdict := reconciler.Reconcile([]RetrievalHit{
		{Class: "OpenAI", Question: "q1", Answer: "primary", Certainty: 0.85},
		{Class: "OpenAIInverted", Question: "q2", Answer: "inverted", Certainty: 0.85},
	})

	require.True(t, verdict.Found)
	require.Equal(t, "primary", verdict.Candidate.Text)
}

func TestReconcileBelowThreshold(t *testing.T) {
	reconciler := NewReconciler(0.7)
	verdict := reconciler.Reconcile([]RetrievalHit{
		{Class: "OpenAI", Question: "q", Answer: "weak", Certainty: 0.4},
	})

	require.True(t, verdict.Found)
	require.False(t, verdict.Accepted)
	require.Equal(t, "weak", verdict.Candidate.Text)
}

func TestReconcileDiscardsMalformedHits(t *testing.T) {
	reconciler := NewReconciler(0.7)
	verdict := reconciler.Reconcile([]RetrievalHit{
		{Class: "OpenAI", Question: "", Answer: "no question", Certainty: 0.99},
		{Class: "OpenAI", Question: "q", Answer: "", Certainty: 0.99},
		{Class: "OpenAI", Question: "q", Answer: "zero certainty", Certainty: 0},
		{Class: "OpenAI", Question: "q", Answer: "valid", Certainty: 0.75},
	})

	require.True(t, verdict.Found)
	require.Equal(t, "valid", verdict.Candidate.Text)
}

func TestReconcileEmpty(t *testing.T) {
	reconciler := NewReconciler(0.7)
	require.False(t, reconciler.Reconcile(nil).Found)
	require.False(t, reconciler.Reconcile([]RetrievalHit{{Question: "", Answer: ""}}).Found)
}

func TestReconcileExactThresholdAccepted(t *testing.T) {
	reconciler := NewReconciler(0.7)
	verdict := reconciler.Reconcile([]RetrievalHit{
		{Class: "OpenAI", Question: "q", Answer: "edge", Certainty: 0.7},
	})

	require.True(t, verdict.Accepted)
}
