package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/lexdiff/internal/model"
	"github.com/ppiankov/lexdiff/internal/nlp"
)

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder(nil, nil, nil)
	clo, err := b.Build(context.Background(), Candidate{
		Path: "payment.terms",
		Text: "The Customer shall pay the invoice within 30 days.",
	})
	require.NoError(t, err)

	assert.Equal(t, "payment.terms", clo.ClauseUID)
	assert.Equal(t, "payment", clo.SectionID)
	assert.Equal(t, "CUSTOMER", clo.Party)
	assert.Equal(t, "PAY", clo.Action)
	assert.Equal(t, "invoice", clo.Object)
	assert.Equal(t, model.ModalityObligation, clo.Modality)
	assert.Equal(t, "within 30 days", clo.Timebound)
	assert.Empty(t, clo.Conditions)
	assert.Equal(t, model.IntentHash(clo), clo.IntentHash)
}

func TestBuilder_EntityParty(t *testing.T) {
	clo, err := NewBuilder(nil, nil, nil).Build(context.Background(), Candidate{
		Path: "delivery",
		Text: "If requested, Acme Corp shall deliver the reports to Globex.",
	})
	require.NoError(t, err)
	assert.Equal(t, "ACME_CORP", clo.Party)
	assert.Equal(t, "DELIVER", clo.Action)
	assert.Equal(t, "reports", clo.Object)
}

func TestBuilder_IntransitiveObject(t *testing.T) {
	b := NewBuilder(nil, nil, nil)
	ctx := context.Background()

	clo, err := b.Build(ctx, Candidate{Path: "5.2", Text: "The Customer shall pay within 30 days"})
	require.NoError(t, err)
	assert.Equal(t, "CUSTOMER", clo.Party)
	assert.Equal(t, "PAY", clo.Action)
	assert.Equal(t, "pay", clo.Object)
	assert.Equal(t, "within 30 days", clo.Timebound)

	clo, err = b.Build(ctx, Candidate{Path: "delivery", Text: "The Supplier shall deliver within 10 days the replacement parts."})
	require.NoError(t, err)
	assert.Equal(t, "replacement parts", clo.Object)
}

func TestBuilder_Rejections(t *testing.T) {
	b := NewBuilder(nil, nil, nil)
	ctx := context.Background()

	_, err := b.Build(ctx, Candidate{Path: "intro", Text: "This document describes the overall service architecture."})
	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, StageFilter, rej.Stage)

	_, err = b.Build(ctx, Candidate{Path: "faith", Text: "The Supplier shall perform the obligation in good faith."})
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, StageValidate, rej.Stage)
	assert.Equal(t, "faith", rej.Path)
}

func TestBuilder_AnalyzerFailureFallsBack(t *testing.T) {
	stub := &stubAnalyzer{err: assert.AnError}
	clo, failed, err := NewBuilder(stub, nil, nil).build(context.Background(), Candidate{
		Path: "terms",
		Text: "The Customer shall pay the invoice within 30 days.",
	})
	require.NoError(t, err)
	assert.True(t, failed)
	assert.Equal(t, "PAY", clo.Action)
	assert.Equal(t, "invoice", clo.Object)
}

func TestBuilder_FallbackAnalysisCountsAsFailure(t *testing.T) {
	lexical, err := nlp.NewLexical().Parse(context.Background(), "The Customer shall pay the invoice within 30 days.")
	require.NoError(t, err)

	stub := &stubAnalyzer{analysis: lexical, err: &nlp.FallbackError{Provider: "ollama", Err: assert.AnError}}
	clo, failed, err := NewBuilder(stub, nil, nil).build(context.Background(), Candidate{
		Path: "terms",
		Text: "The Customer shall pay the invoice within 30 days.",
	})
	require.NoError(t, err)
	assert.True(t, failed)
	assert.Equal(t, "invoice", clo.Object)
}

func TestBuilder_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stub := &stubAnalyzer{analysis: &nlp.Analysis{}}
	_, err := NewBuilder(stub, nil, nil).Build(ctx, Candidate{Path: "terms", Text: "The Customer shall pay the invoice within 30 days."})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuilder_TranslationSharesIntent(t *testing.T) {
	stub := &stubAnalyzer{analysis: &nlp.Analysis{
		RootVerb:   "pay",
		VerbTokens: []string{"pay"},
		Objects:    map[string]string{"pay": "invoice"},
	}}
	b := NewBuilder(stub, nil, nil)
	ctx := context.Background()

	en, err := b.Build(ctx, Candidate{Path: "terms", Text: "The Customer shall pay the invoice within 30 days."})
	require.NoError(t, err)
	fr, err := b.Build(ctx, Candidate{Path: "terms", Text: "Le Client doit payer la facture dans un délai de 30 jours."})
	require.NoError(t, err)

	assert.Equal(t, en.IntentHash, fr.IntentHash)
	assert.NotEqual(t, en.OriginalText, fr.OriginalText)
}
