package nlp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modalIndex(a *Analysis) int {
	for i, t := range a.Tokens {
		if t.POS == POSModal {
			return i
		}
	}
	return -1
}

func TestLexical_ModalVerb(t *testing.T) {
	a, err := NewLexical().Parse(context.Background(), "The Customer shall pay the invoice within 30 days.")
	require.NoError(t, err)

	assert.Equal(t, "pay", a.RootVerb)
	assert.Equal(t, []string{"pay", "invoice"}, a.VerbTokens)
	assert.Equal(t, "invoice", a.Objects["pay"])
	assert.Equal(t, 2, modalIndex(a))
	assert.Equal(t, POSNum, a.Tokens[7].POS)

	e, ok := a.EntityBefore(modalIndex(a), 5)
	require.True(t, ok)
	assert.Equal(t, Entity{Text: "Customer", Label: "ORG", Index: 1}, e)

	verb, ok := a.VerbAfter(modalIndex(a), 4)
	require.True(t, ok)
	assert.Equal(t, "pay", verb)
}

func TestLexical_InsertedPhrase(t *testing.T) {
	a, err := NewLexical().Parse(context.Background(), "The Supplier may, at its option, terminate this Agreement.")
	require.NoError(t, err)
	assert.Equal(t, "terminate", a.RootVerb)
}

func TestLexical_ModalCue(t *testing.T) {
	a, err := NewLexical().Parse(context.Background(), "The Customer is entitled to terminate the contract.")
	require.NoError(t, err)
	assert.Equal(t, "terminate", a.RootVerb)
	assert.Equal(t, "contract", a.Objects["terminate"])
	assert.Equal(t, -1, modalIndex(a))
}

func TestLexical_UnknownVerbAfterModal(t *testing.T) {
	a, err := NewLexical().Parse(context.Background(), "The Seller shall not dispatch goods on Sundays.")
	require.NoError(t, err)
	assert.Equal(t, "dispatch", a.RootVerb)
	assert.Contains(t, a.VerbTokens, "dispatch")
	assert.Equal(t, "goods", a.Objects["dispatch"])
}

func TestLexical_French(t *testing.T) {
	a, err := NewLexical().Parse(context.Background(), "Le Client doit payer la facture dans un délai de 30 jours.")
	require.NoError(t, err)
	assert.Equal(t, "payer", a.RootVerb)
	assert.Equal(t, "facture", a.Objects["payer"])
}

func TestLexical_NoVerb(t *testing.T) {
	a, err := NewLexical().Parse(context.Background(), "Payment is due.")
	require.NoError(t, err)
	assert.Empty(t, a.RootVerb)
	assert.Empty(t, a.VerbTokens)
}

func TestLexical_Entities(t *testing.T) {
	a, err := NewLexical().Parse(context.Background(), "If requested, Acme Corp shall deliver the reports to Globex.")
	require.NoError(t, err)

	require.Len(t, a.NamedEntities, 2)
	assert.Equal(t, "Acme Corp", a.NamedEntities[0].Text)
	assert.Equal(t, 2, a.NamedEntities[0].Index)
	assert.Equal(t, "Globex", a.NamedEntities[1].Text)

	e, ok := a.EntityBefore(modalIndex(a), 5)
	require.True(t, ok)
	assert.Equal(t, "Acme Corp", e.Text)
}

func TestLexical_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLexical().Parse(ctx, "The Customer shall pay.")
	assert.ErrorIs(t, err, context.Canceled)
}
