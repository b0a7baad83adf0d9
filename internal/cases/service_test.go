package cases

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow-ai/caseflow/constants"
	"github.com/caseflow-ai/caseflow/internal/common"
)

func TestService_Create(t *testing.T) {
	t.Parallel()
	svc := NewService(nil)

	t.Run("defaults to full specialist set", func(t *testing.T) {
		t.Parallel()
		c, err := svc.Create(context.Background(), "employment", uuid.New())
		require.NoError(t, err)
		assert.Equal(t, constants.CaseKindEmployment, c.Kind)
		assert.ElementsMatch(t, constants.AllSpecialists(), c.Specialists)
		assert.NotEmpty(t, c.SuggestedDocuments)
		assert.False(t, c.AnalysisStarted)
	})

	t.Run("unknown kind falls back to general", func(t *testing.T) {
		t.Parallel()
		c, err := svc.Create(context.Background(), "maritime salvage", uuid.New())
		require.NoError(t, err)
		assert.Equal(t, constants.CaseKindGeneral, c.Kind)
	})

	t.Run("nil primary document rejected", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Create(context.Background(), "tort", uuid.Nil)
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})
}

func TestService_AttachDocument(t *testing.T) {
	t.Parallel()
	svc := NewService(nil)
	c, err := svc.Create(context.Background(), "contract", uuid.New())
	require.NoError(t, err)

	docID := uuid.New()
	got, err := svc.AttachDocument(context.Background(), c.ID, docID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{docID}, got.SupplementaryIDs)

	// Attaching the same document again is a no-op, not an error.
	got, err = svc.AttachDocument(context.Background(), c.ID, docID)
	require.NoError(t, err)
	assert.Len(t, got.SupplementaryIDs, 1)

	_, err = svc.AttachDocument(context.Background(), uuid.New(), docID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.AttachDocument(context.Background(), c.ID, uuid.Nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestService_SelectSpecialists(t *testing.T) {
	t.Parallel()
	svc := NewService(nil)

	newCase := func(t *testing.T) uuid.UUID {
		t.Helper()
		c, err := svc.Create(context.Background(), "tenancy", uuid.New())
		require.NoError(t, err)
		return c.ID
	}

	t.Run("narrows and deduplicates", func(t *testing.T) {
		t.Parallel()
		id := newCase(t)
		got, err := svc.SelectSpecialists(context.Background(), id, []string{"merits", "evidence", "merits"})
		require.NoError(t, err)
		assert.Equal(t, []constants.Specialist{constants.MeritsAssessment, constants.EvidenceReview}, got.Specialists)
	})

	t.Run("unknown label rejected", func(t *testing.T) {
		t.Parallel()
		id := newCase(t)
		_, err := svc.SelectSpecialists(context.Background(), id, []string{"astrology"})
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})

	t.Run("empty selection restores full set", func(t *testing.T) {
		t.Parallel()
		id := newCase(t)
		_, err := svc.SelectSpecialists(context.Background(), id, []string{"merits"})
		require.NoError(t, err)
		got, err := svc.SelectSpecialists(context.Background(), id, nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, constants.AllSpecialists(), got.Specialists)
	})
}

func TestService_Freeze(t *testing.T) {
	t.Parallel()
	svc := NewService(nil)
	c, err := svc.Create(context.Background(), "employment", uuid.New())
	require.NoError(t, err)

	snap, err := svc.Freeze(context.Background(), c.ID)
	require.NoError(t, err)
	assert.True(t, snap.AnalysisStarted)

	// A frozen case is read-only for intake.
	_, err = svc.AttachDocument(context.Background(), c.ID, uuid.New())
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = svc.SelectSpecialists(context.Background(), c.ID, []string{"merits"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Freeze(context.Background(), uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestService_SnapshotIsolation(t *testing.T) {
	t.Parallel()
	svc := NewService(nil)
	c, err := svc.Create(context.Background(), "contract", uuid.New())
	require.NoError(t, err)

	c.Specialists[0] = constants.SettlementLeverage
	c.SuggestedDocuments = append(c.SuggestedDocuments[:0], "tampered")

	fresh, err := svc.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.AllSpecialists()[0], fresh.Specialists[0])
	assert.NotEqual(t, "tampered", fresh.SuggestedDocuments[0])
}
