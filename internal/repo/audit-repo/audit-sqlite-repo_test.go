package audit_repo

import (
	"context"
	"testing"
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/db"
	"github.com/emamhosenCSE/aeos365-hrm/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditSQLiteRepo_InsertAndList(t *testing.T) {
	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	repo := NewAuditSQLiteRepo(conn)
	ctx := context.Background()
	caseID := uuid.NewString()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	first := &entity.AuditEntry{
		ID:           uuid.NewString(),
		ActorID:      uuid.NewString(),
		Action:       "case.start",
		ResourceType: entity.ResourceCase,
		ResourceID:   caseID,
		Changes: map[string]entity.FieldChange{
			"status": {Before: nil, After: "Pending"},
		},
		OccurredAt: base,
	}
	second := &entity.AuditEntry{
		ID:           uuid.NewString(),
		ActorID:      first.ActorID,
		Action:       "case.cancel",
		ResourceType: entity.ResourceCase,
		ResourceID:   caseID,
		Changes: map[string]entity.FieldChange{
			"status": {Before: "Pending", After: "Cancelled"},
		},
		OccurredAt: base.Add(time.Hour),
	}

	require.Nil(t, repo.InsertEntry(ctx, first))
	require.Nil(t, repo.InsertEntry(ctx, second))
	// redelivered job
	require.Nil(t, repo.InsertEntry(ctx, second))

	entries, appErr := repo.ListByResource(ctx, caseID, 10)
	require.Nil(t, appErr)
	require.Len(t, entries, 2)
	assert.Equal(t, "case.cancel", entries[0].Action)
	assert.Equal(t, "Cancelled", entries[0].Changes["status"].After)
	assert.Equal(t, "Pending", entries[0].Changes["status"].Before)
	assert.Nil(t, entries[1].Changes["status"].Before)
	assert.True(t, entries[1].OccurredAt.Equal(base))
}
