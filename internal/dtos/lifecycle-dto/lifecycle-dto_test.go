package lifecycle_dto

import (
	"testing"

	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidator_StartCaseRequest(t *testing.T) {
	v := NewValidator()

	ok := StartCaseRequest{Kind: "onboarding", SubjectID: uuid.NewString()}
	assert.NoError(t, v.Struct(ok))

	bad := StartCaseRequest{Kind: "promotion", SubjectID: "42"}
	err := v.Struct(bad)
	require.Error(t, err)

	fields := app_errors.ParseValidationError(err)
	require.Len(t, fields, 2)
	assert.Equal(t, "kind", fields[0].Field)
	assert.Equal(t, "validation.case_kind", fields[0].MessageKey)
	assert.Equal(t, "subject_id", fields[1].Field)
	assert.Equal(t, "validation.uuid", fields[1].MessageKey)
}

func TestNewValidator_BulkDivesIntoSubjects(t *testing.T) {
	v := NewValidator()

	err := v.Struct(BulkStartCaseRequest{Kind: "offboarding", SubjectIDs: []string{uuid.NewString(), "nope"}})
	require.Error(t, err)

	err = v.Struct(BulkStartCaseRequest{Kind: "offboarding"})
	require.Error(t, err)
}

func TestUpdateCaseRequest_DecodesPatchAndTasks(t *testing.T) {
	body := `{
		"status": "In_Progress",
		"notes": null,
		"expected_version": 3,
		"tasks": [{"id": "` + uuid.NewString() + `", "label": "IT setup"}, {"label": "New one"}]
	}`

	var req UpdateCaseRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.True(t, req.Status.Set)
	assert.Equal(t, "In_Progress", *req.Status.Value)
	assert.True(t, req.Notes.Set)
	assert.Nil(t, req.Notes.Value)
	assert.False(t, req.StartDate.Set)
	require.NotNil(t, req.ExpectedVersion)
	assert.Equal(t, int64(3), *req.ExpectedVersion)
	require.NotNil(t, req.Tasks)
	require.Len(t, *req.Tasks, 2)
	assert.Nil(t, (*req.Tasks)[1].ID)

	assert.Empty(t, req.CasePatch.Validate())
}

func TestUpdateCaseRequest_WithoutTasksKeepsNil(t *testing.T) {
	var req UpdateCaseRequest
	require.NoError(t, json.Unmarshal([]byte(`{"notes": "x"}`), &req))
	assert.Nil(t, req.Tasks)

	var empty UpdateCaseRequest
	require.NoError(t, json.Unmarshal([]byte(`{"tasks": []}`), &empty))
	require.NotNil(t, empty.Tasks)
	assert.Len(t, *empty.Tasks, 0)
}

func TestPatchValidate(t *testing.T) {
	var cp CasePatch
	require.NoError(t, json.Unmarshal([]byte(`{"status": "Archived", "start_date": null}`), &cp))
	errs := cp.Validate()
	require.Len(t, errs, 2)
	assert.Equal(t, "status", errs[0].Field)
	assert.Equal(t, "start_date", errs[1].Field)

	var tp TaskPatch
	require.NoError(t, json.Unmarshal([]byte(`{"label": "  ", "status": "Cancelled", "assignee_id": "x"}`), &tp))
	errs = tp.Validate()
	require.Len(t, errs, 3)
	assert.Equal(t, "label", errs[0].Field)
	assert.Equal(t, "validation.task_status", errs[1].MessageKey)
	assert.Equal(t, "assignee_id", errs[2].Field)
}
