package gsheets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
)

func TestMapRowsHeaderKeyed(t *testing.T) {
	values := [][]interface{}{
		{"student_id", "classes_attended", "total_classes", "date"},
		{"S1", float64(17), float64(20), "05-03-2024"},
		{"S2", float64(12)},
	}

	rows, err := mapRows(record.TableAttendance, values)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "S1", rows[0]["student_id"])
	assert.Equal(t, "17", rows[0]["classes_attended"])
	assert.Equal(t, "05-03-2024", rows[0]["date"])
	// short row padded with empty cells
	assert.Equal(t, "", rows[1]["total_classes"])
	assert.Equal(t, "", rows[1]["date"])
}

func TestMapRowsMissingColumn(t *testing.T) {
	values := [][]interface{}{
		{"student_id", "classes_attended", "date"},
		{"S1", "17", "05-03-2024"},
	}

	_, err := mapRows(record.TableAttendance, values)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrMissingColumn))
	assert.True(t, errors.Is(err, shared.ErrSchemaMismatch))
	assert.Contains(t, err.Error(), "total_classes")
}

func TestMapRowsEmptySheet(t *testing.T) {
	_, err := mapRows(record.TableAttendance, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrSheetEmpty))
	assert.True(t, errors.Is(err, shared.ErrSchemaMismatch))
}

func TestMapRowsExtraColumnsCarried(t *testing.T) {
	values := [][]interface{}{
		{"student_id", "classes_attended", "total_classes", "date", "notes"},
		{"S1", "17", "20", "05-03-2024", "late entry"},
	}

	rows, err := mapRows(record.TableAttendance, values)
	require.NoError(t, err)
	assert.Equal(t, "late entry", rows[0]["notes"])
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "85", cellString(float64(85)))
	assert.Equal(t, "85.5", cellString(85.5))
	assert.Equal(t, "paid", cellString("paid"))
	assert.Equal(t, "", cellString(nil))
	assert.Equal(t, "TRUE", cellString(true))
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CredentialsJSON = []byte(`{"type":"service_account"}`)
	cfg.SpreadsheetIDs = map[record.Table]string{
		record.TableStudents:    "sid-students",
		record.TableAttendance:  "sid-attendance",
		record.TableAssessments: "sid-assessments",
		record.TableFees:        "sid-fees",
	}
	require.NoError(t, cfg.Validate())

	delete(cfg.SpreadsheetIDs, record.TableFees)
	require.Error(t, cfg.Validate())
}
