package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"holidayplanner/pkg/model"
)

func strPtr(s string) *string { return &s }

func TestUpdateDocument_OnlyPatchedFields(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	doc, err := updateDocument(&model.HolidayUpdate{Name: strPtr("Autumn")}, at)
	require.NoError(t, err)

	assert.Equal(t, bson.M{"$set": bson.M{"name": "Autumn", "updated_at": at}}, doc)
}

func TestUpdateDocument(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	budget := 1200.0

	tests := []struct {
		name      string
		update    *model.HolidayUpdate
		wantSet   bson.M
		wantUnset bson.M
	}{
		{
			name:    "dates are stored as calendar days",
			update:  &model.HolidayUpdate{StartDate: strPtr("2024-07-01"), EndDate: strPtr("2024-07-10T18:30:00Z")},
			wantSet: bson.M{"start_date": time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), "end_date": time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC), "updated_at": at},
		},
		{
			name:      "empty weather clears the field",
			update:    &model.HolidayUpdate{ExpectedWeather: strPtr(""), BudgetLimit: &budget},
			wantSet:   bson.M{"budget_limit": budget, "updated_at": at},
			wantUnset: bson.M{"expected_weather": ""},
		},
		{
			name:    "weather is set",
			update:  &model.HolidayUpdate{ExpectedWeather: strPtr("rainy")},
			wantSet: bson.M{"expected_weather": "rainy", "updated_at": at},
		},
		{
			name:    "empty patch only bumps updated_at",
			update:  &model.HolidayUpdate{},
			wantSet: bson.M{"updated_at": at},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := updateDocument(tt.update, at)
			require.NoError(t, err)

			assert.Equal(t, tt.wantSet, doc["$set"])
			if tt.wantUnset == nil {
				assert.NotContains(t, doc, "$unset")
			} else {
				assert.Equal(t, tt.wantUnset, doc["$unset"])
			}
		})
	}
}

func TestUpdateDocument_BadDate(t *testing.T) {
	_, err := updateDocument(&model.HolidayUpdate{EndDate: strPtr("next week")}, time.Now())
	assert.Error(t, err)
}
