package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"holidayplanner/pkg/model"
)

const (
	SortByDestination = "destination"
	SortByDate        = "date"
	SortByName        = "name"
	SortByCreated     = "created"
)

// SortStrategy pairs the store-side ordering with the equivalent in-memory
// comparator. Every strategy ends on _id so equal keys still order stably.
type SortStrategy struct {
	Name   string
	Fields bson.D
	Less   func(a, b *model.Holiday) bool
}

var sortStrategies = map[string]SortStrategy{
	SortByDestination: {
		Name:   SortByDestination,
		Fields: bson.D{{Key: "destination", Value: 1}, {Key: "_id", Value: 1}},
		Less: func(a, b *model.Holiday) bool {
			if a.Destination != b.Destination {
				return a.Destination < b.Destination
			}
			return a.ID < b.ID
		},
	},
	SortByDate: {
		Name:   SortByDate,
		Fields: bson.D{{Key: "start_date", Value: 1}, {Key: "_id", Value: 1}},
		Less: func(a, b *model.Holiday) bool {
			if !a.StartDate.Equal(b.StartDate) {
				return a.StartDate.Before(b.StartDate)
			}
			return a.ID < b.ID
		},
	},
	SortByName: {
		Name:   SortByName,
		Fields: bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}},
		Less: func(a, b *model.Holiday) bool {
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.ID < b.ID
		},
	},
}

var defaultSort = SortStrategy{
	Name:   SortByCreated,
	Fields: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
	Less: func(a, b *model.Holiday) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	},
}

// ResolveSort maps a request key to a strategy. Keys match exactly; unknown
// or empty keys fall back to newest-first.
func ResolveSort(key string) SortStrategy {
	if s, ok := sortStrategies[key]; ok {
		return s
	}
	return defaultSort
}
