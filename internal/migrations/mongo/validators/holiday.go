package validators

import "go.mongodb.org/mongo-driver/bson"

var HolidayValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"destination",
			"start_date",
			"end_date",
			"description",
			"owner_id",
			"subscribers",
			"budget_limit",
			"created_at",
			"updated_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"destination": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"start_date": bson.M{
				"bsonType": "date",
			},

			"end_date": bson.M{
				"bsonType": "date",
			},

			"description": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"subscribers": bson.M{
				"bsonType":    "array",
				"uniqueItems": true,
				"items": bson.M{
					"bsonType":  "string",
					"minLength": 1,
				},
			},

			"expected_weather": bson.M{
				"bsonType": "string",
			},

			"budget_limit": bson.M{
				"bsonType": bson.A{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"cloned_from": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
