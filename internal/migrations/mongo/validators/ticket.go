package validators

import "go.mongodb.org/mongo-driver/bson"

var TicketValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"enrollment_id",
			"status",
			"ticket_type",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "long",
			},

			"enrollment_id": bson.M{
				"bsonType": "long",
				"minimum":  1,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"RESERVED",
					"PAID",
				},
			},

			"ticket_type": bson.M{
				"bsonType": "object",
				"required": []string{
					"name",
					"is_remote",
					"includes_hotel",
				},
				"properties": bson.M{
					"_id": bson.M{
						"bsonType": "long",
					},
					"name": bson.M{
						"bsonType":  "string",
						"minLength": 1,
						"maxLength": 100,
					},
					"is_remote": bson.M{
						"bsonType": "bool",
					},
					"includes_hotel": bson.M{
						"bsonType": "bool",
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
