package database

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"cine-circle/apperror"
)

// LookupType represents the Code's Domain
type LookupType struct {
	ID     primitive.ObjectID `json:"-" bson:"_id"`
	Name   string             `json:"lookupType" bson:"codeType"`
	Values []LookupValue      `json:"values" bson:"values"`
}

// LookupValue is one selectable option within a LookupType
type LookupValue struct {
	Value    int32  `json:"value" bson:"codeValue"`
	Disabled bool   `json:"disabled" bson:"disabled"`
	Default  bool   `json:"default" bson:"default"`
	Text     string `json:"text" bson:"codeText"`
}

// GetLookupText returns the display text for a code value
func GetLookupText(lookupType string, value int32) string {
	for t := range lookups {
		if lookups[t].Name == lookupType {
			for v := range lookups[t].Values {
				if lookups[t].Values[v].Value == value {
					return lookups[t].Values[v].Text
				}
			}
		}
	}

	return ""
}

// GetLookupValue returns the code value for a display text (reverse look-up)
func GetLookupValue(lookupType string, text string) (int32, error) {
	for t := range lookups {
		if lookups[t].Name == lookupType {
			for v := range lookups[t].Values {
				if lookups[t].Values[v].Text == text {
					return lookups[t].Values[v].Value, nil
				}
			}
		}
	}

	return 0, apperror.ErrNoData
}

// internal loader of the code-map, used only by "OpenConnection"
// (handlers retrieve the data via the singleton)
func getLookupMap() ([]LookupType, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// get a collection to interact with (would be created as needed)
	collection := client.Database(os.Getenv("DB_NAME")).Collection("system")

	filter := bson.D{{Key: "codeType", Value: bson.D{{Key: "$exists", Value: "true"}}}}

	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	var lookupTypes []LookupType
	if err = cursor.All(ctx, &lookupTypes); err != nil {
		return nil, err
	}

	return lookupTypes, nil
}
