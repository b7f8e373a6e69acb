package helpers

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectID converts a string to a MongoDB ObjectID without the need of error checking
// (placed here so the database package is not required by the controllers package)
func ObjectID(ID string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(ID)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}

// ObjectIDs converts a list of hex strings, silently dropping malformed entries
// (user-maintained arrays are not guaranteed to be well-formed)
func ObjectIDs(IDs []string) []primitive.ObjectID {
	oids := make([]primitive.ObjectID, 0, len(IDs))
	for _, s := range IDs {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			continue
		}
		oids = append(oids, id)
	}
	return oids
}

// HexIDs is the reverse of ObjectIDs
func HexIDs(oids []primitive.ObjectID) []string {
	ids := make([]string, 0, len(oids))
	for _, oid := range oids {
		ids = append(ids, oid.Hex())
	}
	return ids
}
