package models

import (
	"context"
	"time"

	"cine-circle/apperror"
	"cine-circle/database"
	"cine-circle/helpers"
	"cine-circle/lookups"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// User is the "interface" used for client communication
type User struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	LoginName      string             `json:"loginName" bson:"loginName"`
	Password       string             `json:"password" bson:"password"` // hash value
	RoleCode       int32              `json:"roleCode" bson:"roleCD"`
	RoleText       string             `json:"roleText" bson:"-"`
	EMailAddress   string             `json:"eMail" bson:"eMail"`
	FavoriteMovies []string           `json:"favoriteMovies" bson:"favoriteMovies,omitempty"`
	LastSeenTS     time.Time          `json:"lastSeenTS" bson:"lastSeenTS,omitempty"`
}

// Profile is the reduced user record the recommendation engine works with.
// FavoriteMovies is deliberately loosely typed: the array is written by clients
// over time and is not guaranteed to contain well-formed movie ids.
type Profile struct {
	UserID         primitive.ObjectID `json:"userID" bson:"_id"`
	UserName       string             `json:"userName" bson:"loginName"`
	FavoriteMovies []interface{}      `json:"favoriteMovies" bson:"favoriteMovies"`
}

// FavoriteMovieIDs returns the well-formed movie ids of a profile,
// silently discarding anything else found in the array
func (p Profile) FavoriteMovieIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(p.FavoriteMovies))
	for _, e := range p.FavoriteMovies {
		switch v := e.(type) {
		case string:
			if id, err := primitive.ObjectIDFromHex(v); err == nil {
				ids = append(ids, id)
			}
		case primitive.ObjectID:
			if v != primitive.NilObjectID {
				ids = append(ids, v)
			}
		}
	}
	return ids
}

// UserModel provides the logic to the interface and access to the database
type UserModel struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

// UserExists checks if a User Name is available - used in client for in-type error checking
// (wrapper of internal helper function)
func (m UserModel) UserExists(ctx context.Context, userName string) bool {
	b, _ := fieldTaken(ctx, m.Collection, "loginName", userName)
	return b
}

// EMailAddressExists checks if an eMail-Address is already assigned with any User Name
// used in client for in-type error checking
func (m UserModel) EMailAddressExists(ctx context.Context, emailAddress string) bool {
	b, _ := fieldTaken(ctx, m.Collection, "eMail", emailAddress)
	return b
}

// CreateUser adds a new User
func (m UserModel) CreateUser(ctx context.Context, user User) (string, error) {

	var err error

	b, err := fieldTaken(ctx, m.Collection, "loginName", user.LoginName)
	if b || err != nil {
		return "", ErrUserNameNotAvailable
	}

	b, err = fieldTaken(ctx, m.Collection, "eMail", user.EMailAddress)
	if b || err != nil {
		return "", ErrEMailAddressTaken
	}

	pwdHash, err := helpers.GenerateHash(user.Password)
	if err != nil {
		return "", err
	}

	user.ID = primitive.NewObjectID()
	user.Password = pwdHash
	user.RoleCode = lookups.UserRoleMember
	user.FavoriteMovies = []string{}
	user.LastSeenTS = time.Now()

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := m.Collection.InsertOne(cctx, user)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// GetUserByName reads a user's login account data
func (m UserModel) GetUserByName(ctx context.Context, userName string) (*User, error) {

	var user User

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := m.Collection.FindOne(cctx, bson.M{"loginName": userName}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInvalidUser
		}
		// pass any other real error
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	addLookups(&user)

	return &user, nil
}

// GetUserByID reads a user's login account data
func (m UserModel) GetUserByID(ctx context.Context, ID string) (*User, error) {

	var user User

	id, err := primitive.ObjectIDFromHex(ID)
	if err != nil {
		return nil, ErrInvalidUser
	}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = m.Collection.FindOne(cctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInvalidUser
		}
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	addLookups(&user)

	return &user, nil
}

// GetUserName returns the login name for an ID (reduced version, without profile data)
func (m UserModel) GetUserName(ctx context.Context, userOID primitive.ObjectID) (string, error) {

	data := struct {
		LoginName string `bson:"loginName"`
	}{}

	fields := bson.D{
		{Key: "_id", Value: 0}, // _id is returned unless explicitly excluded (0)
		{Key: "loginName", Value: 1}}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := m.Collection.FindOne(cctx, bson.M{"_id": userOID}, options.FindOne().SetProjection(fields)).Decode(&data)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", ErrInvalidUser
		}
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	return data.LoginName, nil
}

// GetProfiles batch-reads the reduced profile records for a set of users.
// An empty result is a regular outcome here (callers intersect id sets),
// so no ErrNoData is raised.
func (m UserModel) GetProfiles(ctx context.Context, userOIDs []primitive.ObjectID) ([]Profile, error) {

	fields := bson.D{
		{Key: "_id", Value: 1},
		{Key: "loginName", Value: 1},
		{Key: "favoriteMovies", Value: 1},
	}

	filter := bson.D{
		{Key: "_id", Value: bson.D{{Key: "$in", Value: userOIDs}}},
	}

	opts := options.Find().SetProjection(fields)

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(cctx, filter, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var profiles []Profile
	err = cursor.All(cctx, &profiles)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	if profiles == nil {
		profiles = []Profile{}
	}

	return profiles, nil
}

// AddFavoriteMovie puts a movie on the user's favorites list (no duplicates)
func (m UserModel) AddFavoriteMovie(ctx context.Context, userOID primitive.ObjectID, movieID string) error {

	if _, err := primitive.ObjectIDFromHex(movieID); err != nil {
		return ErrUnknownMovie
	}

	filter := bson.D{{Key: "_id", Value: userOID}}
	update := bson.D{{Key: "$addToSet", Value: bson.D{{Key: "favoriteMovies", Value: movieID}}}}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := m.Collection.UpdateOne(cctx, filter, update)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	if result.MatchedCount != 1 {
		return ErrInvalidUser
	}

	return nil
}

// RemoveFavoriteMovie takes a movie off the user's favorites list
func (m UserModel) RemoveFavoriteMovie(ctx context.Context, userOID primitive.ObjectID, movieID string) error {

	filter := bson.D{{Key: "_id", Value: userOID}}
	update := bson.D{{Key: "$pull", Value: bson.D{{Key: "favoriteMovies", Value: movieID}}}}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := m.Collection.UpdateOne(cctx, filter, update)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	if result.MatchedCount != 1 {
		return ErrInvalidUser
	}

	return nil
}

// CheckPassword tests if a login's password matches
// (no DB access required)
func (m UserModel) CheckPassword(givenPassword string, userInfo User) bool {
	match, err := helpers.CompareHash(userInfo.Password, givenPassword)
	if err != nil {
		return false
	}
	return match
}

// SetLastSeen saves timestamp of last log-in
func (m UserModel) SetLastSeen(userOID primitive.ObjectID) {
	// no error is returned since this function is not essential

	filter := bson.D{{Key: "_id", Value: userOID}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "lastSeenTS", Value: time.Now()}}}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// just fire & forget
	_, _ = m.Collection.UpdateOne(ctx, filter, update)
}

// SetPassword is used to change a User's password
func (m UserModel) SetPassword(ctx context.Context, userOID primitive.ObjectID, newPassword string) error {

	pwdHash, err := helpers.GenerateHash(newPassword)
	if err != nil {
		return err
	}

	filter := bson.D{{Key: "_id", Value: userOID}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "password", Value: pwdHash}}}}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := m.Collection.UpdateOne(cctx, filter, update)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	// just an additional check to discover data consistency problems
	if result.MatchedCount != 1 || result.ModifiedCount != 1 {
		return apperror.ErrMultipleRecords
	}

	return nil
}

// fieldTaken reports whether any user document carries the given value
// (there seems to be no function like "exists" so a projection on just the ID is used)
func fieldTaken(ctx context.Context, collection *mongo.Collection, field string, value string) (bool, error) {
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	fields := bson.D{
		{Key: "_id", Value: 1}}

	data := struct {
		ID primitive.ObjectID `bson:"_id"`
	}{}

	err := collection.FindOne(cctx, bson.M{field: value}, options.FindOne().SetProjection(fields)).Decode(&data)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		// treat errors as a "yes" - caller should not evaluate the result in case of an error
		return true, err
	}
	// no error means a document was found, hence the value is taken
	return true, nil
}

// internal helper to attach look-up texts
func addLookups(user *User) *User {
	user.RoleText = database.GetLookupText(lookups.LookupType(lookups.LTuserRole), user.RoleCode)
	return user
}
