package models

import (
	"errors"
)

// custom error types (generic types found in apperror package)

// user
var (
	ErrUserNameNotAvailable = errors.New("user name is not available")
	ErrEMailAddressTaken    = errors.New("email-address is already used")
	ErrInvalidUser          = errors.New("invalid user name or password")
	ErrInvalidPassword      = errors.New("password does not meet rules")
)

// follow graph
var (
	ErrInvalidFollow = errors.New("could not add/remove follow")
)

// content
// transformed by controllers to respective Unprocessable Entity (422)
var (
	ErrPostEmpty     = errors.New("post content is required")
	ErrCommentEmpty  = errors.New("comment is required")
	ErrInvalidStars  = errors.New("stars must be between 1 and 5")
	ErrUnknownMovie  = errors.New("movie does not exist")
	ErrTitleMissing  = errors.New("movie title is required")
	ErrInvalidRating = errors.New("could not save rating")
)
