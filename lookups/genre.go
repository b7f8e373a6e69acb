package lookups

// Symbols of legal values
// the full genre list lives in the system collection; these are the ones the code needs
const (
	GenreUnspecified = int32(iota)
	GenreDrama
	GenreComedy
	GenreAction
	GenreDocumentary
)

// Genre returns a "generic" string for a given value
func Genre(value int32) string {

	var str = ""

	switch {
	case value == GenreUnspecified:
		str = "unspecified"
	case value == GenreDrama:
		str = "drama"
	case value == GenreComedy:
		str = "comedy"
	case value == GenreAction:
		str = "action"
	case value == GenreDocumentary:
		str = "documentary"
	}

	return str
}
