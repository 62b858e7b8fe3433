package types

import "strings"

// Movie is a single movie record as returned by the catalog provider.
// Identity is the provider id; all other fields are informational and
// immutable once decoded.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	Adult            bool    `json:"adult"`
}

// Year returns the release year, the portion of ReleaseDate before the
// first dash. Empty when the release date is unknown.
func (m *Movie) Year() string {
	if m.ReleaseDate == "" {
		return ""
	}
	if i := strings.Index(m.ReleaseDate, "-"); i >= 0 {
		return m.ReleaseDate[:i]
	}
	return m.ReleaseDate
}

// CastMember is one acting credit. Two CastMembers refer to the same
// person exactly when their IDs match.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	Order       int    `json:"order"`
	ProfilePath string `json:"profile_path"`
	Gender      int    `json:"gender"`
}

// CrewMember is one crew credit (director, writer, ...). Equality is
// keyed on ID, same as CastMember.
type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
	Gender      int    `json:"gender"`
}

// Credits aggregates the cast and crew of one movie. Slice order follows
// the provider's billing order and is relied on for deterministic
// connection selection.
type Credits struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// MovieList is one page of a paginated catalog response.
type MovieList struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Genre is one entry of the provider's genre taxonomy.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreList is the taxonomy response envelope.
type GenreList struct {
	Genres []Genre `json:"genres"`
}
