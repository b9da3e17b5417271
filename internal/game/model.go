package game

// Genre represents a row in the genres table.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Game represents a row in the games table together with its genres.
type Game struct {
	ID     int64
	Name   string
	Genres []Genre
}
