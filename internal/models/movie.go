package models

import (
	"time"
)

// MovieCandidate is a bare suggestion as produced by the AI provider.
type MovieCandidate struct {
	Title string `json:"title" example:"Inception"`
	Year  int    `json:"year" example:"2010"`
}

// SearchResult is an autocomplete candidate projected from a TMDb search hit.
type SearchResult struct {
	ID    int    `json:"id" example:"27205"`
	Title string `json:"title" example:"Inception"`
	Year  string `json:"year" example:"2010"`
}

// MovieDetails is the enrichment payload for a single suggestion.
type MovieDetails struct {
	Overview  string  `json:"overview" example:"Cobb, a skilled thief who commits corporate espionage..."`
	PosterURL *string `json:"posterUrl" example:"https://image.tmdb.org/t/p/w500/oYuLEt3zVCKq57qu2F8dT7NIa6f.jpg"`
}

type TMDBMovieResponse struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	OriginalLanguage string  `json:"original_language"`
}

type TMDBSearchResponse struct {
	Page         int                 `json:"page"`
	Results      []TMDBMovieResponse `json:"results"`
	TotalPages   int                 `json:"total_pages"`
	TotalResults int                 `json:"total_results"`
}

// ReleaseYear returns the four-digit year of the release date, or "N/A".
func (m TMDBMovieResponse) ReleaseYear() string {
	if len(m.ReleaseDate) < 4 {
		return "N/A"
	}
	return m.ReleaseDate[:4]
}

const (
	SuggestionStatusSuccess = "success"
	SuggestionStatusFailed  = "failed"
)

// SuggestionLog records one call to the AI provider. It is written after the
// response is produced and never read back by the suggest flow.
type SuggestionLog struct {
	ID           uint             `gorm:"primaryKey" json:"id" example:"1"`
	RequestID    string           `gorm:"index;size:64" json:"request_id" example:"7f1c7d5e-3c1b-4c55-9d59-3c1a2f1c0e11"`
	Movies       []string         `gorm:"serializer:json;type:text" json:"movies"`
	Exclude      []string         `gorm:"serializer:json;type:text" json:"exclude"`
	Suggested    []MovieCandidate `gorm:"serializer:json;type:text" json:"suggested"`
	Count        int              `json:"count" example:"5"`
	Status       string           `gorm:"index" json:"status" example:"success"`
	ErrorMessage string           `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time        `gorm:"index" json:"created_at"`
}

func (SuggestionLog) TableName() string {
	return "suggestion_logs"
}
