package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

type SuggestRequest struct {
	Movies  []string `json:"movies" validate:"required,min=1,dive,required" example:"Up (2009),Heat"`
	Exclude []string `json:"exclude" example:"Coco"`
}

type DetailsRequest struct {
	Title         string `json:"title" validate:"required" example:"Inception"`
	Year          Year   `json:"year" swaggertype:"integer" example:"2010"`
	IncludePoster bool   `json:"includePoster" example:"true"`
}

// Year accepts a JSON number, a numeric string, or null.
type Year string

func (y *Year) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*y = ""
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = Year(strings.TrimSpace(s))
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("year must be a number or a string: %w", err)
	}
	*y = Year(strconv.Itoa(int(n)))
	return nil
}
