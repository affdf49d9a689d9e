package metacache

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/kailas-cloud/movierec/internal/domain/metadata"
)

// metadataDTO is the cached JSON shape of metadata.Metadata.
type metadataDTO struct {
	PosterURL  string   `json:"poster_url,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	IMDbURL    string   `json:"imdb_url,omitempty"`
	TrailerURL string   `json:"trailer_url,omitempty"`
}

func encodeMetadata(m metadata.Metadata) ([]byte, error) {
	data, err := json.Marshal(metadataDTO{
		PosterURL:  m.PosterURL,
		Rating:     m.Rating,
		Genres:     m.Genres,
		IMDbURL:    m.IMDbURL,
		TrailerURL: m.TrailerURL,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return data, nil
}

func decodeMetadata(data []byte) (metadata.Metadata, error) {
	var dto metadataDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return metadata.Metadata{}, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return metadata.Metadata{
		PosterURL:  dto.PosterURL,
		Rating:     dto.Rating,
		Genres:     dto.Genres,
		IMDbURL:    dto.IMDbURL,
		TrailerURL: dto.TrailerURL,
	}, nil
}
