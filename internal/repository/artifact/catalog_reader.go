package artifact

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/movie"
)

// movieColumns holds leaf-level column indexes of the catalog parquet file (-1 = absent).
type movieColumns struct {
	id          int
	title       int
	genres      int
	releaseDate int
	year        int
}

// resolveMovieColumns finds column indexes by top-level name.
func resolveMovieColumns(pf *parquet.File) movieColumns {
	cols := movieColumns{id: -1, title: -1, genres: -1, releaseDate: -1, year: -1}
	for i, path := range pf.Schema().Columns() {
		if len(path) == 0 {
			continue
		}
		switch path[0] {
		case "movie_id":
			cols.id = i
		case "id":
			if cols.id < 0 {
				cols.id = i
			}
		case "title":
			cols.title = i
		case "genres":
			cols.genres = i
		case "genre":
			if cols.genres < 0 {
				cols.genres = i
			}
		case "release_date":
			cols.releaseDate = i
		case "year":
			cols.year = i
		}
	}
	return cols
}

// movieRow is the raw content of one catalog row before validation.
type movieRow struct {
	id       int64
	hasID    bool
	title    string
	hasTitle bool
	genres   []string
	year     *int
}

// ReadCatalog reads the movie catalog from a parquet file, preserving row order.
func ReadCatalog(path string) ([]movie.Movie, error) {
	h, err := openParquet(path)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	cols := resolveMovieColumns(h.pf)
	if cols.id < 0 || cols.title < 0 {
		return nil, domain.NewArtifactCorrupt(path,
			errors.New("catalog must have movie_id (or id) and title columns"))
	}

	movies := make([]movie.Movie, 0, h.pf.NumRows())
	for _, rg := range h.pf.RowGroups() {
		rows := parquet.NewRowGroupReader(rg)
		buf := make([]parquet.Row, 1000)

		for {
			n, readErr := rows.ReadRows(buf)
			for i := 0; i < n; i++ {
				r := rowToMovie(buf[i], cols)
				m, err := r.toMovie(len(movies))
				if err != nil {
					return nil, domain.NewArtifactCorrupt(path, err)
				}
				movies = append(movies, m)
			}

			if readErr != nil {
				if errors.Is(readErr, io.EOF) {
					break
				}
				return nil, domain.NewArtifactCorrupt(path, fmt.Errorf("read rows: %w", readErr))
			}
		}
	}

	return movies, nil
}

func (r movieRow) toMovie(pos int) (movie.Movie, error) {
	if !r.hasID {
		return movie.Movie{}, fmt.Errorf("row %d: movie id is null", pos)
	}
	if !r.hasTitle {
		return movie.Movie{}, fmt.Errorf("row %d: title is null", pos)
	}
	m, err := movie.New(r.id, r.title, r.genres, r.year)
	if err != nil {
		return movie.Movie{}, fmt.Errorf("row %d: %w", pos, err)
	}
	return m, nil
}

// rowToMovie extracts a movieRow from a generic parquet row by column index.
// Genre cells may be a delimited string or a list of strings.
func rowToMovie(row parquet.Row, cols movieColumns) movieRow {
	var r movieRow
	var genres []string

	for _, v := range row {
		if v.IsNull() {
			continue
		}
		switch v.Column() {
		case cols.id:
			if id, ok := valueInt(v); ok {
				r.id, r.hasID = id, true
			}
		case cols.title:
			r.title, r.hasTitle = v.String(), true
		case cols.genres:
			genres = append(genres, movie.ParseGenres(v.String())...)
		case cols.releaseDate:
			if y, ok := releaseYear(v); ok && r.year == nil {
				r.year = &y
			}
		case cols.year:
			if y, ok := valueInt(v); ok {
				yy := int(y)
				r.year = &yy
			}
		}
	}

	r.genres = dedupe(genres)
	return r
}

// valueInt reads integer-like values stored as ints, floats or numeric strings.
func valueInt(v parquet.Value) (int64, bool) {
	switch v.Kind() {
	case parquet.Int32:
		return int64(v.Int32()), true
	case parquet.Int64:
		return v.Int64(), true
	case parquet.Float:
		return int64(v.Float()), true
	case parquet.Double:
		return int64(v.Double()), true
	case parquet.ByteArray, parquet.FixedLenByteArray:
		s := strings.TrimSpace(v.String())
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f), true
		}
	}
	return 0, false
}

// releaseYear extracts the year from a "YYYY-MM-DD..." string or a DATE (days since epoch).
func releaseYear(v parquet.Value) (int, bool) {
	switch v.Kind() {
	case parquet.Int32:
		return time.Unix(int64(v.Int32())*86400, 0).UTC().Year(), true
	case parquet.ByteArray, parquet.FixedLenByteArray:
		s := strings.TrimSpace(v.String())
		if len(s) < 4 {
			return 0, false
		}
		y, err := strconv.Atoi(s[:4])
		if err != nil {
			return 0, false
		}
		return y, true
	}
	return 0, false
}

func dedupe(genres []string) []string {
	if len(genres) < 2 {
		return genres
	}
	seen := make(map[string]struct{}, len(genres))
	out := genres[:0]
	for _, g := range genres {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

// parquetHandle wraps parquet.File + underlying os.File for proper cleanup.
type parquetHandle struct {
	pf   *parquet.File
	file *os.File
}

func (h *parquetHandle) Close() {
	_ = h.file.Close()
}

func openParquet(path string) (*parquetHandle, error) {
	cleanPath := filepath.Clean(path)
	f, err := os.Open(cleanPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.NewArtifactMissing(path, err)
		}
		return nil, domain.NewArtifactCorrupt(path, fmt.Errorf("open: %w", err))
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, domain.NewArtifactCorrupt(path, fmt.Errorf("stat: %w", err))
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		_ = f.Close()
		return nil, domain.NewArtifactCorrupt(path, fmt.Errorf("open parquet: %w", err))
	}
	return &parquetHandle{pf: pf, file: f}, nil
}
