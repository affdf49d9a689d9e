package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/movierec/internal/domain/similarity"
)

type catalogRow struct {
	MovieID     int64   `parquet:"movie_id"`
	Title       string  `parquet:"title"`
	Genres      string  `parquet:"genres"`
	ReleaseDate *string `parquet:"release_date,optional"`
}

type altCatalogRow struct {
	ID     int64    `parquet:"id"`
	Title  string   `parquet:"title"`
	Genres []string `parquet:"genres,list"`
	Year   int32    `parquet:"year"`
}

type untitledRow struct {
	MovieID int64  `parquet:"movie_id"`
	Name    string `parquet:"name"`
}

func strPtr(s string) *string { return &s }

func writeParquet[T any](t *testing.T, rows []T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movie_list.parquet")
	if err := parquet.WriteFile(path, rows); err != nil {
		t.Fatalf("write parquet: %v", err)
	}
	return path
}

func writeMatrix(t *testing.T, rows [][]float32) string {
	t.Helper()
	m, err := similarity.FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	path := filepath.Join(t.TempDir(), "similarity.bin")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := EncodeMatrix(f, m); err != nil {
		t.Fatalf("EncodeMatrix: %v", err)
	}
	return path
}

func threeMovies() []catalogRow {
	return []catalogRow{
		{MovieID: 19995, Title: "Avatar", Genres: "Action|Adventure|Fantasy", ReleaseDate: strPtr("2009-12-10")},
		{MovieID: 285, Title: "Pirates of the Caribbean: At World's End", Genres: "Adventure, Fantasy", ReleaseDate: strPtr("2007-05-19")},
		{MovieID: 206647, Title: "Spectre", Genres: "", ReleaseDate: nil},
	}
}

func identity3() [][]float32 {
	return [][]float32{
		{1, 0.2, 0.1},
		{0.2, 1, 0.3},
		{0.1, 0.3, 1},
	}
}
