// Package movierec embeds the movie recommender in a Go program.
//
// The client loads the precomputed catalog and similarity matrix once and
// answers filtered top-k queries in-process. Metadata enrichment is optional:
// plug in TMDB, a custom provider, or run without one (placeholder cards).
//
//	client, _ := movierec.New(ctx,
//	    movierec.WithArtifacts("artifacts/movie_list.parquet", "artifacts/similarity.bin"),
//	    movierec.WithTMDB(os.Getenv("TMDB_API_KEY")),
//	    movierec.WithCache("localhost:6379", "", 24*time.Hour),
//	)
//	defer client.Close()
//
//	recs, _ := client.Recommend(ctx, "Avatar", movierec.Filter{Genres: []string{"Action"}}, 5)
//	for _, c := range recs.Cards {
//	    fmt.Println(c.Rank, c.Movie.Title, c.RatingLabel, c.Metadata.TrailerURL)
//	}
package movierec
