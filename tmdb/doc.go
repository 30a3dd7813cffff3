// Package tmdb provides a client for The Movie Database (TMDB) v3 API.
//
// The package covers the small slice of TMDB that a catalog browser needs:
// listing endpoints that answer with a paginated envelope of movies or TV
// series. Only the first page is ever requested.
//
// # Architecture
//
//   - Client: the HTTP wrapper. It owns the base URL, a fixed request timeout,
//     and the two interceptors that run around every call.
//   - Resource: per-kind accessors (Movies, TV) mapping an intent such as
//     popular, search or trending to exactly one request.
//   - Types: the response envelope and the Item record, tagged with a Kind.
//   - Errors: TimeoutError, APIError and ParseError.
//
// # Usage
//
//	params := tmdb.StaticParams{APIKey: "your-api-key", Language: "it-IT"}
//	client, err := tmdb.NewClient(tmdb.DefaultBaseURL, params, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	env, err := client.Movies().Search(ctx, "batman", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, item := range env.Results {
//		fmt.Println(item.DisplayName())
//	}
//
// # Shared parameters
//
// Every request carries api_key and language. They are read from a
// ParamsSource when the request is built, so a change to the credential or
// locale applies to the next call without rebuilding the client. Shared
// parameters take precedence over caller-supplied ones.
//
// # Error Handling
//
// Failures are logged by the client and then returned unchanged:
//
//	var apiErr *tmdb.APIError
//	if errors.As(err, &apiErr) && apiErr.IsRateLimited() {
//		// back off
//	}
package tmdb
