// Package client provides the transport layer of the pixeldrain API
// client: a configurable HTTP client built on [net/http] plus the
// response envelope resolver shared by every operation.
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithAPIKey(key),
//		client.WithTimeout(10 * time.Minute),
//		client.WithUserAgent("myapp/1.0"),
//	)
//
// # Making Requests
//
// Resolve a path with [Client.URL], build a [Request], then execute
// with [Client.Do]:
//
//	u := c.URL("file/" + url.PathEscape(id) + "/info")
//	req, err := c.Request(ctx, u, http.MethodGet)
//	err = c.Do(req, client.WithDestination(&info))
//
// Any non-2xx response becomes an *errs.Error carrying the code and
// message of the API's error envelope, so callers branch on the code:
//
//	if errs.IsCode(err, "not_found") { ... }
//
// # Streaming
//
// Request bodies that may be resent (redirects, reused connections)
// are given as a [Streamer] through [WithStream]; response bodies are
// consumed incrementally with [Client.Stream].
package client
