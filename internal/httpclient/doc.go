// Package httpclient builds the immutable request template and the shared
// HTTP client.
//
// Use [NewRequestBuilder] to validate and freeze the template once, before
// the run starts:
//
//	builder, err := httpclient.NewRequestBuilder(cfg)
//	if err != nil {
//		return err
//	}
//	req, err := builder.Build(ctx)
//
// Build never re-validates: template errors surface at construction, so a
// bad URL or header aborts before any attempt is dispatched.
//
// [NewClient] creates an HTTP client tuned for repeated calls against a
// single host, with the per-request timeout applied:
//
//	client := httpclient.NewClient(30 * time.Second)
package httpclient
