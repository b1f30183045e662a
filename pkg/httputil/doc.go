// Package httputil provides HTTP helpers shared by remote data sources.
//
// # Retry
//
// [Retry] re-runs a request with exponential backoff. Only failures wrapped
// in [RetryableError] are retried:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Anything else (a 404, a malformed body) is returned on the first attempt.
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// [Classify] maps a response status to that policy.
package httputil
