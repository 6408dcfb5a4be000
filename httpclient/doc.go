// Package httpclient is the request pipeline: an immutable Request built
// with RequestBuilder, a Session that resolves it against a base URL and
// sends it through a Provider, and classification of the outcome into
// errors.RequestError.
//
// # Basic Usage
//
//	session, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.themoviedb.org/3/",
//	})
//
//	req := httpclient.NewRequestBuilder().
//	    Resource("movie/popular").
//	    Parameter("api_key", key).
//	    Parameter("language", "en-US").
//	    Build()
//
//	movies, err := httpclient.Send[[]Movie](ctx, session, req)
//	if errors.IsKind(err, errors.KindUnauthorized) {
//	    // ...
//	}
//
// # Certificate Pinning
//
// Setting Config.TLS.PinnedCertDir makes New verify every server through a
// security.TrustValidator. A server whose leaf key is not pinned is refused
// unless a TrustHandler passed with WithTrustHandler decides otherwise.
//
// # Custom Transports
//
// NewSession accepts any Provider, which is how tests replace the network.
package httpclient
