// Package errors defines the classified error taxonomy of the request
// pipeline. Every runtime failure of an exchange is reported as a
// RequestError whose Kind carries a stable negative code, together with
// the rules that map HTTP status codes and transport failures onto kinds.
//
//	if errors.IsKind(err, errors.KindUnauthorized) {
//	    // refresh credentials
//	}
package errors
