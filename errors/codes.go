package errors

import "fmt"

// Kind classifies a failed exchange. The integer value of a Kind is its
// public, stable error code and must never be renumbered.
type Kind int

const (
	KindNoError                       Kind = -100000
	KindInvalidURL                    Kind = -100001
	KindServerNotAvailable            Kind = -100002
	KindInternalServerError           Kind = -100003
	KindBadRequest                    Kind = -100004
	KindBadResponse                   Kind = -100005
	KindNoContent                     Kind = -100006
	KindNoInternetConnectionAvailable Kind = -100007
	KindRequestTimedOut               Kind = -100008
	KindUnauthorized                  Kind = -100009
	KindForbidden                     Kind = -100010
	KindResourceCreated               Kind = -100011
	KindInvalidHTTPStatusCode         Kind = -100013
	KindMaximumRetriesReached         Kind = -100014
	KindConnectivityIssue             Kind = -100015
)

// Domain tells whether a failure is attributed to the client side of the
// exchange or to the remote server.
type Domain string

const (
	DomainClient Domain = "client"
	DomainServer Domain = "server"
)

// NoStatus is the status code carried by errors that have no HTTP status.
const NoStatus = -1

var kindNames = map[Kind]string{
	KindNoError:                       "noError",
	KindInvalidURL:                    "invalidURL",
	KindServerNotAvailable:            "serverNotAvailable",
	KindInternalServerError:           "internalServerError",
	KindBadRequest:                    "badRequest",
	KindBadResponse:                   "badResponse",
	KindNoContent:                     "noContent",
	KindNoInternetConnectionAvailable: "noInternetConnectionAvailable",
	KindRequestTimedOut:               "requestTimedOut",
	KindUnauthorized:                  "unauthorized",
	KindForbidden:                     "forbidden",
	KindResourceCreated:               "resourceCreated",
	KindInvalidHTTPStatusCode:         "invalidHTTPStatusCode",
	KindMaximumRetriesReached:         "maximumRetriesReached",
	KindConnectivityIssue:             "connectivityIssue",
}

// Kinds returns every defined kind in code order.
func Kinds() []Kind {
	return []Kind{
		KindNoError,
		KindInvalidURL,
		KindServerNotAvailable,
		KindInternalServerError,
		KindBadRequest,
		KindBadResponse,
		KindNoContent,
		KindNoInternetConnectionAvailable,
		KindRequestTimedOut,
		KindUnauthorized,
		KindForbidden,
		KindResourceCreated,
		KindInvalidHTTPStatusCode,
		KindMaximumRetriesReached,
		KindConnectivityIssue,
	}
}

// Code returns the stable numeric code of the kind.
func (k Kind) Code() int { return int(k) }

// String returns the kind's name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error lets a Kind act as a sentinel for errors.Is.
func (k Kind) Error() string { return k.String() }

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// KindFromCode decodes a numeric code back into its kind.
func KindFromCode(code int) (Kind, bool) {
	k := Kind(code)
	if !k.Valid() {
		return 0, false
	}
	return k, true
}
