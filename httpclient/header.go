package httpclient

// Method is an HTTP request method.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodPatch   Method = "PATCH"
	MethodOptions Method = "OPTIONS"
)

// Header is a well-known HTTP request header name.
type Header string

const (
	HeaderAccept             Header = "Accept"
	HeaderAcceptCharset      Header = "Accept-Charset"
	HeaderAcceptEncoding     Header = "Accept-Encoding"
	HeaderAcceptLanguage     Header = "Accept-Language"
	HeaderAcceptDatetime     Header = "Accept-Datetime"
	HeaderAuthorization      Header = "Authorization"
	HeaderCacheControl       Header = "Cache-Control"
	HeaderConnection         Header = "Connection"
	HeaderCookie             Header = "Cookie"
	HeaderContentLength      Header = "Content-Length"
	HeaderContentMD5         Header = "Content-MD5"
	HeaderContentType        Header = "Content-Type"
	HeaderDate               Header = "Date"
	HeaderExpect             Header = "Expect"
	HeaderForwarded          Header = "Forwarded"
	HeaderFrom               Header = "From"
	HeaderHost               Header = "Host"
	HeaderIfMatch            Header = "If-Match"
	HeaderIfModifiedSince    Header = "If-Modified-Since"
	HeaderIfNoneMatch        Header = "If-None-Match"
	HeaderIfRange            Header = "If-Range"
	HeaderIfUnmodifiedSince  Header = "If-Unmodified-Since"
	HeaderMaxForwards        Header = "Max-Forwards"
	HeaderOrigin             Header = "Origin"
	HeaderPragma             Header = "Pragma"
	HeaderProxyAuthorization Header = "Proxy-Authorization"
	HeaderRange              Header = "Range"
	HeaderReferer            Header = "Referer"
	HeaderTransferEncoding   Header = "TE"
	HeaderUserAgent          Header = "User-Agent"
	HeaderUpgrade            Header = "Upgrade"
	HeaderVia                Header = "Via"
	HeaderWarning            Header = "Warning"
)

// Common MIME types.
const (
	MimeJSON      = "application/json"
	MimeForm      = "application/x-www-form-urlencoded"
	MimePDF       = "application/pdf"
	MimeMultipart = "multipart/form-data"
	MimeHTML      = "text/html"
	MimePNG       = "image/png"
	MimeJPEG      = "image/jpeg"
	MimeGIF       = "image/gif"
)

// DataFormat is how a request body is serialized.
type DataFormat int

const (
	FormatJSON DataFormat = iota
	FormatForm
)

func (f DataFormat) String() string {
	if f == FormatForm {
		return "form"
	}
	return "json"
}
