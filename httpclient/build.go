package httpclient

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	gerrors "github.com/insha/gopher/errors"
)

// BuildRequest resolves req against baseURL and encodes its query and body.
// Headers are copied exactly as declared.
func BuildRequest(req *Request, baseURL string) (*OutgoingRequest, error) {
	target, err := resolveURL(req.Endpoint(), baseURL)
	if err != nil {
		return nil, err
	}
	if params := req.Parameters(); len(params) > 0 {
		target.RawQuery = encodeQuery(params)
	}

	header := make(http.Header, len(req.headers)+1)
	for k, v := range req.headers {
		header[k] = []string{v}
	}

	out := &OutgoingRequest{
		ID:      req.ID(),
		Name:    req.Name(),
		Method:  req.Method(),
		URL:     target,
		Header:  header,
		Timeout: req.Timeout(),
	}

	if req.Method() != MethodGet {
		body, err := encodeBody(req)
		if err != nil {
			return nil, gerrors.New(gerrors.KindBadRequest, gerrors.DomainClient,
				"The request body could not be encoded.").
				WithURL(target.String()).
				WithCause(err)
		}
		out.Body = body
		if body != nil && req.DataFormat() == FormatJSON && !hasHeader(header, string(HeaderContentType)) {
			header[string(HeaderContentType)] = []string{MimeJSON}
		}
	}
	return out, nil
}

func resolveURL(endpoint, baseURL string) (*url.URL, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, gerrors.InvalidURL(baseURL, err).
			WithMessage(fmt.Sprintf("An invalid URL was provided: %s - %s", baseURL, endpoint))
	}
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, gerrors.InvalidURL(baseURL, err).
			WithMessage(fmt.Sprintf("An invalid URL was provided: %s - %s", baseURL, endpoint))
	}

	target := base.ResolveReference(ref)
	if target.Scheme == "" || target.Host == "" {
		return nil, gerrors.InvalidURL(target.String(), nil).
			WithMessage(fmt.Sprintf("An invalid URL was provided: %s - %s", baseURL, endpoint))
	}
	return target, nil
}

func encodeQuery(params []QueryItem) string {
	pairs := make([]string, len(params))
	for i, p := range params {
		pairs[i] = url.QueryEscape(p.Name) + "=" + url.QueryEscape(p.Value)
	}
	return strings.Join(pairs, "&")
}

func encodeBody(req *Request) ([]byte, error) {
	if req.DataFormat() == FormatForm {
		return encodeForm(req.body), nil
	}
	if req.body == nil {
		return nil, nil
	}
	return bodyAPI.MarshalIndent(req.body, "", "  ")
}

func encodeForm(content map[string]any) []byte {
	if len(content) == 0 {
		return nil
	}
	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = url.QueryEscape(k) + "=" + url.QueryEscape(fmt.Sprint(content[k]))
	}
	return []byte(strings.Join(pairs, "&"))
}

func hasHeader(h http.Header, key string) bool {
	for k := range h {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

// setDefaultHeader adds key unless the request already declares it in
// any letter case.
func setDefaultHeader(h http.Header, key, value string) {
	if value == "" || hasHeader(h, key) {
		return
	}
	h[key] = []string{value}
}
