package cli

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	gerrors "github.com/insha/gopher/errors"
	"github.com/insha/gopher/httpclient"
)

// colorScheme holds the colors used for response output.
type colorScheme struct {
	Method      *color.Color
	URL         *color.Color
	StatusOK    *color.Color
	StatusWarn  *color.Color
	StatusError *color.Color
	HeaderKey   *color.Color
	Error       *color.Color
}

func newColorScheme(noColor bool) *colorScheme {
	s := &colorScheme{
		Method:      color.New(color.FgBlue, color.Bold),
		URL:         color.New(color.FgCyan),
		StatusOK:    color.New(color.FgGreen, color.Bold),
		StatusWarn:  color.New(color.FgYellow, color.Bold),
		StatusError: color.New(color.FgRed, color.Bold),
		HeaderKey:   color.New(color.FgYellow),
		Error:       color.New(color.FgRed),
	}
	if noColor {
		for _, c := range []*color.Color{s.Method, s.URL, s.StatusOK, s.StatusWarn, s.StatusError, s.HeaderKey, s.Error} {
			c.DisableColor()
		}
	}
	return s
}

func (s *colorScheme) status(code int) *color.Color {
	switch {
	case code < 300:
		return s.StatusOK
	case code < 400:
		return s.StatusWarn
	default:
		return s.StatusError
	}
}

// printer writes responses to the command output.
type printer struct {
	out        io.Writer
	errOut     io.Writer
	colors     *colorScheme
	verbose    bool
	noColor    bool
	selectPath string
}

func newPrinter(out, errOut io.Writer, f *flags) *printer {
	return &printer{
		out:        out,
		errOut:     errOut,
		colors:     newColorScheme(f.noColor),
		verbose:    f.verbose,
		noColor:    f.noColor,
		selectPath: f.selectPath,
	}
}

// Print writes resp and returns err, or a selection error when the
// requested path is missing from the body. In verbose mode a classified
// error is also described in full on errOut.
func (p *printer) Print(req *httpclient.Request, resp *httpclient.Response, err error) error {
	if p.verbose && err != nil {
		if re, ok := gerrors.AsRequestError(err); ok {
			defer fmt.Fprint(p.errOut, re.Describe())
		}
	}
	if resp == nil {
		return err
	}

	if p.verbose {
		fmt.Fprintf(p.out, "%s %s\n", p.colors.Method.Sprint(req.Method()), p.colors.URL.Sprint(resp.URL))
		fmt.Fprintf(p.out, "%s %s\n", p.colors.status(resp.StatusCode).Sprint(resp.StatusCode), http.StatusText(resp.StatusCode))
		keys := make([]string, 0, len(resp.Headers))
		for k := range resp.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(p.out, "%s: %s\n", p.colors.HeaderKey.Sprint(k), resp.Headers[k])
		}
		fmt.Fprintln(p.out)
	}

	if p.selectPath != "" && err == nil {
		value, selErr := selectValue(resp.Body, p.selectPath)
		if selErr != nil {
			return selErr
		}
		fmt.Fprintln(p.out, value)
		return nil
	}

	if len(resp.Body) > 0 {
		body := p.formatBody(resp)
		_, _ = p.out.Write(body)
		if !strings.HasSuffix(string(body), "\n") {
			fmt.Fprintln(p.out)
		}
	}
	return err
}

// formatBody indents JSON bodies, colorizing them unless disabled.
func (p *printer) formatBody(resp *httpclient.Response) []byte {
	if !gjson.ValidBytes(resp.Body) {
		return resp.Body
	}
	out := pretty.Pretty(resp.Body)
	if !p.noColor && !color.NoColor {
		out = pretty.Color(out, nil)
	}
	return out
}

// selectValue extracts a gjson path such as "results.0.title" from body.
// Strings are returned without quotes and JSON null as "null".
func selectValue(body []byte, path string) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("cannot select %q: response is not JSON", path)
	}
	result := gjson.GetBytes(body, path)
	if !result.Exists() {
		return "", fmt.Errorf("path not found: %s", path)
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}
