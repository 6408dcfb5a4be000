package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/insha/gopher/bootstrap"
	"github.com/insha/gopher/httpclient"
	"github.com/insha/gopher/observability"
	"github.com/insha/gopher/version"
)

// NewRootCmd builds the gopher command tree.
func NewRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   version.Product,
		Short: "Send HTTP requests through a gopher session",
		Long: `gopher sends declarative HTTP requests through a session: default headers,
status classification, optional certificate pinning and exchange profiling.

Endpoints are resolved against --base-url (or client.base_url in gopher.yml).
An absolute endpoint is used as given.

  gopher get movie/popular --base-url https://api.themoviedb.org/3/ -q page=2
  gopher post authentication/token/validate_with_login -d username=jo --form
  gopher get https://httpbin.org/json --select slideshow.title`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVar(&f.configFile, "config", "", "config file (default: gopher.yml or the user config dir)")
	pf.StringVar(&f.baseURL, "base-url", "", "base URL endpoints are resolved against")
	pf.StringArrayVarP(&f.headers, "header", "H", nil, `request header "Name: value" (repeatable)`)
	pf.StringArrayVarP(&f.query, "query", "q", nil, "query parameter key=value (repeatable, sent in order, each key once)")
	pf.DurationVarP(&f.timeout, "timeout", "t", 0, "per-request timeout (default 60s)")
	pf.IntVar(&f.retries, "retries", 0, "re-send up to N times on server errors, timeouts and dropped connections")
	pf.DurationVar(&f.retryDelay, "retry-delay", time.Second, "pause between retries")
	pf.BoolVar(&f.profile, "profile", false, "log a profile of each exchange")
	pf.StringVar(&f.pinDir, "pin-dir", "", "directory of pinned certificates (.cer, .crt, .der, .pem)")
	pf.StringVarP(&f.selectPath, "select", "s", "", "print only the value at this JSON path, e.g. results.0.title")
	pf.StringVar(&f.otelEndpoint, "otel-endpoint", "", "OTLP/HTTP endpoint host:port for traces and metrics")
	pf.BoolVar(&f.noColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "print status, headers and a startup summary")

	root.AddCommand(
		newMethodCmd(httpclient.MethodGet, f, false),
		newMethodCmd(httpclient.MethodDelete, f, false),
		newMethodCmd(httpclient.MethodPost, f, true),
		newMethodCmd(httpclient.MethodPut, f, true),
		newMethodCmd(httpclient.MethodPatch, f, true),
		newVersionCmd(),
	)
	return root
}

// newMethodCmd returns the command for one HTTP method. Commands for
// methods that carry a body get the body flags.
func newMethodCmd(method httpclient.Method, f *flags, withBody bool) *cobra.Command {
	name := strings.ToLower(string(method))
	cmd := &cobra.Command{
		Use:   name + " ENDPOINT",
		Short: fmt.Sprintf("Send a %s request", method),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), method, args[0], f, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	if withBody {
		cmd.Flags().StringArrayVarP(&f.data, "data", "d", nil, "body field key=value (repeatable)")
		cmd.Flags().StringVar(&f.jsonBody, "json", "", "body as a JSON object")
		cmd.Flags().BoolVar(&f.form, "form", false, "send the body form-encoded instead of JSON")
	}
	return cmd
}

// run loads the configuration, starts a session and sends one request.
func run(ctx context.Context, method httpclient.Method, endpoint string, f *flags, out, errOut io.Writer) error {
	if f.noColor {
		color.NoColor = true
	}

	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	if cfg.Client.BaseURL == "" {
		cfg.Client.BaseURL = baseFromEndpoint(endpoint)
	}
	req, err := buildRequest(method, endpoint, f)
	if err != nil {
		return err
	}

	var appOpts []bootstrap.Option
	if f.verbose {
		appOpts = append(appOpts, bootstrap.WithSummary(errOut))
	}
	app, err := bootstrap.NewApp(cfg, appOpts...)
	if err != nil {
		return err
	}

	var sessionOpts []httpclient.Option
	if cfg.Telemetry.Enabled() {
		if err := app.RegisterComponent(newTelemetry(cfg)); err != nil {
			return err
		}
		metrics, err := observability.NewMetrics(observability.Meter(cfg.Name))
		if err != nil {
			return err
		}
		sessionOpts = append(sessionOpts, httpclient.WithMetrics(metrics))
	}

	session := httpclient.NewComponent(cfg.Client, sessionOpts...)
	if err := app.RegisterComponent(session); err != nil {
		return err
	}

	p := newPrinter(out, errOut, f)
	return app.RunTask(ctx, func(ctx context.Context) error {
		resp, err := sendWithRetry(ctx, session.Session(), req, f.retries, f.retryDelay)
		return p.Print(req, resp, err)
	})
}

func newTelemetry(cfg *Config) *observability.Component {
	tracer := observability.DefaultTracerConfig(cfg.Name)
	tracer.Environment = cfg.Environment
	tracer.Endpoint = cfg.Telemetry.Endpoint
	tracer.Insecure = cfg.Telemetry.Insecure
	tracer.SampleRate = cfg.Telemetry.SampleRate

	meter := observability.DefaultMeterConfig(cfg.Name)
	meter.Environment = cfg.Environment
	meter.Endpoint = cfg.Telemetry.Endpoint
	meter.Insecure = cfg.Telemetry.Insecure
	return observability.NewComponent(tracer, meter)
}

// Execute runs the root command and prints any error to stderr.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, newColorScheme(color.NoColor).Error.Sprint("Error: "+err.Error()))
		return err
	}
	return nil
}
