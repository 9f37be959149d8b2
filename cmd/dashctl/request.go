package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PaulButtle/dashkit/api"
)

var (
	flagData    string
	flagQueries []string
	flagHeaders []string
)

func init() {
	for _, method := range []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	} {
		rootCmd.AddCommand(newRequestCmd(method))
	}
}

func newRequestCmd(method string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " <endpoint>",
		Short: fmt.Sprintf("Issue a %s request", method),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, method, args[0])
		},
	}
	if method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch {
		cmd.Flags().StringVarP(&flagData, "data", "d", "", "JSON request body ('-' reads stdin)")
	}
	cmd.Flags().StringArrayVarP(&flagQueries, "query", "q", nil, "Query parameter key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&flagHeaders, "header", "H", nil, "Extra header key:value (repeatable)")
	return cmd
}

func runRequest(cmd *cobra.Command, method, endpoint string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	opts, err := requestOptions()
	if err != nil {
		return err
	}

	body, err := readBody(cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var value any
	switch method {
	case http.MethodGet:
		value, err = api.Get[any](ctx, client, endpoint, opts...)
	case http.MethodPost:
		value, err = api.Post[any](ctx, client, endpoint, body, opts...)
	case http.MethodPut:
		value, err = api.Put[any](ctx, client, endpoint, body, opts...)
	case http.MethodPatch:
		value, err = api.Patch[any](ctx, client, endpoint, body, opts...)
	case http.MethodDelete:
		value, err = api.Delete[any](ctx, client, endpoint, opts...)
	default:
		return fmt.Errorf("unsupported method %q", method)
	}

	if flagJSON {
		return printResult(cmd.OutOrStdout(), api.Wrap(value, err))
	}
	if err != nil {
		return err
	}
	return printValue(cmd.OutOrStdout(), value)
}

func requestOptions() ([]api.RequestOption, error) {
	var opts []api.RequestOption
	for _, q := range flagQueries {
		k, v, ok := strings.Cut(q, "=")
		if !ok {
			return nil, fmt.Errorf("invalid query parameter %q (want key=value)", q)
		}
		opts = append(opts, api.WithQueryParam(k, v))
	}
	for _, h := range flagHeaders {
		k, v, ok := strings.Cut(h, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header %q (want key:value)", h)
		}
		opts = append(opts, api.WithHeader(strings.TrimSpace(k), strings.TrimSpace(v)))
	}
	return opts, nil
}

// readBody turns the --data flag into a body value. A nil return means the
// request carries no body.
func readBody(stdin io.Reader) (any, error) {
	if flagData == "" {
		return nil, nil
	}
	raw := []byte(flagData)
	if flagData == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		raw = b
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("--data is not valid JSON: %w", err)
	}
	return v, nil
}

func printResult[T any](w io.Writer, res api.Result[T]) error {
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(out))
	if !res.Success {
		return errSilentFailure
	}
	return nil
}

func printValue(w io.Writer, value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		fmt.Fprintln(w, v)
		return nil
	default:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(out))
		return nil
	}
}

// errSilentFailure signals a non-zero exit after the failure has already been
// rendered as a JSON envelope.
var errSilentFailure = silentError{}

type silentError struct{}

func (silentError) Error() string { return "request failed" }
