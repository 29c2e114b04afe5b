package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	internalhttp "github.com/fivetwenty-io/cfapi/internal/http"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

// operation describes how one request is turned into an HTTP exchange.
type operation struct {
	method string
	// action prefixes errors, e.g. "listing spaces".
	action string
	uri    func(*capi.URIBuilder)
	// body is encoded as JSON when non-nil.
	body      interface{}
	multipart func() (*capi.MultipartBody, error)
	baseURL   string
	accept    string
	// allowEmpty makes an empty success body a nil result instead of an error.
	allowEmpty bool
}

// exchangeRaw validates request, builds the URI, sends the body and returns
// the raw response. An invalid request never reaches the network.
func exchangeRaw(ctx context.Context, client *internalhttp.Client, request capi.Validatable, op operation) (*internalhttp.Response, error) {
	err := capi.Validate(request)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op.action, err)
	}

	builder := capi.NewURIBuilder()
	op.uri(builder)

	req := &internalhttp.Request{
		Method:   op.method,
		Path:     builder.Path(),
		RawQuery: builder.RawQuery(),
		BaseURL:  op.baseURL,
		Body:     op.body,
		Accept:   op.accept,
	}

	if op.multipart != nil {
		body, err := op.multipart()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op.action, &capi.ClientError{
				Op:     capi.OpEncode,
				Method: op.method,
				URI:    builder.RequestURI(),
				Err:    err,
			})
		}

		req.Multipart = body
	}

	resp, err := client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op.action, err)
	}

	return resp, nil
}

// exchange performs op and decodes the JSON response into T. A 204, or an
// empty body when op.allowEmpty is set, yields a nil result.
func exchange[T any](ctx context.Context, client *internalhttp.Client, request capi.Validatable, op operation) (*T, error) {
	resp, err := exchangeRaw(ctx, client, request, op)
	if err != nil {
		return nil, err
	}

	if isEmpty(resp) {
		if resp.StatusCode == http.StatusNoContent || op.allowEmpty {
			return nil, nil //nolint:nilnil // an empty body is the unit result
		}

		return nil, fmt.Errorf("%s: %w", op.action, &capi.ClientError{
			Op:     capi.OpDecode,
			Method: op.method,
			URI:    resp.URL,
			Err:    capi.ErrEmptyResponseBody,
		})
	}

	var result T

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op.action, &capi.ClientError{
			Op:     capi.OpDecode,
			Method: op.method,
			URI:    resp.URL,
			Err:    err,
		})
	}

	return &result, nil
}

// exchangeVoid performs op and discards any response body.
func exchangeVoid(ctx context.Context, client *internalhttp.Client, request capi.Validatable, op operation) error {
	_, err := exchangeRaw(ctx, client, request, op)

	return err
}

func isEmpty(resp *internalhttp.Response) bool {
	return len(strings.TrimSpace(string(resp.Body))) == 0
}

// noParams is the request of operations that take no input.
type noParams struct{}

func (noParams) Validate() capi.ValidationResult {
	return capi.ValidationResult{}
}
