package capi

import (
	"context"
	"iter"

	"github.com/fivetwenty-io/cfapi/internal/constants"
)

// Envelope is a page of a paginated listing.
type Envelope interface {
	// NextPageURL returns the server supplied next link, or "" on the last page.
	NextPageURL() string
}

// Paginate returns a lazy sequence of pages. It requests page 1, then page
// 2, and so on, for as long as the previous page advertised a next link.
// The page number always comes from the request built by newRequest; the
// next link is only consulted for its presence.
//
// Pages are fetched one at a time and only when the consumer asks for the
// next one. An error is yielded once and ends the sequence. Ranging over
// the sequence again starts over from page 1. A first page without
// resources still yields one envelope.
func Paginate[Req any, Env Envelope](
	ctx context.Context,
	newRequest func(page int) Req,
	list func(context.Context, Req) (Env, error),
) iter.Seq2[Env, error] {
	return func(yield func(Env, error) bool) {
		for page := constants.MinPage; ; page++ {
			if err := ctx.Err(); err != nil {
				var zero Env

				yield(zero, err)

				return
			}

			envelope, err := list(ctx, newRequest(page))
			if err != nil {
				yield(envelope, err)

				return
			}

			if !yield(envelope, nil) {
				return
			}

			if envelope.NextPageURL() == "" {
				return
			}
		}
	}
}

// CollectPages drains seq into a slice, stopping at the first error.
func CollectPages[Env any](seq iter.Seq2[Env, error]) ([]Env, error) {
	var pages []Env

	for page, err := range seq {
		if err != nil {
			return pages, err
		}

		pages = append(pages, page)
	}

	return pages, nil
}
