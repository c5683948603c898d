package gateway

import (
	"context"
	"fmt"

	"github.com/Veraticus/prdash/internal/model"
	"github.com/Veraticus/prdash/internal/service"
	"golang.org/x/sync/errgroup"
)

// ReferenceData is the vendor and event lists used for enrichment.
type ReferenceData struct {
	Vendors []model.Vendor
	Events  []model.Event
}

// FetchReferenceData loads vendors and events concurrently.
func FetchReferenceData(ctx context.Context, gw service.ReferenceGateway) (ReferenceData, error) {
	var data ReferenceData
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		vendors, err := gw.ListVendors(gctx)
		if err != nil {
			return err
		}
		data.Vendors = vendors
		return nil
	})
	g.Go(func() error {
		events, err := gw.ListEvents(gctx)
		if err != nil {
			return err
		}
		data.Events = events
		return nil
	})

	if err := g.Wait(); err != nil {
		return ReferenceData{}, err
	}
	return data, nil
}

// ReviewData is everything needed to open a negotiation for a purchase request.
type ReviewData struct {
	PurchaseRequest *model.PurchaseRequest
	ReferenceData
}

// FetchReviewData loads a purchase request with its reference data concurrently.
func FetchReviewData(ctx context.Context, gw service.Gateway, prID int64) (*ReviewData, error) {
	var (
		pr  *model.PurchaseRequest
		ref ReferenceData
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		pr, err = gw.GetPurchaseRequest(gctx, prID)
		return err
	})
	g.Go(func() error {
		var err error
		ref, err = FetchReferenceData(gctx, gw)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load purchase request %d for review: %w", prID, err)
	}
	return &ReviewData{PurchaseRequest: pr, ReferenceData: ref}, nil
}
