package chatbot

import (
	"context"
	"fmt"

	"github.com/frahmantamala/onboarding-portal/internal/query"
)

// Gateway is the read surface the executor needs from the secure query gateway.
type Gateway interface {
	CountDocuments(ctx context.Context, collection string, filters query.Filters) (int64, error)
	FindDocuments(ctx context.Context, collection string, filters query.Filters, opts query.FindOptions) ([]query.Document, error)
	GetCollectionStats(ctx context.Context, collection string) (*query.CollectionStats, error)
	GetCollectionSummary() []query.CollectionInfo
}

type QueryRunner interface {
	Run(ctx context.Context, intent Intent) (*Result, error)
}

// Result carries whichever payload matches Type.
type Result struct {
	Type       QueryType
	Collection string
	Filters    query.Filters
	Count      int64
	Rows       []query.Document
	Stats      *query.CollectionStats
	Schema     []query.CollectionInfo
}

const findResultLimit = 10

type Executor struct {
	gateway Gateway
}

func NewExecutor(gateway Gateway) *Executor {
	return &Executor{gateway: gateway}
}

func (e *Executor) Run(ctx context.Context, intent Intent) (*Result, error) {
	result := &Result{Type: intent.Type, Collection: intent.Collection, Filters: intent.Filters}

	switch intent.Type {
	case QueryCount:
		count, err := e.gateway.CountDocuments(ctx, intent.Collection, intent.Filters)
		if err != nil {
			return nil, err
		}
		result.Count = count

	case QueryFind:
		count, err := e.gateway.CountDocuments(ctx, intent.Collection, intent.Filters)
		if err != nil {
			return nil, err
		}
		result.Count = count
		if count > 0 {
			rows, err := e.gateway.FindDocuments(ctx, intent.Collection, intent.Filters, query.FindOptions{Limit: findResultLimit})
			if err != nil {
				return nil, err
			}
			result.Rows = rows
		}

	case QueryStats:
		stats, err := e.gateway.GetCollectionStats(ctx, intent.Collection)
		if err != nil {
			return nil, err
		}
		result.Stats = stats

	case QuerySchema:
		summary := e.gateway.GetCollectionSummary()
		if intent.Collection != "" {
			for _, info := range summary {
				if info.Name == intent.Collection {
					summary = []query.CollectionInfo{info}
					break
				}
			}
		}
		result.Schema = summary

	default:
		return nil, fmt.Errorf("unsupported query type %q", intent.Type)
	}

	return result, nil
}
