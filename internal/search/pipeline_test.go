package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amerrors "github.com/fedsearch/fedsearch/internal/errors"
)

func TestPipeline_Search_RejectsEmptyQuery(t *testing.T) {
	p := NewPipeline(nil, NewRegistry(), NewDispatcher(0, 0, nil), nil)

	_, err := p.Search(context.Background(), QueryParams{Q: "   "})

	require.Error(t, err)
	assert.Equal(t, amerrors.ErrCodeValidation, amerrors.GetCode(err))
}

func TestPipeline_Search_NoAdapterForCategory(t *testing.T) {
	r := NewRegistry()
	r.Register(newFakeAdapter("brave", 0.5, CategoryProgramming), nil)

	p := NewPipeline(nil, r, NewDispatcher(0, 0, nil), nil)

	_, err := p.Search(context.Background(), QueryParams{Q: "best pizza", Category: CategoryGeneral})

	require.Error(t, err)
	assert.Equal(t, amerrors.ErrCodeNoAdapterAvailable, amerrors.GetCode(err))
}

func TestPipeline_Search_UsesExplicitCategoryOverride(t *testing.T) {
	r := NewRegistry()
	r.Register(newFakeAdapter("wikipedia", 0.5, CategoryAcademic), nil)

	p := NewPipeline(nil, r, NewDispatcher(0, 0, nil), nil)

	resp, err := p.Search(context.Background(), QueryParams{Q: "blockchain paper", Category: CategoryAcademic})

	require.NoError(t, err)
	assert.Equal(t, "wikipedia", resp.Source)
}

func TestPipeline_Search_ClassifiesWhenNoOverride(t *testing.T) {
	r := NewRegistry()
	r.Register(newFakeAdapter("web3-search", 0.5, CategoryWeb3), nil)
	r.Register(newFakeAdapter("brave", 0.5, CategoryGeneral), nil)

	p := NewPipeline(nil, r, NewDispatcher(0, 0, nil), nil)

	resp, err := p.Search(context.Background(), QueryParams{Q: "blockchain research paper with code examples"})

	require.NoError(t, err)
	assert.Equal(t, "web3-search", resp.Source)
}
