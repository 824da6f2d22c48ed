package backend

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/dinner/services/storefront/internal/catalog"
)

// ResourceClient is the subset of aqm.ServiceClient used for public reads.
type ResourceClient interface {
	List(ctx context.Context, resource string) (*aqm.SuccessResponse, error)
	Get(ctx context.Context, resource, id string) (*aqm.SuccessResponse, error)
}

// MenuDataAccess reads the public menu catalog.
type MenuDataAccess struct {
	client ResourceClient
}

func NewMenuDataAccess(client ResourceClient) *MenuDataAccess {
	return &MenuDataAccess{client: client}
}

func (da *MenuDataAccess) ListMenus(ctx context.Context) ([]catalog.Menu, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("menu client not configured")
	}

	resp, err := da.client.List(ctx, "menus")
	if err != nil {
		return nil, err
	}

	var menus []catalog.Menu
	if err := decodeSuccessResponse(resp, &menus); err != nil {
		return nil, err
	}
	return menus, nil
}

func (da *MenuDataAccess) GetMenu(ctx context.Context, id int64) (*catalog.Menu, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("menu client not configured")
	}

	resp, err := da.client.Get(ctx, "menus", strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}

	var menu catalog.Menu
	if err := decodeSuccessResponse(resp, &menu); err != nil {
		return nil, err
	}
	return &menu, nil
}
