package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/aquamarinepk/aqm"
)

type fakeResourceClient struct {
	listFunc func(ctx context.Context, resource string) (*aqm.SuccessResponse, error)
	getFunc  func(ctx context.Context, resource, id string) (*aqm.SuccessResponse, error)
}

func (f *fakeResourceClient) List(ctx context.Context, resource string) (*aqm.SuccessResponse, error) {
	return f.listFunc(ctx, resource)
}

func (f *fakeResourceClient) Get(ctx context.Context, resource, id string) (*aqm.SuccessResponse, error) {
	return f.getFunc(ctx, resource, id)
}

func TestMenuDataAccessListMenus(t *testing.T) {
	client := &fakeResourceClient{
		listFunc: func(ctx context.Context, resource string) (*aqm.SuccessResponse, error) {
			if resource != "menus" {
				t.Errorf("resource = %q, want menus", resource)
			}
			return &aqm.SuccessResponse{Data: []map[string]interface{}{
				{"id": 12, "type": "FRENCH", "basePrice": 48000},
				{"id": 13, "type": "ENGLISH", "basePrice": 42000},
			}}, nil
		},
	}

	menus, err := NewMenuDataAccess(client).ListMenus(context.Background())
	if err != nil {
		t.Fatalf("ListMenus() error = %v", err)
	}
	if len(menus) != 2 || menus[0].ID != 12 || menus[0].BasePrice != 48000 {
		t.Errorf("ListMenus() = %+v", menus)
	}
}

func TestMenuDataAccessGetMenu(t *testing.T) {
	client := &fakeResourceClient{
		getFunc: func(ctx context.Context, resource, id string) (*aqm.SuccessResponse, error) {
			if id != "12" {
				return nil, errors.New("not found")
			}
			return &aqm.SuccessResponse{Data: map[string]interface{}{
				"id":    12,
				"type":  "FRENCH",
				"items": []map[string]interface{}{{"code": "STEAK", "unitPrice": 15000}},
			}}, nil
		},
	}
	da := NewMenuDataAccess(client)

	menu, err := da.GetMenu(context.Background(), 12)
	if err != nil {
		t.Fatalf("GetMenu() error = %v", err)
	}
	if len(menu.Items) != 1 || menu.Items[0].Baseline() != 1 {
		t.Errorf("GetMenu() items = %+v", menu.Items)
	}

	if _, err := da.GetMenu(context.Background(), 99); err == nil {
		t.Error("GetMenu(99) should return error")
	}
}

func TestMenuDataAccessNilClient(t *testing.T) {
	da := &MenuDataAccess{client: nil}

	if _, err := da.ListMenus(context.Background()); err == nil {
		t.Error("ListMenus() with nil client should return error")
	}
}

func TestDecodeSuccessResponseNil(t *testing.T) {
	var dest []int
	if err := decodeSuccessResponse(nil, &dest); err == nil {
		t.Error("decodeSuccessResponse(nil) should return error")
	}
}
