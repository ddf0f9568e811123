package store

import (
	"context"
	"testing"

	"github.com/assetdesk/assetdesk/internal/db"
	"github.com/assetdesk/assetdesk/internal/model"
)

func TestCreateAndGetProduct(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p, err := CreateProduct(ctx, database, "ThinkPad X1", "14-inch laptop", "laptops", 3)
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if p.Name != "ThinkPad X1" {
		t.Errorf("expected name 'ThinkPad X1', got %q", p.Name)
	}
	if p.MinStockLevel != 3 {
		t.Errorf("expected min stock level 3, got %d", p.MinStockLevel)
	}
}

func TestCreateProductNegativeMinStock(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateProduct(ctx, database, "Bad", "", "", -1); err == nil {
		t.Error("expected error for negative min stock level")
	}
}

func TestListProductsWithStock(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p, _ := CreateProduct(ctx, database, "Monitor", "", "displays", 2)
	CreateItem(ctx, database, p.ID, "SN-1", "", "")
	CreateItem(ctx, database, p.ID, "SN-2", "", "")
	item3, _ := CreateItem(ctx, database, p.ID, "SN-3", "", "")
	UpdateItem(ctx, database, item3.ID, "SN-3", model.ItemStatusMaintenance, model.ConditionFair)

	products, err := ListProducts(ctx, database, "")
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}

	stock := products[0].Stock
	if stock == nil {
		t.Fatal("expected stock info to be populated")
	}
	if stock.Total != 3 {
		t.Errorf("expected total 3, got %d", stock.Total)
	}
	if stock.Available != 2 {
		t.Errorf("expected available 2, got %d", stock.Available)
	}
	if stock.Maintenance != 1 {
		t.Errorf("expected maintenance 1, got %d", stock.Maintenance)
	}
}

func TestListProductsByCategory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateProduct(ctx, database, "Laptop", "", "laptops", 1)
	CreateProduct(ctx, database, "Dock", "", "accessories", 1)

	laptops, _ := ListProducts(ctx, database, "laptops")
	if len(laptops) != 1 {
		t.Errorf("expected 1 laptop, got %d", len(laptops))
	}

	all, _ := ListProducts(ctx, database, "")
	if len(all) != 2 {
		t.Errorf("expected 2 products, got %d", len(all))
	}
}

func TestProductStockExcludesRetired(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p, _ := CreateProduct(ctx, database, "Keyboard", "", "", 0)
	item, _ := CreateItem(ctx, database, p.ID, "", "", "")
	UpdateItem(ctx, database, item.ID, "", model.ItemStatusRetired, model.ConditionPoor)

	stock, err := GetProductStock(ctx, database, p.ID)
	if err != nil {
		t.Fatalf("GetProductStock: %v", err)
	}
	if stock.Total != 0 {
		t.Errorf("expected retired items excluded from total, got %d", stock.Total)
	}
}

func TestDeleteProductWithItemsRefused(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p, _ := CreateProduct(ctx, database, "Tablet", "", "", 0)
	CreateItem(ctx, database, p.ID, "", "", "")

	if err := DeleteProduct(ctx, database, p.ID); err == nil {
		t.Error("expected error deleting product with tracked units")
	}

	// Retire the unit, then deletion succeeds.
	items, _ := ListItems(ctx, database, p.ID, "")
	UpdateItem(ctx, database, items[0].ID, "", model.ItemStatusRetired, model.ConditionPoor)
	if err := DeleteProduct(ctx, database, p.ID); err != nil {
		t.Errorf("DeleteProduct after retiring: %v", err)
	}

	products, _ := ListProducts(ctx, database, "")
	if len(products) != 0 {
		t.Errorf("expected 0 products after delete, got %d", len(products))
	}
}

func TestProductImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p, _ := CreateProduct(ctx, database, "Webcam", "", "", 0)
	SetProductImage(ctx, database, p.ID, []byte("fake image data"), "image/jpeg")

	data, mime, err := GetProductImage(ctx, database, p.ID)
	if err != nil {
		t.Fatalf("GetProductImage: %v", err)
	}
	if string(data) != "fake image data" {
		t.Errorf("expected image data, got %q", string(data))
	}
	if mime != "image/jpeg" {
		t.Errorf("expected mime 'image/jpeg', got %q", mime)
	}
}

func TestDeletedProductImageInvisible(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p, _ := CreateProduct(ctx, database, "Webcam", "", "", 0)
	SetProductImage(ctx, database, p.ID, []byte("fake image data"), "image/jpeg")

	if err := DeleteProduct(ctx, database, p.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}

	data, _, err := GetProductImage(ctx, database, p.ID)
	if err != nil {
		t.Fatalf("GetProductImage: %v", err)
	}
	if data != nil {
		t.Error("expected no image for a deleted product")
	}
}
