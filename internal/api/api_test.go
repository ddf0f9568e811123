package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/assetdesk/assetdesk/internal/auth"
	"github.com/assetdesk/assetdesk/internal/db"
	"github.com/assetdesk/assetdesk/internal/model"
	"github.com/assetdesk/assetdesk/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, *sql.DB, string) {
	t.Helper()
	database := db.NewTestDB(t)
	router := NewRouter(database, testJWTSecret)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// Create admin user.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	store.CreateUser(ctx, database, "admin", string(hash), model.RoleAdmin)

	// Get token.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "password"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	token := loginResp["token"]
	if token == "" {
		t.Fatal("empty token from login")
	}

	return server, database, token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func doJSON(t *testing.T, req *http.Request, wantStatus int, target any) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d", req.Method, req.URL.Path, wantStatus, resp.StatusCode)
	}
	if target != nil {
		json.NewDecoder(resp.Body).Decode(target)
	}
}

func TestLoginEndpoint(t *testing.T) {
	server, _, _ := setupTestServer(t)

	// Test invalid credentials.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLogoutRevokesToken(t *testing.T) {
	server, _, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/auth/logout", token, nil)
	doJSON(t, req, http.StatusOK, nil)

	// The revoked token must no longer work.
	req, _ = authRequest("GET", server.URL+"/api/products", token, nil)
	doJSON(t, req, http.StatusUnauthorized, nil)
}

func TestProductsAPIFlow(t *testing.T) {
	server, _, token := setupTestServer(t)

	// Create product.
	var product model.Product
	req, _ := authRequest("POST", server.URL+"/api/products", token, map[string]any{
		"name":            "ThinkPad X1",
		"category":        "laptops",
		"min_stock_level": 2,
	})
	doJSON(t, req, http.StatusCreated, &product)

	// No units yet: out of stock.
	var got model.Product
	req, _ = authRequest("GET", server.URL+fmt.Sprintf("/api/products/%d", product.ID), token, nil)
	doJSON(t, req, http.StatusOK, &got)
	if got.Stock == nil || got.Stock.Status != "out_of_stock" {
		t.Fatalf("expected out_of_stock for empty product, got %+v", got.Stock)
	}

	// Register three units: above the minimum, in stock.
	for i := 0; i < 3; i++ {
		req, _ = authRequest("POST", server.URL+"/api/items", token, map[string]any{
			"product_id": product.ID,
		})
		doJSON(t, req, http.StatusCreated, nil)
	}
	req, _ = authRequest("GET", server.URL+fmt.Sprintf("/api/products/%d", product.ID), token, nil)
	doJSON(t, req, http.StatusOK, &got)
	if got.Stock.Status != "in_stock" {
		t.Errorf("expected in_stock with 3 of min 2, got %q", got.Stock.Status)
	}
}

func TestLowStockEndpoint(t *testing.T) {
	server, database, token := setupTestServer(t)
	ctx := context.Background()

	plenty, _ := store.CreateProduct(ctx, database, "Mouse", "", "accessories", 1)
	scarce, _ := store.CreateProduct(ctx, database, "Dock", "", "accessories", 3)
	store.CreateItem(ctx, database, plenty.ID, "", "", "")
	store.CreateItem(ctx, database, plenty.ID, "", "", "")
	store.CreateItem(ctx, database, scarce.ID, "", "", "")

	var low []model.Product
	req, _ := authRequest("GET", server.URL+"/api/products/low-stock", token, nil)
	doJSON(t, req, http.StatusOK, &low)
	if len(low) != 1 || low[0].ID != scarce.ID {
		t.Fatalf("expected only the scarce product, got %+v", low)
	}
	if low[0].Stock.Status != "low_stock" {
		t.Errorf("expected low_stock, got %q", low[0].Stock.Status)
	}
}

func TestAssignmentAPIFlow(t *testing.T) {
	server, database, token := setupTestServer(t)
	ctx := context.Background()

	product, _ := store.CreateProduct(ctx, database, "Laptop", "", "laptops", 0)
	item, _ := store.CreateItem(ctx, database, product.ID, "SN-1", "", "")
	employee, _ := store.CreateEmployee(ctx, database, "Alice", "alice@example.com", "eng")

	// Assign with a past due date so the derived status is overdue.
	due := time.Now().Add(-72 * time.Hour).Format(time.RFC3339)
	var created model.Assignment
	req, _ := authRequest("POST", server.URL+"/api/assignments", token, map[string]any{
		"item_id":            item.ID,
		"employee_id":        employee.ID,
		"expected_return_at": due,
	})
	doJSON(t, req, http.StatusCreated, &created)
	if created.Status != "overdue" {
		t.Fatalf("expected overdue, got %q", created.Status)
	}
	if created.DaysOverdue != 3 {
		t.Errorf("expected 3 days overdue, got %d", created.DaysOverdue)
	}

	// Overdue filter finds it.
	var overdue []model.Assignment
	req, _ = authRequest("GET", server.URL+"/api/assignments?state=overdue", token, nil)
	doJSON(t, req, http.StatusOK, &overdue)
	if len(overdue) != 1 {
		t.Fatalf("expected 1 overdue assignment, got %d", len(overdue))
	}

	// Double-assigning the same item fails.
	req, _ = authRequest("POST", server.URL+"/api/assignments", token, map[string]any{
		"item_id":     item.ID,
		"employee_id": employee.ID,
	})
	doJSON(t, req, http.StatusConflict, nil)

	// Return it late: status flips to returned_late, terminal.
	var returned model.Assignment
	req, _ = authRequest("POST", server.URL+fmt.Sprintf("/api/assignments/%d/return", created.ID), token, map[string]any{
		"condition": "good",
	})
	doJSON(t, req, http.StatusOK, &returned)
	if returned.Status != "returned_late" {
		t.Errorf("expected returned_late, got %q", returned.Status)
	}
	if returned.DaysLate < 1 {
		t.Errorf("expected at least 1 day late, got %d", returned.DaysLate)
	}

	// Returning again fails.
	req, _ = authRequest("POST", server.URL+fmt.Sprintf("/api/assignments/%d/return", created.ID), token, map[string]any{
		"condition": "good",
	})
	doJSON(t, req, http.StatusConflict, nil)

	// The item is available again.
	var itemResp struct {
		Item model.Item `json:"item"`
	}
	req, _ = authRequest("GET", server.URL+fmt.Sprintf("/api/items/%d", item.ID), token, nil)
	doJSON(t, req, http.StatusOK, &itemResp)
	if itemResp.Item.Status != model.ItemStatusAvailable {
		t.Errorf("expected item available after return, got %q", itemResp.Item.Status)
	}
}

func TestDamagedReturnParksItem(t *testing.T) {
	server, database, token := setupTestServer(t)
	ctx := context.Background()

	product, _ := store.CreateProduct(ctx, database, "Projector", "", "av", 0)
	item, _ := store.CreateItem(ctx, database, product.ID, "", "", "")
	employee, _ := store.CreateEmployee(ctx, database, "Bob", "bob@example.com", "sales")
	assignment, _ := store.CreateAssignment(ctx, database, item.ID, employee.ID, nil, "", nil)

	req, _ := authRequest("POST", server.URL+fmt.Sprintf("/api/assignments/%d/return", assignment.ID), token, map[string]any{
		"condition": "damaged",
	})
	doJSON(t, req, http.StatusOK, nil)

	got, _ := store.GetItem(ctx, database, item.ID)
	if got.Status != model.ItemStatusDamaged {
		t.Errorf("expected damaged item parked, got %q", got.Status)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	server, database, token := setupTestServer(t)
	ctx := context.Background()

	product, _ := store.CreateProduct(ctx, database, "Tablet", "", "tablets", 1)
	item, _ := store.CreateItem(ctx, database, product.ID, "", "", "")
	employee, _ := store.CreateEmployee(ctx, database, "Cara", "cara@example.com", "ops")
	due := time.Now().Add(-24 * time.Hour)
	store.CreateAssignment(ctx, database, item.ID, employee.ID, &due, "", nil)

	var dash dashboardResponse
	req, _ := authRequest("GET", server.URL+"/api/dashboard", token, nil)
	doJSON(t, req, http.StatusOK, &dash)

	if dash.Products != 1 || dash.Employees != 1 {
		t.Errorf("unexpected counts: %+v", dash)
	}
	if dash.OpenAssignments != 1 || dash.Overdue != 1 {
		t.Errorf("expected 1 open/1 overdue, got %+v", dash)
	}
	if dash.OutOfStock != 1 {
		t.Errorf("expected 1 out-of-stock product (single unit assigned), got %d", dash.OutOfStock)
	}
	if dash.ItemsByStatus[model.ItemStatusAssigned] != 1 {
		t.Errorf("expected 1 assigned item, got %+v", dash.ItemsByStatus)
	}
}

func TestReportsEndpoints(t *testing.T) {
	server, _, token := setupTestServer(t)

	for _, path := range []string{"/api/reports/assignments.xlsx", "/api/reports/stock.xlsx"} {
		req, _ := authRequest("GET", server.URL+path, token, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != xlsxMIME {
			t.Errorf("GET %s: unexpected content type %q", path, ct)
		}
		resp.Body.Close()
	}
}

func TestUnauthenticatedAccess(t *testing.T) {
	database := db.NewTestDB(t)
	router := NewRouter(database, testJWTSecret)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	resp, _ := http.Get(server.URL + "/api/products")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRoleBasedAccess(t *testing.T) {
	database := db.NewTestDB(t)
	router := NewRouter(database, testJWTSecret)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// Create a regular user.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("pass"), bcrypt.DefaultCost)
	user, _ := store.CreateUser(ctx, database, "user1", string(hash), model.RoleUser)

	userToken, _ := auth.GenerateToken(testJWTSecret, user.ID, "user1", model.RoleUser)

	// Regular user should not be able to create products (manager+ required).
	req, _ := authRequest("POST", server.URL+"/api/products", userToken, map[string]string{
		"name": "Test",
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for user creating product, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Regular user should not access /api/users.
	req, _ = authRequest("GET", server.URL+"/api/users", userToken, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for user accessing users, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// But reads are fine.
	req, _ = authRequest("GET", server.URL+"/api/products", userToken, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for user listing products, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
