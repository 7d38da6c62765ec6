package items

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	itemsvc "barterzone-backend/internal/application/items"
	"barterzone-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupItemHandlers(t *testing.T) (*Handlers, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Item{}))
	return &Handlers{Service: &itemsvc.Service{DB: db}}, db
}

func appAs(h *Handlers, userID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"user_id": userID.String(), "role": "member"})
		return c.Next()
	})
	app.Post("/items/create-item", h.CreateItem)
	app.Put("/items/edit-item/:item_id", h.EditItem)
	app.Delete("/items/delete-item/:item_id", h.DeleteItem)
	app.Get("/items/my-items", h.GetMyItems)
	app.Get("/items/available", h.GetAvailableItems)
	app.Get("/items/search", h.SearchItems)
	app.Get("/items/:item_id", h.GetItem)
	return app
}

func TestCreateItem_Handler(t *testing.T) {
	h, _ := setupItemHandlers(t)
	userID := uuid.New()
	app := appAs(h, userID)

	body, _ := json.Marshal(map[string]string{"name": "Record player", "condition": "used"})
	req := httptest.NewRequest("POST", "/items/create-item", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body, _ = json.Marshal(map[string]string{"name": "  "})
	req = httptest.NewRequest("POST", "/items/create-item", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestEditItem_ErrorMapping(t *testing.T) {
	h, db := setupItemHandlers(t)
	owner := uuid.New()
	stranger := uuid.New()
	item := &domain.Item{UserID: owner, Name: "camera", Available: true}
	require.NoError(t, db.Create(item).Error)

	payload, _ := json.Marshal(map[string]string{"name": "camera"})

	// Not owner: 403
	req := httptest.NewRequest("PUT", "/items/edit-item/"+item.ItemID.String(), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := appAs(h, stranger).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Unknown item: 404
	req = httptest.NewRequest("PUT", "/items/edit-item/"+uuid.NewString(), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err = appAs(h, owner).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Bound item: 409
	require.NoError(t, db.Model(&domain.Item{}).Where("item_id = ?", item.ItemID).Update("available", false).Error)
	req = httptest.NewRequest("PUT", "/items/edit-item/"+item.ItemID.String(), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err = appAs(h, owner).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestBrowse_Handlers(t *testing.T) {
	h, db := setupItemHandlers(t)
	me := uuid.New()
	other := uuid.New()
	require.NoError(t, db.Create(&domain.Item{UserID: me, Name: "mine", Available: true}).Error)
	require.NoError(t, db.Create(&domain.Item{UserID: other, Name: "vintage lamp", Available: true}).Error)
	app := appAs(h, me)

	req := httptest.NewRequest("GET", "/items/available", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data, _ := result["data"].([]interface{})
	require.Len(t, data, 1)

	req = httptest.NewRequest("GET", "/items/search?q=lamp", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	json.NewDecoder(resp.Body).Decode(&result)
	data, _ = result["data"].([]interface{})
	assert.Len(t, data, 1)

	req = httptest.NewRequest("GET", "/items/my-items", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	json.NewDecoder(resp.Body).Decode(&result)
	data, _ = result["data"].([]interface{})
	assert.Len(t, data, 1)
}
