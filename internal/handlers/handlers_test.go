package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"mzansicare/internal/facility"
	"mzansicare/internal/handlers"
	"mzansicare/internal/models"
	"mzansicare/internal/queue"
	"mzansicare/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authMiddlewareTest replaces the JWT middleware: user id and role come from
// request headers.
func authMiddlewareTest() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Request.Header.Get("X-Test-UserID"))
		if err != nil {
			id = 1
		}
		c.Set("userID", uint(id))
		role := c.Request.Header.Get("X-Test-Role")
		if role == "" {
			role = "patient"
		}
		c.Set("role", role)
		c.Next()
	}
}

func setupTestServer(t *testing.T) *httptest.Server {
	gin.SetMode(gin.TestMode)

	db := storage.ConnectTestingDatabase()
	require.NoError(t, db.AutoMigrate(
		&models.Patient{},
		&models.Facility{},
		&models.Ticket{},
		&models.Appointment{},
		&models.Reminder{},
		&models.Supply{},
		&models.Feedback{},
	))
	require.NoError(t, queue.MigrateIndexes(db))
	db.Exec("DELETE FROM tickets")
	db.Exec("DELETE FROM patients")
	db.Exec("DELETE FROM facilities")
	require.NoError(t, facility.SeedFacilities(db))

	directory := facility.NewDirectory(db, nil)
	handlers.Setup(queue.NewService(db, queue.WithFacilities(directory)), directory)

	r := gin.New()

	r.POST("/auth/register", handlers.Register)

	public := r.Group("/facilities")
	{
		public.GET("", handlers.ListFacilitiesHandler)
		public.GET("/:id", handlers.GetFacilityHandler)
	}

	api := r.Group("/api", authMiddlewareTest())
	{
		api.POST("/queue/join", handlers.JoinQueueHandler)
		api.GET("/queue/ticket", handlers.GetTicketHandler)
		api.POST("/queue/tickets/:id/cancel", handlers.CancelTicketHandler)
		api.POST("/facilities/:facilityId/queue/call-next", handlers.CallNextHandler)
		api.POST("/queue/tickets/:id/serve", handlers.ServeTicketHandler)
		api.POST("/ai/triage", handlers.TriageHandler)
	}

	return httptest.NewServer(r)
}

func doJSON(t *testing.T, method, url string, userID uint, role string, body any) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-UserID", fmt.Sprintf("%d", userID))
	if role != "" {
		req.Header.Set("X-Test-Role", role)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return res
}

func createPatient(t *testing.T, name string) uint {
	p := models.Patient{
		Name:         name,
		Email:        fmt.Sprintf("%s_%d@example.com", name, time.Now().UnixNano()),
		PasswordHash: "hashed",
		Role:         "patient",
		ClinicCardID: fmt.Sprintf("MC-TEST-%d", time.Now().UnixNano()),
	}
	require.NoError(t, storage.DB.Create(&p).Error)
	return p.ID
}

func TestQueueFlow(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	thabo := createPatient(t, "Thabo")
	lerato := createPatient(t, "Lerato")

	// Thabo joins and lands at position 1.
	res := doJSON(t, "POST", ts.URL+"/api/queue/join", thabo, "", gin.H{
		"facility_id": "jhb-central",
		"reason":      "checkup",
	})
	defer res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var join1 handlers.JoinQueueResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&join1))
	assert.True(t, join1.Created)
	assert.Equal(t, 1, join1.Ticket.Position)
	assert.Equal(t, 0, join1.Ticket.EtaMinutes)

	// Joining again, even at another facility, returns the same ticket.
	res = doJSON(t, "POST", ts.URL+"/api/queue/join", thabo, "", gin.H{
		"facility_id": "soweto-clinic",
	})
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var join2 handlers.JoinQueueResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&join2))
	assert.False(t, join2.Created)
	assert.Equal(t, join1.Ticket.ID, join2.Ticket.ID)

	// Lerato joins behind Thabo.
	res = doJSON(t, "POST", ts.URL+"/api/queue/join", lerato, "", gin.H{
		"facility_id": "jhb-central",
	})
	defer res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var join3 handlers.JoinQueueResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&join3))
	assert.Equal(t, 2, join3.Ticket.Position)
	assert.Equal(t, 6, join3.Ticket.EtaMinutes)

	// The ticket endpoint reflects the active ticket.
	res = doJSON(t, "GET", ts.URL+"/api/queue/ticket", lerato, "", nil)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	// Operator calls the next patient; Thabo was first in.
	res = doJSON(t, "POST", ts.URL+"/api/facilities/jhb-central/queue/call-next", 99, "admin", nil)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var called handlers.TicketResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&called))
	assert.Equal(t, join1.Ticket.ID, called.ID)
	assert.Equal(t, models.TicketCalled, called.Status)

	// Serving completes the ticket.
	res = doJSON(t, "POST", ts.URL+"/api/queue/tickets/"+called.ID+"/serve", 99, "admin", nil)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	// Lerato cannot cancel someone else's ticket but can cancel her own.
	res = doJSON(t, "POST", ts.URL+"/api/queue/tickets/"+called.ID+"/cancel", lerato, "", nil)
	defer res.Body.Close()
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = doJSON(t, "POST", ts.URL+"/api/queue/tickets/"+join3.Ticket.ID+"/cancel", lerato, "", nil)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// Cancelling a closed ticket is a precondition failure.
	res = doJSON(t, "POST", ts.URL+"/api/queue/tickets/"+join3.Ticket.ID+"/cancel", lerato, "", nil)
	defer res.Body.Close()
	assert.Equal(t, http.StatusPreconditionFailed, res.StatusCode)
}

// Every committed account carries its clinic card id; concurrent
// registrations must never collide on an unassigned card column.
func TestRegisterAssignsClinicCard(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	for _, name := range []string{"Thabo", "Lerato"} {
		res := doJSON(t, "POST", ts.URL+"/auth/register", 0, "", gin.H{
			"name":     name,
			"email":    fmt.Sprintf("%s_%d@example.com", name, time.Now().UnixNano()),
			"password": "secret123",
		})
		defer res.Body.Close()
		require.Equal(t, http.StatusCreated, res.StatusCode)
	}

	var patients []models.Patient
	require.NoError(t, storage.DB.Order("id ASC").Find(&patients).Error)
	require.Len(t, patients, 2)

	seen := map[string]bool{}
	for _, p := range patients {
		assert.Regexp(t, `^MC-[A-Z]{1,3}-\d{3}$`, p.ClinicCardID)
		assert.False(t, seen[p.ClinicCardID], "card ids must be unique")
		seen[p.ClinicCardID] = true
	}
}

func TestJoinUnknownFacility(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	userID := createPatient(t, "Sipho")
	res := doJSON(t, "POST", ts.URL+"/api/queue/join", userID, "", gin.H{
		"facility_id": "no-such-place",
	})
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestTriageEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	res := doJSON(t, "POST", ts.URL+"/api/ai/triage", 1, "", gin.H{
		"symptoms": "chest pain and breathless",
	})
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var assessment map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&assessment))
	assert.Equal(t, "high", assessment["urgency"])
	assert.Equal(t, "Emergency / GP", assessment["suggested_clinic"])
}
