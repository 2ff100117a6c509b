package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"gift-planner-api/middleware"
	"gift-planner-api/models"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	DB *sql.DB
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_date must be YYYY-MM-DD"})
		return
	}

	// Validé à la création uniquement, jamais rétroactivement.
	today := time.Now().Truncate(24 * time.Hour)
	if eventDate.Before(today) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_date cannot be in the past"})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer tx.Rollback()

	var event models.Event
	err = tx.QueryRow(`
		INSERT INTO events (user_id, name, event_date, location, description, budget)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, userID, req.Name, eventDate, req.Location, req.Description, req.Budget).
		Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	// Le propriétaire est aussi matérialisé comme collaborateur accepté,
	// ce qui simplifie les requêtes d'éligibilité.
	_, err = tx.Exec(`
		INSERT INTO collaborators (event_id, user_id, role, status)
		VALUES ($1, $2, 'owner', 'accepted')
	`, event.ID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register event owner"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	event.UserID = userID
	event.Name = req.Name
	event.EventDate = eventDate
	event.Location = req.Location
	event.Description = req.Description
	event.Budget = req.Budget
	event.IsOwner = true
	event.Role = models.RoleOwner

	c.JSON(http.StatusCreated, event)
}

// GetEvents liste les événements possédés et ceux partagés via collaboration.
func (h *EventHandler) GetEvents(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT e.id, e.user_id, e.name, e.event_date, e.location, e.description, e.budget,
		       e.created_at, e.updated_at, col.role
		FROM events e
		INNER JOIN collaborators col ON col.event_id = e.id
		WHERE col.user_id = $1 AND col.status = 'accepted'
		ORDER BY e.event_date ASC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		var location, description sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.EventDate, &location, &description,
			&e.Budget, &e.CreatedAt, &e.UpdatedAt, &e.Role); err != nil {
			continue
		}
		e.Location = location.String
		e.Description = description.String
		e.IsOwner = e.UserID == userID
		events = append(events, e)
	}

	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	userID := middleware.GetUserID(c)
	eventID := c.Param("id")

	hasAccess, err := checkEventAccess(c.Request.Context(), h.DB, eventID, userID)
	if err != nil || !hasAccess {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var e models.Event
	var location, description sql.NullString
	err = h.DB.QueryRow(`
		SELECT id, user_id, name, event_date, location, description, budget, created_at, updated_at
		FROM events
		WHERE id = $1
	`, eventID).Scan(&e.ID, &e.UserID, &e.Name, &e.EventDate, &location, &description,
		&e.Budget, &e.CreatedAt, &e.UpdatedAt)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
		return
	}

	e.Location = location.String
	e.Description = description.String
	e.IsOwner = e.UserID == userID

	slots, err := h.loadSlots(c, eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event recipients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event":            e,
		"event_recipients": slots,
		"is_owner":         e.IsOwner,
	})
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	userID := middleware.GetUserID(c)
	eventID := c.Param("id")

	var isOwner bool
	err := h.DB.QueryRow(`SELECT user_id = $1 FROM events WHERE id = $2`, userID, eventID).Scan(&isOwner)
	if err != nil || !isOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only owner can update event"})
		return
	}

	var req models.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_date must be YYYY-MM-DD"})
		return
	}

	_, err = h.DB.Exec(`
		UPDATE events
		SET name = $1, event_date = $2, location = $3, description = $4, budget = $5, updated_at = NOW()
		WHERE id = $6
	`, req.Name, eventDate, req.Location, req.Description, req.Budget, eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event updated successfully"})
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	userID := middleware.GetUserID(c)
	eventID := c.Param("id")

	var isOwner bool
	err := h.DB.QueryRow(`SELECT user_id = $1 FROM events WHERE id = $2`, userID, eventID).Scan(&isOwner)
	if err != nil || !isOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only owner can delete event"})
		return
	}

	_, err = h.DB.Exec(`DELETE FROM events WHERE id = $1`, eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

// AttachRecipient crée le planning slot (event × recipient).
func (h *EventHandler) AttachRecipient(c *gin.Context) {
	userID := middleware.GetUserID(c)
	eventID := c.Param("id")

	canWrite, err := checkEventWriteAccess(c.Request.Context(), h.DB, eventID, userID)
	if err != nil || !canWrite {
		c.JSON(http.StatusForbidden, gin.H{"error": "Write access denied"})
		return
	}

	var req models.AttachRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var slot models.EventRecipient
	err = h.DB.QueryRow(`
		INSERT INTO event_recipients (event_id, recipient_id, user_id, budget_allocated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, recipient_id) DO NOTHING
		RETURNING id, gift_status, created_at, updated_at
	`, eventID, req.RecipientID, userID, req.BudgetAllocated).
		Scan(&slot.ID, &slot.GiftStatus, &slot.CreatedAt, &slot.UpdatedAt)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusConflict, gin.H{"error": "Recipient is already linked to this event"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach recipient"})
		return
	}

	slot.EventID = eventID
	slot.RecipientID = req.RecipientID
	slot.UserID = userID
	slot.BudgetAllocated = req.BudgetAllocated

	c.JSON(http.StatusCreated, slot)
}

func (h *EventHandler) DetachRecipient(c *gin.Context) {
	userID := middleware.GetUserID(c)
	eventID := c.Param("id")
	slotID := c.Param("slot_id")

	canWrite, err := checkEventWriteAccess(c.Request.Context(), h.DB, eventID, userID)
	if err != nil || !canWrite {
		c.JSON(http.StatusForbidden, gin.H{"error": "Write access denied"})
		return
	}

	result, err := h.DB.Exec(`
		DELETE FROM event_recipients WHERE id = $1 AND event_id = $2
	`, slotID, eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to detach recipient"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Planning slot not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipient detached successfully"})
}

func (h *EventHandler) UpdateGiftStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	eventID := c.Param("id")
	slotID := c.Param("slot_id")

	canWrite, err := checkEventWriteAccess(c.Request.Context(), h.DB, eventID, userID)
	if err != nil || !canWrite {
		c.JSON(http.StatusForbidden, gin.H{"error": "Write access denied"})
		return
	}

	var req models.UpdateGiftStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Exec(`
		UPDATE event_recipients SET gift_status = $1, updated_at = NOW()
		WHERE id = $2 AND event_id = $3
	`, req.GiftStatus, slotID, eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update gift status"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Planning slot not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Gift status updated successfully"})
}

func (h *EventHandler) loadSlots(c *gin.Context, eventID string) ([]models.EventRecipient, error) {
	rows, err := h.DB.QueryContext(c.Request.Context(), `
		SELECT er.id, er.event_id, er.recipient_id, er.user_id, er.budget_allocated,
		       er.gift_status, er.created_at, er.updated_at, r.name
		FROM event_recipients er
		INNER JOIN recipients r ON r.id = er.recipient_id
		WHERE er.event_id = $1
		ORDER BY er.created_at ASC
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := []models.EventRecipient{}
	for rows.Next() {
		var slot models.EventRecipient
		var recipientName string
		if err := rows.Scan(&slot.ID, &slot.EventID, &slot.RecipientID, &slot.UserID,
			&slot.BudgetAllocated, &slot.GiftStatus, &slot.CreatedAt, &slot.UpdatedAt,
			&recipientName); err != nil {
			continue
		}
		slot.Recipient = &models.Recipient{ID: slot.RecipientID, Name: recipientName}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}
